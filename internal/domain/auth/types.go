package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Mode records which of the two credential paths produced the current
// session. Keep string form for easy persistence and cookies.
type Mode string

const (
	// ModeRemote means the active session was established via the remote
	// identity provider.
	ModeRemote Mode = "remote"
	// ModeLocal means the active session came from the local fallback
	// credential table.
	ModeLocal Mode = "local"
)

// Valid reports whether m is a known mode value.
func (m Mode) Valid() bool { return m == ModeRemote || m == ModeLocal }

// UserProfile is the resolved identity of the current actor. It is replaced
// wholesale on every successful resolution and never partially mutated.
// IsAdmin comes only from an explicit backend-provided flag; there is no
// client-side elevation path.
type UserProfile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	Department string `json:"department,omitempty"`
	IsAdmin    bool   `json:"is_admin"`
}

// MinimalProfile synthesizes a profile from provider auth data alone, used
// when a live remote session has no backing profile row. The username is the
// local part of the email and admin is never granted.
func MinimalProfile(id, email string) UserProfile {
	username := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		username = email[:at]
	}
	return UserProfile{
		ID:       id,
		Username: username,
		Email:    email,
	}
}

// Credential is one read-only record of the local fallback table. The
// Password field must never appear in a derived UserProfile or in logs.
type Credential struct {
	ID         string
	Username   string
	Email      string
	Password   string
	IsAdmin    bool
	FullName   string
	Department string
}

// Profile converts the credential to a UserProfile, stripping the password.
func (c Credential) Profile() UserProfile {
	return UserProfile{
		ID:         c.ID,
		Username:   c.Username,
		Email:      c.Email,
		FullName:   c.FullName,
		Department: c.Department,
		IsAdmin:    c.IsAdmin,
	}
}

// RemoteSession is the core's view of a provider-owned session. Beyond
// presence, only the provider-side user id and email are inspected.
type RemoteSession struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Live reports whether the session reference is present and unexpired.
func (s *RemoteSession) Live() bool {
	if s == nil || s.UserID == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || time.Now().Before(s.ExpiresAt)
}

// SessionEvent names a session-change notification from the identity
// provider.
type SessionEvent string

const (
	EventSignedIn       SessionEvent = "signed_in"
	EventSignedOut      SessionEvent = "signed_out"
	EventTokenRefreshed SessionEvent = "token_refreshed"
	// EventInitial is delivered to new subscribers with the current state.
	EventInitial SessionEvent = "initial"
)

// Session is the server-side record persisted for an authenticated browser.
// ID is an opaque session identifier (random URL-safe string).
type Session struct {
	ID        string      `json:"id"`
	Profile   UserProfile `json:"profile"`
	Mode      Mode        `json:"mode"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// IsAdmin reports whether the session belongs to an administrator.
func (s Session) IsAdmin() bool { return s.Profile.IsAdmin }
