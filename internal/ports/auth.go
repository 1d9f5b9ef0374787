package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
)

// IdentityProvider is the remote authentication backend. Failures of this
// collaborator are expected and recovered by the local fallback path.
type IdentityProvider interface {
	// SignInWithPassword exchanges credentials for a provider session.
	SignInWithPassword(ctx context.Context, identifier, secret string) (domainauth.RemoteSession, error)

	// CurrentSession returns the live provider session, if any.
	CurrentSession(ctx context.Context) (*domainauth.RemoteSession, error)

	// OnSessionChange registers a callback invoked on every provider session
	// transition (sign-in, sign-out, token refresh). Callbacks are delivered
	// one at a time. The returned function unsubscribes.
	OnSessionChange(fn func(event domainauth.SessionEvent, sess *domainauth.RemoteSession)) (unsubscribe func())

	// SignOut tears down the provider session.
	SignOut(ctx context.Context) error
}

// ProfileLookup resolves a backend profile row by provider-side user id.
// A nil profile with nil error means the id has no profile row.
type ProfileLookup interface {
	FetchProfileByID(ctx context.Context, id string) (*domainauth.UserProfile, error)
}

// PasswordAdmin is the privileged provider endpoint used to reset passwords.
// Authorization is enforced by the backend; callers only relay the result.
type PasswordAdmin interface {
	SetPasswordByEmail(ctx context.Context, email, password string) error
}

// CredentialSource exposes the static local fallback credential table.
// No runtime mutation interface exists.
type CredentialSource interface {
	// Authenticate matches identifier and secret against the table, exact
	// and case-sensitive. The returned profile never carries the password.
	Authenticate(identifier, secret string) (domainauth.UserProfile, bool)

	// Profiles returns the table entries as password-stripped profiles.
	Profiles() []domainauth.UserProfile
}

// StateStore is the durable key-value persistence for auth state. The core
// uses exactly two fixed keys: one for the serialized profile and one for
// the mode flag.
type StateStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SessionStore persists and retrieves server-side browser sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
