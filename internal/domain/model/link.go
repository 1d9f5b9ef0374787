package model

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/hrbrew/hrbrew-api/internal/errors"
)

const (
	maxLinkNameLen = 255
	maxLinkURLLen  = 2048
)

// UserLink is one external link in a user's personal list. The excluded UI
// opens these inside an embedded frame.
type UserLink struct {
	ID        string    `json:"id"         db:"id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	Name      string    `json:"name"       db:"name"`
	URL       string    `json:"url"        db:"url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CreateLinkRequest represents parameters to add a link to a user's list.
type CreateLinkRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Validate checks required fields, lengths, and that the URL is absolute.
func (r *CreateLinkRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return apperrors.ValidationField("name", "link name is required")
	}
	if utf8.RuneCountInString(name) > maxLinkNameLen {
		return apperrors.ValidationField("name", "link name is too long")
	}

	raw := strings.TrimSpace(r.URL)
	if raw == "" {
		return apperrors.ValidationField("url", "link url is required")
	}
	if len(raw) > maxLinkURLLen {
		return apperrors.ValidationField("url", "link url is too long")
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return apperrors.ValidationField("url", "link url must be an absolute http(s) URL")
	}
	return nil
}
