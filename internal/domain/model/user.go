//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/hrbrew/hrbrew-api/internal/errors"
)

const (
	maxUsernameLen   = 64
	maxFullNameLen   = 255
	maxDepartmentLen = 255
)

// User is a portal account row as stored in the profiles table.
type User struct {
	ID         string    `json:"id"                   db:"id"`
	Username   string    `json:"username"             db:"username"`
	Email      string    `json:"email,omitempty"      db:"email"`
	FullName   string    `json:"full_name,omitempty"  db:"full_name"`
	Department string    `json:"department,omitempty" db:"department"`
	IsAdmin    bool      `json:"is_admin"             db:"is_admin"`
	CreatedAt  time.Time `json:"created_at"           db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"           db:"updated_at"`
}

// UserWithLinks is the admin directory view of a user and their links.
type UserWithLinks struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email,omitempty"`
	FullName   string     `json:"full_name,omitempty"`
	Department string     `json:"department,omitempty"`
	IsAdmin    bool       `json:"is_admin"`
	Links      []UserLink `json:"links"`
}

// UpsertUserRequest represents parameters to create or update a profile row.
type UpsertUserRequest struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	Department string `json:"department,omitempty"`
	IsAdmin    bool   `json:"is_admin"`
}

// Validate checks required fields and length limits.
func (r *UpsertUserRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return apperrors.ValidationField("id", "user id is required")
	}
	username := strings.TrimSpace(r.Username)
	if username == "" {
		return apperrors.ValidationField("username", "username is required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return apperrors.ValidationField("username", "username is too long")
	}
	if utf8.RuneCountInString(r.FullName) > maxFullNameLen {
		return apperrors.ValidationField("full_name", "full name is too long")
	}
	if utf8.RuneCountInString(r.Department) > maxDepartmentLen {
		return apperrors.ValidationField("department", "department is too long")
	}
	return nil
}
