package data

import (
	"context"
	"errors"
	"fmt"

	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/ports"
)

// ProfileLookup adapts UserRepo to the resolver's profile port. A missing
// row is not an error: the resolver synthesizes a minimal profile instead.
type ProfileLookup struct {
	Users *UserRepo
}

var _ ports.ProfileLookup = (*ProfileLookup)(nil)

// FetchProfileByID resolves a provider-side user id to a directory profile.
func (l *ProfileLookup) FetchProfileByID(ctx context.Context, id string) (*domainauth.UserProfile, error) {
	u, err := l.Users.GetByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &domainauth.UserProfile{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Department: u.Department,
		IsAdmin:    u.IsAdmin,
	}, nil
}
