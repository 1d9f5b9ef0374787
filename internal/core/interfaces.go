// Package core defines repository interfaces consumed by the service layer.
// Concrete implementations live in internal/data.
package core

import (
	"context"

	"github.com/hrbrew/hrbrew-api/internal/domain/model"
)

// UserRepository provides persistence for profile rows.
type UserRepository interface {
	Upsert(ctx context.Context, req *model.UpsertUserRequest) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]*model.User, error)
}

// LinkRepository provides persistence for user links.
type LinkRepository interface {
	Create(ctx context.Context, userID string, req *model.CreateLinkRequest) (*model.UserLink, error)
	GetByID(ctx context.Context, id string) (*model.UserLink, error)
	ListByUser(ctx context.Context, userID string) ([]*model.UserLink, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ActivityRepository appends audit rows. Writes are best-effort from the
// caller's point of view.
type ActivityRepository interface {
	Log(ctx context.Context, entry *model.ActivityLog) error
	LogPasswordChange(ctx context.Context, adminUserID, targetUserID string) error
}
