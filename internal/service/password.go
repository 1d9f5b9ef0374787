package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hrbrew/hrbrew-api/internal/core"
	domainauth "github.com/hrbrew/hrbrew-api/internal/domain/auth"
	"github.com/hrbrew/hrbrew-api/internal/domain/model"
	apperrors "github.com/hrbrew/hrbrew-api/internal/errors"
	"github.com/hrbrew/hrbrew-api/internal/ports"
)

const minPasswordLen = 6

// PasswordServiceOptions groups dependencies for PasswordService.
type PasswordServiceOptions struct {
	Admin    ports.PasswordAdmin
	Users    core.UserRepository
	Activity core.ActivityRepository
	Logger   *slog.Logger
}

// PasswordService relays admin-initiated password changes to the
// identity provider's admin API and records them in the audit tables.
type PasswordService struct {
	admin    ports.PasswordAdmin
	users    core.UserRepository
	activity core.ActivityRepository
	logger   *slog.Logger
}

// NewPasswordService constructs a new PasswordService.
func NewPasswordService(opts PasswordServiceOptions) (*PasswordService, error) {
	if opts.Admin == nil {
		return nil, errors.New("Admin is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "password_service")
	}

	return &PasswordService{
		admin:    opts.Admin,
		users:    opts.Users,
		activity: opts.Activity,
		logger:   logger,
	}, nil
}

// Change sets a new password for the account identified by email. Only
// admins may call it. The new password itself never reaches logs or the
// audit tables.
func (s *PasswordService) Change(ctx context.Context, actor domainauth.UserProfile, email, newPassword string) error {
	if !actor.IsAdmin {
		return apperrors.Forbidden("admin privileges required")
	}
	if email == "" {
		return apperrors.ValidationField("email", "email is required")
	}
	if len(newPassword) < minPasswordLen {
		return apperrors.ValidationField("password",
			fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	if err := s.admin.SetPasswordByEmail(ctx, email, newPassword); err != nil {
		return err
	}

	s.record(ctx, actor, email)
	return nil
}

// record writes the password-change history and activity rows. Both are
// best effort: the password has already changed upstream, so audit
// failures are logged and swallowed.
func (s *PasswordService) record(ctx context.Context, actor domainauth.UserProfile, email string) {
	if s.activity == nil {
		return
	}

	targetID := email
	if s.users != nil {
		if u, err := s.users.GetByEmail(ctx, email); err == nil && u != nil {
			targetID = u.ID
		}
	}

	if err := s.activity.LogPasswordChange(ctx, actor.ID, targetID); err != nil && s.logger != nil {
		s.logger.Warn("password change history write failed", "error", err)
	}

	details, err := json.Marshal(map[string]string{"target_user_id": targetID})
	if err != nil {
		return
	}
	entry := &model.ActivityLog{
		ActorID: actor.ID,
		Action:  model.ActivityChangePassword,
		Details: details,
	}
	if err := s.activity.Log(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("activity log write failed", "action", model.ActivityChangePassword, "error", err)
	}
}
