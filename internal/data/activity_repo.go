package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hrbrew/hrbrew-api/internal/domain/model"
)

// ActivityRepo appends audit rows to activity_logs and
// password_change_history. Appends only; reads happen out of band.
type ActivityRepo struct {
	DB *sql.DB
}

// NewActivityRepo creates a new ActivityRepo.
func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{DB: db}
}

// Log appends one activity row.
func (r *ActivityRepo) Log(ctx context.Context, entry *model.ActivityLog) error {
	details := entry.Details
	if len(details) == 0 {
		details = []byte("{}")
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO activity_logs (actor_id, action, details)
		VALUES ($1, $2, $3)`,
		entry.ActorID, string(entry.Action), details)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// LogPasswordChange appends one password_change_history row.
func (r *ActivityRepo) LogPasswordChange(ctx context.Context, adminUserID, targetUserID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO password_change_history (admin_user_id, target_user_id)
		VALUES ($1, $2)`,
		adminUserID, targetUserID)
	if err != nil {
		return fmt.Errorf("insert password change: %w", err)
	}
	return nil
}
