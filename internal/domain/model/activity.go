package model

import (
	"encoding/json"
	"time"
)

// ActivityAction names an audited portal action.
type ActivityAction string

const (
	ActivityAddLink        ActivityAction = "add_link"
	ActivityRemoveLink     ActivityAction = "remove_link"
	ActivityChangePassword ActivityAction = "change_password"
)

// ActivityLog is one audit row. Details is a free-form JSON document
// describing the action target.
type ActivityLog struct {
	ID        string          `json:"id"         db:"id"`
	ActorID   string          `json:"actor_id"   db:"actor_id"`
	Action    ActivityAction  `json:"action"     db:"action"`
	Details   json.RawMessage `json:"details"    db:"details"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// PasswordChange is one password_change_history row.
type PasswordChange struct {
	ID           string    `json:"id"             db:"id"`
	AdminUserID  string    `json:"admin_user_id"  db:"admin_user_id"`
	TargetUserID string    `json:"target_user_id" db:"target_user_id"`
	ChangedAt    time.Time `json:"changed_at"     db:"changed_at"`
}
