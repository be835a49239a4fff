package action

import (
	"time"

	"github.com/google/uuid"
)

// Kind names a user action recorded in the ledger.
type Kind string

const (
	KindCreateReport   Kind = "CREATE_REPORT"
	KindFollowReport   Kind = "FOLLOW_REPORT"
	KindCommentReport  Kind = "COMMENT_REPORT"
	KindMarkInProgress Kind = "MARK_IN_PROGRESS"
	KindMarkClosed     Kind = "MARK_CLOSED"
	KindVerifyClosed   Kind = "VERIFY_CLOSED"
)

// Action is an append-only ledger row. One row per occurrence; rows are
// never updated, and only the unfollow cascade removes them.
type Action struct {
	ID         int64     `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	ActionName Kind      `json:"action_name" db:"action_name"`
	ReportID   *int64    `json:"report_id,omitempty" db:"report_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PointEntry ties a ledger row to the points it was worth when recorded.
type PointEntry struct {
	ID       int64     `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	ActionID int64     `json:"action_id" db:"action_id"`
	Points   int       `json:"points" db:"points"`
}
