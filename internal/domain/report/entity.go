package report

import (
	"time"

	"github.com/google/uuid"
)

// Status is the report lifecycle state.
type Status string

const (
	StatusOpen         Status = "open"
	StatusAcknowledged Status = "acknowledged"
	StatusInProgress   Status = "in_progress"
	StatusClosed       Status = "closed"
)

// quorumThreshold is the number of independent community confirmations
// that closes a report. Policy constant, not configurable.
const quorumThreshold = 3

// Report is a filed civic issue. Rows are never deleted; status moves
// open -> acknowledged -> in_progress -> closed, with closed terminal.
type Report struct {
	ReportID    int64      `json:"report_id" db:"report_id"`
	Title       string     `json:"title" db:"title"`
	Category    string     `json:"category" db:"category"`
	Description string     `json:"description" db:"description"`
	Location    string     `json:"location" db:"location"`
	Latitude    *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64   `json:"longitude,omitempty" db:"longitude"`
	Status      Status     `json:"status" db:"status"`
	IsAnonymous bool       `json:"is_anonymous" db:"is_anonymous"`
	PhotoURL    *string    `json:"photo_url,omitempty" db:"photo_url"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	ClosedBy    *uuid.UUID `json:"closed_by,omitempty" db:"closed_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Comment is an append-only report comment.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	ReportID  int64     `json:"report_id" db:"report_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Comment   string    `json:"comment" db:"comment"`
	UserName  string    `json:"user_name" db:"user_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
