package user

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors the identity provider's subject plus the gamification
// aggregate. The points column is denormalized; the action ledger is the
// source of truth.
type User struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Avatar    string    `json:"avatar" db:"avatar"`
	Points    int       `json:"points" db:"points"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
