package badge

import (
	"time"

	"github.com/google/uuid"

	"github.com/Joyanne05/fixit-my/internal/domain/action"
)

const (
	NameFirstReport = "FIRST_REPORT"
	NameHelper      = "HELPER"
	NameResolver    = "RESOLVER"
)

// Badge is a static catalog entry
type Badge struct {
	BadgeID   int    `json:"badge_id" db:"badge_id"`
	BadgeName string `json:"badge_name" db:"badge_name"`
}

// UserBadge is a permanent grant. Set once, never revoked.
type UserBadge struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	BadgeID   int       `json:"badge_id" db:"badge_id"`
	BadgeName string    `json:"badge_name" db:"badge_name"`
	EarnedAt  time.Time `json:"earned_at" db:"earned_at"`
}

// rule grants a badge once the ledger holds at least threshold rows of
// the given action kind.
type rule struct {
	badgeName string
	kind      action.Kind
	threshold int
}

var rules = []rule{
	{NameFirstReport, action.KindCreateReport, 1},
	{NameHelper, action.KindVerifyClosed, 10},
	{NameResolver, action.KindMarkClosed, 5},
}
