package report

import (
	"github.com/google/uuid"
)

// anonymousName replaces the creator's name on anonymous reports
const anonymousName = "Anonymous"

// PhotoUpload carries raw photo bytes from the HTTP layer.
type PhotoUpload struct {
	Data        []byte
	ContentType string
}

// CreateInput is the report submission payload. Coordinates are optional;
// a report without them simply stays off the map view.
type CreateInput struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Category    string   `json:"category" validate:"required,category"`
	Description string   `json:"description" validate:"required,max=5000"`
	Location    string   `json:"location" validate:"required,max=500"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	IsAnonymous bool     `json:"is_anonymous"`
	Photo       *PhotoUpload
}

// CommentInput is the comment payload.
type CommentInput struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}

// View is the flat report projection served to clients: the report row
// joined with creator info and follow aggregates.
type View struct {
	Report
	CreatorName    string `json:"creator_name" db:"creator_name"`
	CreatorAvatar  string `json:"creator_avatar" db:"creator_avatar"`
	FollowersCount int    `json:"followers_count" db:"followers_count"`
	IsFollowing    bool   `json:"is_following" db:"is_following"`
}

// FollowerInfo identifies one follower of a report.
type FollowerInfo struct {
	UserID uuid.UUID `json:"user_id" db:"user_id"`
	Name   string    `json:"name" db:"name"`
	Avatar string    `json:"avatar" db:"avatar"`
}

// Detail is the single-report projection with its follower list.
type Detail struct {
	Report    View           `json:"report"`
	Followers []FollowerInfo `json:"followers"`
}

// ConfirmResult reports the quorum state after a confirmation.
type ConfirmResult struct {
	Count  int    `json:"count"`
	Status Status `json:"status"`
}
