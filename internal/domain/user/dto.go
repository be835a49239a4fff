package user

import "github.com/google/uuid"

// LeaderboardRow is one ranked entry of the points leaderboard.
type LeaderboardRow struct {
	Rank   int       `json:"rank"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar,omitempty"`
	Points int       `json:"points"`
}
