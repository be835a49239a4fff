package action

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "fixit:leaderboard:points"

// LeaderboardEntry is one ranked row of the points leaderboard.
type LeaderboardEntry struct {
	UserID uuid.UUID `json:"user_id"`
	Points int       `json:"points"`
}

// Leaderboard keeps a redis sorted set of user points in step with the
// ledger. A nil client disables it; callers fall back to SQL ordering.
type Leaderboard struct {
	rdb *redis.Client
}

func NewLeaderboard(rdb *redis.Client) *Leaderboard {
	return &Leaderboard{rdb: rdb}
}

// Enabled reports whether a redis client is configured
func (l *Leaderboard) Enabled() bool {
	return l != nil && l.rdb != nil
}

// Bump adds points for a user. No-op when redis is absent.
func (l *Leaderboard) Bump(ctx context.Context, userID uuid.UUID, points int) error {
	if !l.Enabled() || points == 0 {
		return nil
	}
	return l.rdb.ZIncrBy(ctx, leaderboardKey, float64(points), userID.String()).Err()
}

// Top returns the n highest-scoring users.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	if !l.Enabled() {
		return nil, fmt.Errorf("leaderboard disabled")
	}

	members, err := l.rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(fmt.Sprint(m.Member))
		if err != nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{UserID: id, Points: int(m.Score)})
	}

	return entries, nil
}
