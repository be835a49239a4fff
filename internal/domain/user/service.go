package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Joyanne05/fixit-my/internal/domain/action"
)

const defaultLeaderboardSize = 20

// PointsLeaderboard is the redis-backed ranking accelerator.
// *action.Leaderboard satisfies it.
type PointsLeaderboard interface {
	Enabled() bool
	Top(ctx context.Context, n int) ([]action.LeaderboardEntry, error)
}

type Service struct {
	repo        Repository
	leaderboard PointsLeaderboard
}

func NewService(repo Repository, leaderboard PointsLeaderboard) *Service {
	return &Service{repo: repo, leaderboard: leaderboard}
}

// Sync upserts the identity row from token claims. Called on every login;
// an already-known user is a no-op.
func (s *Service) Sync(ctx context.Context, userID uuid.UUID, name, avatar string) (*User, error) {
	if name == "" {
		name = "No Name"
	}

	u := &User{UserID: userID, Name: name, Avatar: avatar}
	if err := s.repo.Sync(ctx, u); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// Leaderboard returns the top users by points. The redis sorted set is
// preferred; SQL ordering covers deployments without redis.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultLeaderboardSize
	}

	if s.leaderboard != nil && s.leaderboard.Enabled() {
		rows, err := s.fromRedis(ctx, limit)
		if err != nil {
			log.Warn().Err(err).Msg("redis leaderboard unavailable, falling back to sql")
		} else if len(rows) > 0 {
			return rows, nil
		}
		// An empty sorted set means redis has no scores yet (fresh
		// instance, or a restart wiped it); users.points still holds
		// the real totals, so treat it as a miss.
	}

	users, err := s.repo.TopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]LeaderboardRow, 0, len(users))
	for i, u := range users {
		rows = append(rows, LeaderboardRow{
			Rank:   i + 1,
			UserID: u.UserID,
			Name:   u.Name,
			Avatar: u.Avatar,
			Points: u.Points,
		})
	}

	return rows, nil
}

func (s *Service) fromRedis(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	entries, err := s.leaderboard.Top(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}

	users, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	rows := make([]LeaderboardRow, 0, len(entries))
	for i, e := range entries {
		u, ok := byID[e.UserID]
		if !ok {
			continue
		}
		rows = append(rows, LeaderboardRow{
			Rank:   i + 1,
			UserID: e.UserID,
			Name:   u.Name,
			Avatar: u.Avatar,
			Points: e.Points,
		})
	}

	return rows, nil
}
