package action

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BadgeEvaluator re-checks badge eligibility after every recorded action.
type BadgeEvaluator interface {
	Evaluate(ctx context.Context, userID uuid.UUID) error
}

// Service records user actions and keeps the points pipeline moving:
// ledger row, point entry, aggregate bump, badge evaluation, leaderboard.
type Service struct {
	repo        Repository
	badges      BadgeEvaluator
	leaderboard *Leaderboard
}

func NewService(repo Repository, badges BadgeEvaluator, leaderboard *Leaderboard) *Service {
	return &Service{repo: repo, badges: badges, leaderboard: leaderboard}
}

// Record appends one action occurrence for the user. The ledger write is
// the primary write; badge evaluation and the leaderboard bump are
// best-effort and never fail the call.
func (s *Service) Record(ctx context.Context, userID uuid.UUID, kind Kind, reportID *int64) error {
	points := PointsFor(kind)

	actionID, err := s.repo.Record(ctx, userID, kind, reportID, points)
	if err != nil {
		return err
	}

	if s.badges != nil {
		if err := s.badges.Evaluate(ctx, userID); err != nil {
			log.Error().Err(err).
				Str("user_id", userID.String()).
				Int64("action_id", actionID).
				Msg("Badge evaluation failed")
		}
	}

	if err := s.leaderboard.Bump(ctx, userID, points); err != nil {
		log.Error().Err(err).
			Str("user_id", userID.String()).
			Msg("Leaderboard update failed")
	}

	return nil
}

// RemoveFollowTrail drops the FOLLOW_REPORT rows for a (user, report)
// pair as part of the unfollow cascade.
func (s *Service) RemoveFollowTrail(ctx context.Context, userID uuid.UUID, reportID int64) error {
	return s.repo.RemoveFollowTrail(ctx, userID, reportID)
}

// ListByUser returns the user's ledger, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Action, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Points returns the user's denormalized points aggregate.
func (s *Service) Points(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.GetUserPoints(ctx, userID)
}
