package badge

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Evaluator grants badges from ledger thresholds. Grants are idempotent
// and never revoked; an evaluation that finds the bar already cleared
// simply re-upserts.
type Evaluator struct {
	repo Repository
}

func NewEvaluator(repo Repository) *Evaluator {
	return &Evaluator{repo: repo}
}

// Evaluate checks every badge rule for the user. A rule whose catalog
// entry is missing is skipped with a warning rather than failing the
// whole pass.
func (e *Evaluator) Evaluate(ctx context.Context, userID uuid.UUID) error {
	for _, rule := range rules {
		count, err := e.repo.CountActions(ctx, userID, rule.kind)
		if err != nil {
			return err
		}
		if count < rule.threshold {
			continue
		}

		badgeID, err := e.repo.IDByName(ctx, rule.badgeName)
		if err != nil {
			if errors.Is(err, ErrUnknownBadge) {
				log.Warn().
					Str("badge", rule.badgeName).
					Msg("Badge missing from catalog, skipping")
				continue
			}
			return err
		}

		if err := e.repo.Grant(ctx, userID, badgeID); err != nil {
			return err
		}
	}

	return nil
}

// ListByUser returns the user's earned badges.
func (e *Evaluator) ListByUser(ctx context.Context, userID uuid.UUID) ([]UserBadge, error) {
	return e.repo.ListByUser(ctx, userID)
}

// ListAll returns the badge catalog.
func (e *Evaluator) ListAll(ctx context.Context) ([]Badge, error) {
	return e.repo.ListAll(ctx)
}
