package badge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Joyanne05/fixit-my/internal/domain/action"
)

const queryTimeout = 3 * time.Second

type Repository interface {
	IDByName(ctx context.Context, name string) (int, error)
	CountActions(ctx context.Context, userID uuid.UUID, kind action.Kind) (int, error)
	Grant(ctx context.Context, userID uuid.UUID, badgeID int) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]UserBadge, error)
	ListAll(ctx context.Context) ([]Badge, error)
}

// BadgeRepository provides badge catalog access and grant upserts.
type BadgeRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

func (r *BadgeRepository) IDByName(ctx context.Context, name string) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var id int
	err := r.db.GetContext(ctx2, &id, `SELECT badge_id FROM badges WHERE badge_name = $1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUnknownBadge
		}
		return 0, fmt.Errorf("%w: get badge id", ErrInternal)
	}

	return id, nil
}

func (r *BadgeRepository) CountActions(ctx context.Context, userID uuid.UUID, kind action.Kind) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := r.db.GetContext(ctx2, &count, `
		SELECT COUNT(*) FROM user_actions WHERE user_id = $1 AND action_name = $2
	`, userID, kind)
	if err != nil {
		return 0, fmt.Errorf("%w: count actions", ErrInternal)
	}

	return count, nil
}

// Grant upserts a badge for the user. Re-granting an already held badge
// is a no-op.
func (r *BadgeRepository) Grant(ctx context.Context, userID uuid.UUID, badgeID int) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO user_badges (user_id, badge_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`, userID, badgeID)
	if err != nil {
		return fmt.Errorf("%w: grant badge", ErrInternal)
	}

	return nil
}

func (r *BadgeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]UserBadge, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	badges := make([]UserBadge, 0)
	err := r.db.SelectContext(ctx2, &badges, `
		SELECT ub.user_id, ub.badge_id, b.badge_name, ub.earned_at
		FROM user_badges ub
		JOIN badges b ON b.badge_id = ub.badge_id
		WHERE ub.user_id = $1
		ORDER BY ub.earned_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list user badges", ErrInternal)
	}

	return badges, nil
}

func (r *BadgeRepository) ListAll(ctx context.Context) ([]Badge, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	badges := make([]Badge, 0)
	err := r.db.SelectContext(ctx2, &badges, `
		SELECT badge_id, badge_name FROM badges ORDER BY badge_id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list badges", ErrInternal)
	}

	return badges, nil
}
