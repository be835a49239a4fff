package action

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

type Repository interface {
	Record(ctx context.Context, userID uuid.UUID, kind Kind, reportID *int64, points int) (int64, error)
	RemoveFollowTrail(ctx context.Context, userID uuid.UUID, reportID int64) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Action, error)
	GetUserPoints(ctx context.Context, userID uuid.UUID) (int, error)
	SumPointsByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// LedgerRepository provides the append-only action ledger and the
// denormalized per-user points aggregate.
type LedgerRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Record appends a ledger row, its point entry, and bumps the user's
// aggregate in one transaction. Returns the new ledger row id.
func (r *LedgerRepository) Record(ctx context.Context, userID uuid.UUID, kind Kind, reportID *int64, points int) (int64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	var actionID int64
	err = tx.QueryRowContext(ctx2, `
		INSERT INTO user_actions (user_id, action_name, report_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, userID, kind, reportID).Scan(&actionID)
	if err != nil {
		return 0, fmt.Errorf("%w: insert action", ErrInternal)
	}

	_, err = tx.ExecContext(ctx2, `
		INSERT INTO user_points (user_id, action_id, points)
		VALUES ($1, $2, $3)
	`, userID, actionID, points)
	if err != nil {
		return 0, fmt.Errorf("%w: insert point entry", ErrInternal)
	}

	_, err = tx.ExecContext(ctx2, `
		UPDATE users SET points = points + $2 WHERE user_id = $1
	`, userID, points)
	if err != nil {
		return 0, fmt.Errorf("%w: update user points", ErrInternal)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return actionID, nil
}

// RemoveFollowTrail deletes the FOLLOW_REPORT ledger rows for the
// (user, report) pair, their point entries, and subtracts the removed
// points from the user's aggregate. Part of the unfollow cascade.
func (r *LedgerRepository) RemoveFollowTrail(ctx context.Context, userID uuid.UUID, reportID int64) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	var removed sql.NullInt64
	err = tx.QueryRowContext(ctx2, `
		WITH doomed AS (
			SELECT id FROM user_actions
			WHERE user_id = $1 AND report_id = $2 AND action_name = $3
		),
		points_gone AS (
			DELETE FROM user_points
			WHERE action_id IN (SELECT id FROM doomed)
			RETURNING points
		)
		SELECT SUM(points) FROM points_gone
	`, userID, reportID, KindFollowReport).Scan(&removed)
	if err != nil {
		return fmt.Errorf("%w: delete point entries", ErrInternal)
	}

	_, err = tx.ExecContext(ctx2, `
		DELETE FROM user_actions
		WHERE user_id = $1 AND report_id = $2 AND action_name = $3
	`, userID, reportID, KindFollowReport)
	if err != nil {
		return fmt.Errorf("%w: delete actions", ErrInternal)
	}

	if removed.Valid && removed.Int64 != 0 {
		_, err = tx.ExecContext(ctx2, `
			UPDATE users SET points = points - $2 WHERE user_id = $1
		`, userID, removed.Int64)
		if err != nil {
			return fmt.Errorf("%w: update user points", ErrInternal)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return nil
}

func (r *LedgerRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Action, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	actions := make([]Action, 0)
	err := r.db.SelectContext(ctx2, &actions, `
		SELECT id, user_id, action_name, report_id, created_at
		FROM user_actions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list actions", ErrInternal)
	}

	return actions, nil
}

func (r *LedgerRepository) GetUserPoints(ctx context.Context, userID uuid.UUID) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var points int
	err := r.db.GetContext(ctx2, &points, `SELECT points FROM users WHERE user_id = $1`, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: get user points", ErrInternal)
	}

	return points, nil
}

// SumPointsByUser recomputes the aggregate from point entries. Used to
// reconcile the denormalized users.points column.
func (r *LedgerRepository) SumPointsByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var sum int
	err := r.db.GetContext(ctx2, &sum, `
		SELECT COALESCE(SUM(points), 0) FROM user_points WHERE user_id = $1
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: sum point entries", ErrInternal)
	}

	return sum, nil
}
