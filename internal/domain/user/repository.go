package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

type Repository interface {
	Sync(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByIDs(ctx context.Context, userIDs []uuid.UUID) ([]User, error)
	TopByPoints(ctx context.Context, limit int) ([]User, error)
}

// UserRepository provides users table access.
type UserRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Sync creates the row on first sight of an identity; existing rows are
// left untouched so points and profile edits survive re-logins.
func (r *UserRepository) Sync(ctx context.Context, u *User) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO users (user_id, name, avatar, points)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, u.UserID, u.Name, u.Avatar)
	if err != nil {
		return fmt.Errorf("%w: sync user", ErrInternal)
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*User, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u User
	err := r.db.GetContext(ctx2, &u, `
		SELECT user_id, name, avatar, points, created_at FROM users WHERE user_id = $1
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get user", ErrInternal)
	}

	return &u, nil
}

func (r *UserRepository) GetByIDs(ctx context.Context, userIDs []uuid.UUID) ([]User, error) {
	if len(userIDs) == 0 {
		return []User{}, nil
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := sqlx.In(`
		SELECT user_id, name, avatar, points, created_at FROM users WHERE user_id IN (?)
	`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: build query", ErrInternal)
	}

	users := make([]User, 0, len(userIDs))
	if err := r.db.SelectContext(ctx2, &users, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("%w: get users", ErrInternal)
	}

	return users, nil
}

func (r *UserRepository) TopByPoints(ctx context.Context, limit int) ([]User, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	users := make([]User, 0, limit)
	err := r.db.SelectContext(ctx2, &users, `
		SELECT user_id, name, avatar, points, created_at
		FROM users
		ORDER BY points DESC, created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: top by points", ErrInternal)
	}

	return users, nil
}
