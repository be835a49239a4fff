package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	Create(ctx context.Context, email, passwordHash string) error
}

type AdminRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*Admin, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var a Admin
	err := r.db.GetContext(ctx2, &a, `
		SELECT email, password_hash FROM admins WHERE email = $1
	`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: get admin", ErrInternal)
	}

	return &a, nil
}

// Create is idempotent; an existing email is left untouched.
func (r *AdminRepository) Create(ctx context.Context, email, passwordHash string) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO admins (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING
	`, email, passwordHash)
	if err != nil {
		return fmt.Errorf("%w: create admin", ErrInternal)
	}

	return nil
}
