package report

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
	Create(ctx context.Context, rep *Report) error
	GetByID(ctx context.Context, reportID int64) (*Report, error)
	GetView(ctx context.Context, reportID int64, viewerID uuid.UUID) (*View, error)
	ListViews(ctx context.Context, viewerID uuid.UUID) ([]View, error)
	UpdateStatus(ctx context.Context, reportID int64, status Status) error
	SetClosedBy(ctx context.Context, reportID int64, closerID uuid.UUID, status Status) error

	Follow(ctx context.Context, reportID int64, userID uuid.UUID) (bool, error)
	Unfollow(ctx context.Context, reportID int64, userID uuid.UUID) error
	IsFollowing(ctx context.Context, reportID int64, userID uuid.UUID) (bool, error)
	Followers(ctx context.Context, reportID int64) ([]FollowerInfo, error)

	InsertComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, reportID int64) ([]Comment, error)

	HasConfirmed(ctx context.Context, reportID int64, userID uuid.UUID) (bool, error)
	InsertConfirmation(ctx context.Context, reportID int64, userID uuid.UUID) error
	CountConfirmations(ctx context.Context, reportID int64) (int, error)

	UpsertAssignment(ctx context.Context, reportID int64, userID uuid.UUID) error
}

// ReportRepository provides report, follower, comment, confirmation and
// assignment persistence.
type ReportRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *Report) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx2, `
		INSERT INTO reports (title, category, description, location, latitude, longitude, status, is_anonymous, photo_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING report_id, created_at, updated_at
	`, rep.Title, rep.Category, rep.Description, rep.Location, rep.Latitude, rep.Longitude, rep.Status, rep.IsAnonymous, rep.PhotoURL, rep.CreatedBy).
		Scan(&rep.ReportID, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert report", ErrInternal)
	}

	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, reportID int64) (*Report, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rep Report
	err := r.db.GetContext(ctx2, &rep, `
		SELECT report_id, title, category, description, location, latitude, longitude,
		       status, is_anonymous, photo_url, created_by, closed_by, created_at, updated_at
		FROM reports
		WHERE report_id = $1
	`, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get report", ErrInternal)
	}

	return &rep, nil
}

const viewColumns = `
	r.report_id, r.title, r.category, r.description, r.location, r.latitude, r.longitude,
	r.status, r.is_anonymous, r.photo_url, r.created_by, r.closed_by, r.created_at, r.updated_at,
	u.name AS creator_name,
	u.avatar AS creator_avatar,
	(SELECT COUNT(*) FROM report_followers f WHERE f.report_id = r.report_id) AS followers_count,
	EXISTS (
		SELECT 1 FROM report_followers f
		WHERE f.report_id = r.report_id AND f.user_id = $1
	) AS is_following`

func (r *ReportRepository) GetView(ctx context.Context, reportID int64, viewerID uuid.UUID) (*View, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var view View
	err := r.db.GetContext(ctx2, &view, `
		SELECT `+viewColumns+`
		FROM reports r
		JOIN users u ON u.user_id = r.created_by
		WHERE r.report_id = $2
	`, viewerID, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get report view", ErrInternal)
	}

	return &view, nil
}

func (r *ReportRepository) ListViews(ctx context.Context, viewerID uuid.UUID) ([]View, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	views := make([]View, 0)
	err := r.db.SelectContext(ctx2, &views, `
		SELECT `+viewColumns+`
		FROM reports r
		JOIN users u ON u.user_id = r.created_by
		ORDER BY r.created_at DESC
	`, viewerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list reports", ErrInternal)
	}

	return views, nil
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, reportID int64, status Status) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		UPDATE reports SET status = $2, updated_at = now() WHERE report_id = $1
	`, reportID, status)
	if err != nil {
		return fmt.Errorf("%w: update status", ErrInternal)
	}

	return nil
}

func (r *ReportRepository) SetClosedBy(ctx context.Context, reportID int64, closerID uuid.UUID, status Status) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		UPDATE reports SET closed_by = $2, status = $3, updated_at = now() WHERE report_id = $1
	`, reportID, closerID, status)
	if err != nil {
		return fmt.Errorf("%w: set closed_by", ErrInternal)
	}

	return nil
}

// Follow inserts a follow row; returns false when the pair already exists.
func (r *ReportRepository) Follow(ctx context.Context, reportID int64, userID uuid.UUID) (bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `
		INSERT INTO report_followers (report_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (report_id, user_id) DO NOTHING
	`, reportID, userID)
	if err != nil {
		return false, fmt.Errorf("%w: insert follow", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: rows affected", ErrInternal)
	}

	return rows > 0, nil
}

// Unfollow removes the follow row and any helper assignment for the pair.
func (r *ReportRepository) Unfollow(ctx context.Context, reportID int64, userID uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx2, `
		DELETE FROM report_followers WHERE report_id = $1 AND user_id = $2
	`, reportID, userID)
	if err != nil {
		return fmt.Errorf("%w: delete follow", ErrInternal)
	}

	_, err = tx.ExecContext(ctx2, `
		DELETE FROM report_assignments WHERE report_id = $1 AND user_id = $2
	`, reportID, userID)
	if err != nil {
		return fmt.Errorf("%w: delete assignment", ErrInternal)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return nil
}

func (r *ReportRepository) IsFollowing(ctx context.Context, reportID int64, userID uuid.UUID) (bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := r.db.GetContext(ctx2, &count, `
		SELECT COUNT(*) FROM report_followers WHERE report_id = $1 AND user_id = $2
	`, reportID, userID)
	if err != nil {
		return false, fmt.Errorf("%w: check follow", ErrInternal)
	}

	return count > 0, nil
}

func (r *ReportRepository) Followers(ctx context.Context, reportID int64) ([]FollowerInfo, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	followers := make([]FollowerInfo, 0)
	err := r.db.SelectContext(ctx2, &followers, `
		SELECT u.user_id, u.name, u.avatar
		FROM report_followers f
		JOIN users u ON u.user_id = f.user_id
		WHERE f.report_id = $1
		ORDER BY f.created_at
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("%w: list followers", ErrInternal)
	}

	return followers, nil
}

func (r *ReportRepository) InsertComment(ctx context.Context, comment *Comment) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowContext(ctx2, `
		INSERT INTO report_comments (report_id, user_id, comment)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, comment.ReportID, comment.UserID, comment.Comment).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert comment", ErrInternal)
	}

	return nil
}

func (r *ReportRepository) ListComments(ctx context.Context, reportID int64) ([]Comment, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	comments := make([]Comment, 0)
	err := r.db.SelectContext(ctx2, &comments, `
		SELECT c.id, c.report_id, c.user_id, c.comment, u.name AS user_name, c.created_at
		FROM report_comments c
		JOIN users u ON u.user_id = c.user_id
		WHERE c.report_id = $1
		ORDER BY c.created_at
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("%w: list comments", ErrInternal)
	}

	return comments, nil
}

func (r *ReportRepository) HasConfirmed(ctx context.Context, reportID int64, userID uuid.UUID) (bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := r.db.GetContext(ctx2, &count, `
		SELECT COUNT(*) FROM report_confirmations WHERE report_id = $1 AND user_id = $2
	`, reportID, userID)
	if err != nil {
		return false, fmt.Errorf("%w: check confirmation", ErrInternal)
	}

	return count > 0, nil
}

func (r *ReportRepository) InsertConfirmation(ctx context.Context, reportID int64, userID uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO report_confirmations (report_id, user_id) VALUES ($1, $2)
	`, reportID, userID)
	if err != nil {
		return fmt.Errorf("%w: insert confirmation", ErrInternal)
	}

	return nil
}

// CountConfirmations recounts from the confirmation table on every call.
// The count is deliberately not cached.
func (r *ReportRepository) CountConfirmations(ctx context.Context, reportID int64) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := r.db.GetContext(ctx2, &count, `
		SELECT COUNT(*) FROM report_confirmations WHERE report_id = $1
	`, reportID)
	if err != nil {
		return 0, fmt.Errorf("%w: count confirmations", ErrInternal)
	}

	return count, nil
}

func (r *ReportRepository) UpsertAssignment(ctx context.Context, reportID int64, userID uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO report_assignments (report_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (report_id, user_id) DO NOTHING
	`, reportID, userID)
	if err != nil {
		return fmt.Errorf("%w: insert assignment", ErrInternal)
	}

	return nil
}
