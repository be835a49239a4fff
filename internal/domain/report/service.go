package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Joyanne05/fixit-my/internal/domain/action"
	"github.com/Joyanne05/fixit-my/internal/pkg/imaging"
	"github.com/Joyanne05/fixit-my/internal/pkg/storage"
)

// ActionRecorder feeds the points/badge pipeline and owns the unfollow
// ledger cascade.
type ActionRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, kind action.Kind, reportID *int64) error
	RemoveFollowTrail(ctx context.Context, userID uuid.UUID, reportID int64) error
}

// Service implements the report lifecycle: creation, follows, comments,
// helper assignment, closing, and the community verification quorum.
type Service struct {
	repo    Repository
	actions ActionRecorder
	photos  storage.Storage
	imgproc *imaging.Processor
}

func NewService(repo Repository, actions ActionRecorder, photos storage.Storage, imgproc *imaging.Processor) *Service {
	return &Service{repo: repo, actions: actions, photos: photos, imgproc: imgproc}
}

// Create files a new report. The photo upload, when present, must succeed
// before anything is written. The creator auto-follows and earns
// CREATE_REPORT and FOLLOW_REPORT ledger entries; those side effects are
// best-effort once the report row exists.
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, input CreateInput) (*Report, error) {
	var photoURL *string
	if input.Photo != nil {
		url, err := s.uploadPhoto(ctx, input.Photo)
		if err != nil {
			return nil, err
		}
		photoURL = &url
	}

	rep := &Report{
		Title:       input.Title,
		Category:    input.Category,
		Description: input.Description,
		Location:    input.Location,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Status:      StatusOpen,
		IsAnonymous: input.IsAnonymous,
		PhotoURL:    photoURL,
		CreatedBy:   creatorID,
	}

	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}

	if _, err := s.repo.Follow(ctx, rep.ReportID, creatorID); err != nil {
		log.Error().Err(err).
			Int64("report_id", rep.ReportID).
			Msg("Auto-follow failed")
	}

	s.record(ctx, creatorID, action.KindCreateReport, rep.ReportID)
	s.record(ctx, creatorID, action.KindFollowReport, rep.ReportID)

	return rep, nil
}

func (s *Service) uploadPhoto(ctx context.Context, photo *PhotoUpload) (string, error) {
	if s.photos == nil {
		return "", ErrPhotoUpload
	}

	data := photo.Data
	if s.imgproc != nil {
		resized, err := s.imgproc.Downscale(data, photo.ContentType)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrPhotoUpload, err)
		}
		data = resized
	}

	key := fmt.Sprintf("reports/%s%s", uuid.New(), extensionFor(photo.ContentType))
	if err := s.photos.Save(ctx, key, bytes.NewReader(data), photo.ContentType); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPhotoUpload, err)
	}

	return s.photos.GetURL(key), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// AddComment appends a comment. The first comment on an open report
// acknowledges it; the transition is best-effort and never fails the
// comment itself. userName is the commenter's display name from the
// token, echoed back so the create response matches the list projection.
func (s *Service) AddComment(ctx context.Context, reportID int64, userID uuid.UUID, userName, text string) (*Comment, error) {
	rep, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		ReportID: reportID,
		UserID:   userID,
		UserName: userName,
		Comment:  text,
	}
	if err := s.repo.InsertComment(ctx, comment); err != nil {
		return nil, err
	}

	if rep.Status == StatusOpen {
		if err := s.repo.UpdateStatus(ctx, reportID, StatusAcknowledged); err != nil {
			log.Error().Err(err).
				Int64("report_id", reportID).
				Msg("Status transition to acknowledged failed")
		}
	}

	s.record(ctx, userID, action.KindCommentReport, reportID)

	return comment, nil
}

// ListComments returns a report's comments, oldest first.
func (s *Service) ListComments(ctx context.Context, reportID int64) ([]Comment, error) {
	if _, err := s.repo.GetByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, reportID)
}

// Follow subscribes the user to a report. Following again after an
// unfollow yields a fresh FOLLOW_REPORT ledger row; following while
// already subscribed is a no-op and records nothing.
func (s *Service) Follow(ctx context.Context, reportID int64, userID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, reportID); err != nil {
		return err
	}

	inserted, err := s.repo.Follow(ctx, reportID, userID)
	if err != nil {
		return err
	}

	if inserted {
		s.record(ctx, userID, action.KindFollowReport, reportID)
	}

	return nil
}

// Unfollow removes the subscription and cascades: the FOLLOW_REPORT
// ledger rows for the pair and any helper-assignment record go with it.
func (s *Service) Unfollow(ctx context.Context, reportID int64, userID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, reportID); err != nil {
		return err
	}

	if err := s.repo.Unfollow(ctx, reportID, userID); err != nil {
		return err
	}

	if err := s.actions.RemoveFollowTrail(ctx, userID, reportID); err != nil {
		log.Error().Err(err).
			Int64("report_id", reportID).
			Str("user_id", userID.String()).
			Msg("Unfollow ledger cascade failed")
	}

	return nil
}

// MarkInProgress records a helper claiming the issue and moves the
// report to in_progress.
func (s *Service) MarkInProgress(ctx context.Context, reportID int64, userID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, reportID); err != nil {
		return err
	}

	if err := s.repo.UpsertAssignment(ctx, reportID, userID); err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, reportID, StatusInProgress); err != nil {
		log.Error().Err(err).
			Int64("report_id", reportID).
			Msg("Status transition to in_progress failed")
	}

	s.record(ctx, userID, action.KindMarkInProgress, reportID)

	return nil
}

// Close records who closed the report. The status stays at in_progress:
// only the community quorum moves a report to closed, so a close without
// enough confirmations remains pending verification.
func (s *Service) Close(ctx context.Context, reportID int64, closerID uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, reportID); err != nil {
		return err
	}

	if err := s.repo.SetClosedBy(ctx, reportID, closerID, StatusInProgress); err != nil {
		return err
	}

	s.record(ctx, closerID, action.KindMarkClosed, reportID)

	return nil
}

// Confirm casts a follower's vote that the issue is resolved.
// Preconditions, first failure wins: the user must not have confirmed
// before, and must currently follow the report. The third distinct
// confirmation closes the report.
func (s *Service) Confirm(ctx context.Context, reportID int64, userID uuid.UUID) (*ConfirmResult, error) {
	rep, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	confirmed, err := s.repo.HasConfirmed(ctx, reportID, userID)
	if err != nil {
		return nil, err
	}
	if confirmed {
		return nil, ErrAlreadyConfirmed
	}

	following, err := s.repo.IsFollowing(ctx, reportID, userID)
	if err != nil {
		return nil, err
	}
	if !following {
		return nil, ErrMustFollow
	}

	if err := s.repo.InsertConfirmation(ctx, reportID, userID); err != nil {
		return nil, err
	}

	s.record(ctx, userID, action.KindVerifyClosed, reportID)

	count, err := s.repo.CountConfirmations(ctx, reportID)
	if err != nil {
		return nil, err
	}

	status := rep.Status
	if count >= quorumThreshold {
		status = StatusClosed
		if err := s.repo.UpdateStatus(ctx, reportID, StatusClosed); err != nil {
			log.Error().Err(err).
				Int64("report_id", reportID).
				Msg("Quorum closure failed")
		}
	}

	return &ConfirmResult{Count: count, Status: status}, nil
}

// Get returns the report projection with its follower list. viewerID may
// be uuid.Nil for anonymous viewers.
func (s *Service) Get(ctx context.Context, reportID int64, viewerID uuid.UUID) (*Detail, error) {
	view, err := s.repo.GetView(ctx, reportID, viewerID)
	if err != nil {
		return nil, err
	}

	followers, err := s.repo.Followers(ctx, reportID)
	if err != nil {
		return nil, err
	}

	anonymize(view)

	return &Detail{Report: *view, Followers: followers}, nil
}

// List returns all reports, newest first, with follow aggregates for the
// viewer.
func (s *Service) List(ctx context.Context, viewerID uuid.UUID) ([]View, error) {
	views, err := s.repo.ListViews(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	for i := range views {
		anonymize(&views[i])
	}

	return views, nil
}

// anonymize strips creator identity from anonymous reports
func anonymize(v *View) {
	if !v.IsAnonymous {
		return
	}
	v.CreatorName = anonymousName
	v.CreatorAvatar = ""
	v.CreatedBy = uuid.Nil
}

// record is a best-effort ledger append; failures are logged, never
// surfaced.
func (s *Service) record(ctx context.Context, userID uuid.UUID, kind action.Kind, reportID int64) {
	if s.actions == nil {
		return
	}
	if err := s.actions.Record(ctx, userID, kind, &reportID); err != nil {
		log.Error().Err(err).
			Str("action", string(kind)).
			Int64("report_id", reportID).
			Str("user_id", userID.String()).
			Msg("Action recording failed")
	}
}
