package report_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Joyanne05/fixit-my/internal/domain/action"
	"github.com/Joyanne05/fixit-my/internal/domain/report"
)

/* =========================
   Fakes
   ========================= */

type fakeRepo struct {
	nextID        int64
	reports       map[int64]*report.Report
	followers     map[int64]map[uuid.UUID]bool
	comments      map[int64][]report.Comment
	confirmations map[int64]map[uuid.UUID]bool
	assignments   map[int64]map[uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reports:       make(map[int64]*report.Report),
		followers:     make(map[int64]map[uuid.UUID]bool),
		comments:      make(map[int64][]report.Comment),
		confirmations: make(map[int64]map[uuid.UUID]bool),
		assignments:   make(map[int64]map[uuid.UUID]bool),
	}
}

func (f *fakeRepo) Create(_ context.Context, rep *report.Report) error {
	f.nextID++
	rep.ReportID = f.nextID
	clone := *rep
	f.reports[rep.ReportID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, reportID int64) (*report.Report, error) {
	rep, ok := f.reports[reportID]
	if !ok {
		return nil, report.ErrNotFound
	}
	clone := *rep
	return &clone, nil
}

func (f *fakeRepo) GetView(ctx context.Context, reportID int64, viewerID uuid.UUID) (*report.View, error) {
	rep, err := f.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return &report.View{
		Report:         *rep,
		CreatorName:    "Creator",
		CreatorAvatar:  "avatar.png",
		FollowersCount: len(f.followers[reportID]),
		IsFollowing:    f.followers[reportID][viewerID],
	}, nil
}

func (f *fakeRepo) ListViews(ctx context.Context, viewerID uuid.UUID) ([]report.View, error) {
	views := make([]report.View, 0, len(f.reports))
	for id := int64(1); id <= f.nextID; id++ {
		if _, ok := f.reports[id]; !ok {
			continue
		}
		v, err := f.GetView(ctx, id, viewerID)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, reportID int64, status report.Status) error {
	rep, ok := f.reports[reportID]
	if !ok {
		return report.ErrNotFound
	}
	rep.Status = status
	return nil
}

func (f *fakeRepo) SetClosedBy(_ context.Context, reportID int64, closerID uuid.UUID, status report.Status) error {
	rep, ok := f.reports[reportID]
	if !ok {
		return report.ErrNotFound
	}
	rep.ClosedBy = &closerID
	rep.Status = status
	return nil
}

func (f *fakeRepo) Follow(_ context.Context, reportID int64, userID uuid.UUID) (bool, error) {
	if f.followers[reportID] == nil {
		f.followers[reportID] = make(map[uuid.UUID]bool)
	}
	if f.followers[reportID][userID] {
		return false, nil
	}
	f.followers[reportID][userID] = true
	return true, nil
}

func (f *fakeRepo) Unfollow(_ context.Context, reportID int64, userID uuid.UUID) error {
	delete(f.followers[reportID], userID)
	delete(f.assignments[reportID], userID)
	return nil
}

func (f *fakeRepo) IsFollowing(_ context.Context, reportID int64, userID uuid.UUID) (bool, error) {
	return f.followers[reportID][userID], nil
}

func (f *fakeRepo) Followers(_ context.Context, reportID int64) ([]report.FollowerInfo, error) {
	infos := make([]report.FollowerInfo, 0, len(f.followers[reportID]))
	for id := range f.followers[reportID] {
		infos = append(infos, report.FollowerInfo{UserID: id})
	}
	return infos, nil
}

func (f *fakeRepo) InsertComment(_ context.Context, comment *report.Comment) error {
	comment.ID = int64(len(f.comments[comment.ReportID]) + 1)
	f.comments[comment.ReportID] = append(f.comments[comment.ReportID], *comment)
	return nil
}

func (f *fakeRepo) ListComments(_ context.Context, reportID int64) ([]report.Comment, error) {
	return f.comments[reportID], nil
}

func (f *fakeRepo) HasConfirmed(_ context.Context, reportID int64, userID uuid.UUID) (bool, error) {
	return f.confirmations[reportID][userID], nil
}

func (f *fakeRepo) InsertConfirmation(_ context.Context, reportID int64, userID uuid.UUID) error {
	if f.confirmations[reportID] == nil {
		f.confirmations[reportID] = make(map[uuid.UUID]bool)
	}
	f.confirmations[reportID][userID] = true
	return nil
}

func (f *fakeRepo) CountConfirmations(_ context.Context, reportID int64) (int, error) {
	return len(f.confirmations[reportID]), nil
}

func (f *fakeRepo) UpsertAssignment(_ context.Context, reportID int64, userID uuid.UUID) error {
	if f.assignments[reportID] == nil {
		f.assignments[reportID] = make(map[uuid.UUID]bool)
	}
	f.assignments[reportID][userID] = true
	return nil
}

type ledgerEntry struct {
	userID   uuid.UUID
	kind     action.Kind
	reportID int64
}

type fakeRecorder struct {
	entries []ledgerEntry
}

func (f *fakeRecorder) Record(_ context.Context, userID uuid.UUID, kind action.Kind, reportID *int64) error {
	var id int64
	if reportID != nil {
		id = *reportID
	}
	f.entries = append(f.entries, ledgerEntry{userID: userID, kind: kind, reportID: id})
	return nil
}

func (f *fakeRecorder) RemoveFollowTrail(_ context.Context, userID uuid.UUID, reportID int64) error {
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.userID == userID && e.reportID == reportID && e.kind == action.KindFollowReport {
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return nil
}

func (f *fakeRecorder) count(userID uuid.UUID, kind action.Kind, reportID int64) int {
	n := 0
	for _, e := range f.entries {
		if e.userID == userID && e.kind == kind && e.reportID == reportID {
			n++
		}
	}
	return n
}

func (f *fakeRecorder) points(userID uuid.UUID) int {
	total := 0
	for _, e := range f.entries {
		if e.userID == userID {
			total += action.PointsFor(e.kind)
		}
	}
	return total
}

func newService() (*report.Service, *fakeRepo, *fakeRecorder) {
	repo := newFakeRepo()
	recorder := &fakeRecorder{}
	return report.NewService(repo, recorder, nil, nil), repo, recorder
}

func createReport(t *testing.T, svc *report.Service, creator uuid.UUID) *report.Report {
	t.Helper()
	rep, err := svc.Create(context.Background(), creator, report.CreateInput{
		Title:       "Broken streetlight",
		Category:    "electricity",
		Description: "The light at the corner has been out for a week",
		Location:    "5th and Main",
	})
	requireNoError(t, err)
	return rep
}

/* =========================
   Tests
   ========================= */

func TestCreateAutoFollowsAndRecords(t *testing.T) {
	svc, repo, recorder := newService()
	creator := uuid.New()

	rep := createReport(t, svc, creator)

	if rep.Status != report.StatusOpen {
		t.Fatalf("expected status open, got %s", rep.Status)
	}
	if !repo.followers[rep.ReportID][creator] {
		t.Fatal("expected creator to auto-follow")
	}
	if got := recorder.count(creator, action.KindCreateReport, rep.ReportID); got != 1 {
		t.Fatalf("expected 1 CREATE_REPORT entry, got %d", got)
	}
	if got := recorder.count(creator, action.KindFollowReport, rep.ReportID); got != 1 {
		t.Fatalf("expected 1 FOLLOW_REPORT entry, got %d", got)
	}
}

func TestFirstCommentAcknowledges(t *testing.T) {
	svc, repo, _ := newService()
	creator, commenter := uuid.New(), uuid.New()

	rep := createReport(t, svc, creator)

	comment, err := svc.AddComment(context.Background(), rep.ReportID, commenter, "Bob", "I saw this too")
	requireNoError(t, err)

	if comment.UserName != "Bob" {
		t.Fatalf("expected commenter name echoed back, got %q", comment.UserName)
	}

	if got := repo.reports[rep.ReportID].Status; got != report.StatusAcknowledged {
		t.Fatalf("expected acknowledged after first comment, got %s", got)
	}

	_, err = svc.AddComment(context.Background(), rep.ReportID, commenter, "Bob", "still broken")
	requireNoError(t, err)

	if got := repo.reports[rep.ReportID].Status; got != report.StatusAcknowledged {
		t.Fatalf("expected status to stay acknowledged, got %s", got)
	}
}

func TestCommentDoesNotRegressStatus(t *testing.T) {
	svc, repo, _ := newService()
	creator, helper := uuid.New(), uuid.New()

	rep := createReport(t, svc, creator)

	requireNoError(t, svc.MarkInProgress(context.Background(), rep.ReportID, helper))

	_, err := svc.AddComment(context.Background(), rep.ReportID, helper, "Helper", "working on it")
	requireNoError(t, err)

	if got := repo.reports[rep.ReportID].Status; got != report.StatusInProgress {
		t.Fatalf("expected in_progress, got %s", got)
	}
}

func TestFollowIsIdempotent(t *testing.T) {
	svc, _, recorder := newService()
	creator, follower := uuid.New(), uuid.New()

	rep := createReport(t, svc, creator)

	requireNoError(t, svc.Follow(context.Background(), rep.ReportID, follower))
	requireNoError(t, svc.Follow(context.Background(), rep.ReportID, follower))

	if got := recorder.count(follower, action.KindFollowReport, rep.ReportID); got != 1 {
		t.Fatalf("expected 1 FOLLOW_REPORT entry after double follow, got %d", got)
	}
}

func TestUnfollowCascadeAndRefollow(t *testing.T) {
	svc, repo, recorder := newService()
	creator, follower := uuid.New(), uuid.New()

	rep := createReport(t, svc, creator)

	requireNoError(t, svc.Follow(context.Background(), rep.ReportID, follower))
	if recorder.points(follower) != action.PointsFor(action.KindFollowReport) {
		t.Fatalf("expected follow points, got %d", recorder.points(follower))
	}

	requireNoError(t, svc.Unfollow(context.Background(), rep.ReportID, follower))

	if repo.followers[rep.ReportID][follower] {
		t.Fatal("expected follower removed")
	}
	if got := recorder.count(follower, action.KindFollowReport, rep.ReportID); got != 0 {
		t.Fatalf("expected FOLLOW_REPORT trail removed, got %d entries", got)
	}
	if recorder.points(follower) != 0 {
		t.Fatalf("expected 0 points after unfollow, got %d", recorder.points(follower))
	}

	// A fresh follow earns again.
	requireNoError(t, svc.Follow(context.Background(), rep.ReportID, follower))
	if got := recorder.count(follower, action.KindFollowReport, rep.ReportID); got != 1 {
		t.Fatalf("expected 1 FOLLOW_REPORT entry after re-follow, got %d", got)
	}
}

func TestConfirmRequiresFollow(t *testing.T) {
	svc, _, _ := newService()
	creator, outsider := uuid.New(), uuid.New()

	rep := createReport(t, svc, creator)

	_, err := svc.Confirm(context.Background(), rep.ReportID, outsider)
	if !errors.Is(err, report.ErrMustFollow) {
		t.Fatalf("expected ErrMustFollow, got %v", err)
	}
}

func TestConfirmRejectsDuplicate(t *testing.T) {
	svc, _, recorder := newService()
	creator := uuid.New()

	rep := createReport(t, svc, creator)

	_, err := svc.Confirm(context.Background(), rep.ReportID, creator)
	requireNoError(t, err)

	_, err = svc.Confirm(context.Background(), rep.ReportID, creator)
	if !errors.Is(err, report.ErrAlreadyConfirmed) {
		t.Fatalf("expected ErrAlreadyConfirmed, got %v", err)
	}

	if got := recorder.count(creator, action.KindVerifyClosed, rep.ReportID); got != 1 {
		t.Fatalf("expected 1 VERIFY_CLOSED entry, got %d", got)
	}
}

func TestQuorumClosesReport(t *testing.T) {
	svc, repo, _ := newService()
	creator := uuid.New()
	voters := []uuid.UUID{creator, uuid.New(), uuid.New()}

	rep := createReport(t, svc, creator)

	for _, v := range voters[1:] {
		requireNoError(t, svc.Follow(context.Background(), rep.ReportID, v))
	}

	for i, v := range voters {
		result, err := svc.Confirm(context.Background(), rep.ReportID, v)
		requireNoError(t, err)

		if result.Count != i+1 {
			t.Fatalf("expected count %d, got %d", i+1, result.Count)
		}

		if i < 2 && result.Status == report.StatusClosed {
			t.Fatalf("closed after %d confirmations", i+1)
		}
		if i == 2 && result.Status != report.StatusClosed {
			t.Fatalf("expected closed after third confirmation, got %s", result.Status)
		}
	}

	if got := repo.reports[rep.ReportID].Status; got != report.StatusClosed {
		t.Fatalf("expected persisted status closed, got %s", got)
	}
}

func TestCloseLeavesStatusPendingVerification(t *testing.T) {
	svc, repo, _ := newService()
	creator, helper := uuid.New(), uuid.New()

	rep := createReport(t, svc, creator)

	requireNoError(t, svc.MarkInProgress(context.Background(), rep.ReportID, helper))
	requireNoError(t, svc.Close(context.Background(), rep.ReportID, helper))

	got := repo.reports[rep.ReportID]
	if got.Status != report.StatusInProgress {
		t.Fatalf("expected in_progress until quorum, got %s", got.Status)
	}
	if got.ClosedBy == nil || *got.ClosedBy != helper {
		t.Fatal("expected closed_by recorded")
	}
}

func TestAnonymousReportHidesCreator(t *testing.T) {
	svc, _, _ := newService()
	creator := uuid.New()

	rep, err := svc.Create(context.Background(), creator, report.CreateInput{
		Title:       "Overflowing bin",
		Category:    "sanitation",
		Description: "Bin on the square has not been emptied",
		Location:    "Town square",
		IsAnonymous: true,
	})
	requireNoError(t, err)

	detail, err := svc.Get(context.Background(), rep.ReportID, uuid.Nil)
	requireNoError(t, err)

	if detail.Report.CreatorName != "Anonymous" {
		t.Fatalf("expected Anonymous, got %s", detail.Report.CreatorName)
	}
	if detail.Report.CreatorAvatar != "" {
		t.Fatal("expected creator avatar blanked")
	}
	if detail.Report.CreatedBy != uuid.Nil {
		t.Fatal("expected created_by blanked")
	}

	views, err := svc.List(context.Background(), uuid.Nil)
	requireNoError(t, err)
	if views[0].CreatorName != "Anonymous" {
		t.Fatalf("expected Anonymous in list, got %s", views[0].CreatorName)
	}
}

func TestFullLifecycle(t *testing.T) {
	svc, repo, recorder := newService()
	userA, userB, userC := uuid.New(), uuid.New(), uuid.New()

	rep := createReport(t, svc, userA)

	_, err := svc.AddComment(context.Background(), rep.ReportID, userB, "B", "confirmed, it is dark there")
	requireNoError(t, err)
	if repo.reports[rep.ReportID].Status != report.StatusAcknowledged {
		t.Fatal("expected acknowledged after first comment")
	}

	requireNoError(t, svc.Follow(context.Background(), rep.ReportID, userB))
	requireNoError(t, svc.Follow(context.Background(), rep.ReportID, userC))

	requireNoError(t, svc.MarkInProgress(context.Background(), rep.ReportID, userC))
	requireNoError(t, svc.Close(context.Background(), rep.ReportID, userC))

	for _, v := range []uuid.UUID{userA, userB, userC} {
		_, err := svc.Confirm(context.Background(), rep.ReportID, v)
		requireNoError(t, err)
	}

	if repo.reports[rep.ReportID].Status != report.StatusClosed {
		t.Fatal("expected closed after quorum")
	}

	// CREATE 10 + FOLLOW 2 + VERIFY 5
	if got := recorder.points(userA); got != 17 {
		t.Fatalf("expected 17 points for reporter, got %d", got)
	}
	// FOLLOW 2 + COMMENT 2 + VERIFY 5
	if got := recorder.points(userB); got != 9 {
		t.Fatalf("expected 9 points for commenter, got %d", got)
	}
	// FOLLOW 2 + MARK_IN_PROGRESS 5 + MARK_CLOSED 5 + VERIFY 5
	if got := recorder.points(userC); got != 17 {
		t.Fatalf("expected 17 points for helper, got %d", got)
	}
}

func TestOperationsOnMissingReport(t *testing.T) {
	svc, _, _ := newService()
	userID := uuid.New()

	if err := svc.Follow(context.Background(), 42, userID); !errors.Is(err, report.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.AddComment(context.Background(), 42, userID, "Nobody", "hello"); !errors.Is(err, report.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Confirm(context.Background(), 42, userID); !errors.Is(err, report.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

/* =========================
   Helpers
   ========================= */

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
