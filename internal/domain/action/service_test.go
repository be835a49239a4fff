package action_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Joyanne05/fixit-my/internal/domain/action"
)

type fakeLedger struct {
	nextID  int64
	rows    []ledgerRow
	recErr  error
	removed int
}

type ledgerRow struct {
	id       int64
	userID   uuid.UUID
	kind     action.Kind
	reportID *int64
	points   int
}

func (f *fakeLedger) Record(_ context.Context, userID uuid.UUID, kind action.Kind, reportID *int64, points int) (int64, error) {
	if f.recErr != nil {
		return 0, f.recErr
	}
	f.nextID++
	f.rows = append(f.rows, ledgerRow{id: f.nextID, userID: userID, kind: kind, reportID: reportID, points: points})
	return f.nextID, nil
}

func (f *fakeLedger) RemoveFollowTrail(_ context.Context, userID uuid.UUID, reportID int64) error {
	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.userID == userID && row.kind == action.KindFollowReport &&
			row.reportID != nil && *row.reportID == reportID {
			f.removed++
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return nil
}

func (f *fakeLedger) ListByUser(_ context.Context, userID uuid.UUID) ([]action.Action, error) {
	actions := make([]action.Action, 0)
	for _, row := range f.rows {
		if row.userID == userID {
			actions = append(actions, action.Action{ID: row.id, UserID: row.userID, ActionName: row.kind, ReportID: row.reportID})
		}
	}
	return actions, nil
}

func (f *fakeLedger) GetUserPoints(_ context.Context, userID uuid.UUID) (int, error) {
	return f.sum(userID), nil
}

func (f *fakeLedger) SumPointsByUser(_ context.Context, userID uuid.UUID) (int, error) {
	return f.sum(userID), nil
}

func (f *fakeLedger) sum(userID uuid.UUID) int {
	total := 0
	for _, row := range f.rows {
		if row.userID == userID {
			total += row.points
		}
	}
	return total
}

type fakeEvaluator struct {
	calls int
	err   error
}

func (f *fakeEvaluator) Evaluate(_ context.Context, _ uuid.UUID) error {
	f.calls++
	return f.err
}

func TestRecordWritesPointsAndEvaluatesBadges(t *testing.T) {
	ledger := &fakeLedger{}
	evaluator := &fakeEvaluator{}
	svc := action.NewService(ledger, evaluator, nil)

	userID := uuid.New()
	reportID := int64(7)

	err := svc.Record(context.Background(), userID, action.KindCreateReport, &reportID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ledger.rows) != 1 {
		t.Fatalf("expected 1 ledger row, got %d", len(ledger.rows))
	}
	if ledger.rows[0].points != 10 {
		t.Fatalf("expected 10 points for CREATE_REPORT, got %d", ledger.rows[0].points)
	}
	if evaluator.calls != 1 {
		t.Fatalf("expected 1 badge evaluation, got %d", evaluator.calls)
	}

	points, err := svc.Points(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points != 10 {
		t.Fatalf("expected 10 points, got %d", points)
	}
}

func TestRecordSurvivesBadgeFailure(t *testing.T) {
	ledger := &fakeLedger{}
	evaluator := &fakeEvaluator{err: errors.New("badge catalog down")}
	svc := action.NewService(ledger, evaluator, nil)

	userID := uuid.New()
	reportID := int64(1)

	if err := svc.Record(context.Background(), userID, action.KindFollowReport, &reportID); err != nil {
		t.Fatalf("expected ledger write to survive badge failure, got %v", err)
	}

	if len(ledger.rows) != 1 {
		t.Fatalf("expected 1 ledger row, got %d", len(ledger.rows))
	}
}

func TestRecordFailsWhenLedgerFails(t *testing.T) {
	ledger := &fakeLedger{recErr: errors.New("db down")}
	evaluator := &fakeEvaluator{}
	svc := action.NewService(ledger, evaluator, nil)

	userID := uuid.New()
	reportID := int64(1)

	if err := svc.Record(context.Background(), userID, action.KindCommentReport, &reportID); err == nil {
		t.Fatal("expected error when ledger write fails")
	}
	if evaluator.calls != 0 {
		t.Fatal("expected no badge evaluation after failed ledger write")
	}
}

func TestRemoveFollowTrailOnlyTouchesFollows(t *testing.T) {
	ledger := &fakeLedger{}
	svc := action.NewService(ledger, nil, nil)

	userID := uuid.New()
	reportID := int64(3)
	otherReport := int64(4)

	requireNoError(t, svc.Record(context.Background(), userID, action.KindCreateReport, &reportID))
	requireNoError(t, svc.Record(context.Background(), userID, action.KindFollowReport, &reportID))
	requireNoError(t, svc.Record(context.Background(), userID, action.KindFollowReport, &otherReport))

	requireNoError(t, svc.RemoveFollowTrail(context.Background(), userID, reportID))

	if ledger.removed != 1 {
		t.Fatalf("expected 1 removed row, got %d", ledger.removed)
	}

	// CREATE_REPORT 10 + remaining FOLLOW_REPORT 2
	points, err := svc.Points(context.Background(), userID)
	requireNoError(t, err)
	if points != 12 {
		t.Fatalf("expected 12 points, got %d", points)
	}
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
