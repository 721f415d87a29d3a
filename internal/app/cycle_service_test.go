package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"household_reminder_bot/internal/domain/cycle"
	idb "household_reminder_bot/internal/infra/database"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, taipei)
}

func newCycleFixture(t *testing.T, today time.Time) (*CycleService, *idb.MemoryCycleRepository, *fakeClock) {
	t.Helper()
	repo := idb.NewMemoryCycleRepository()
	clk := newFakeClock(today)
	return NewCycleService(repo, clk, discardLogger()), repo, clk
}

// seedStarts records a closed cycle per start date, oldest first.
func seedStarts(t *testing.T, svc *CycleService, userID int64, starts ...time.Time) {
	t.Helper()
	ctx := context.Background()
	for _, start := range starts {
		if _, err := svc.RecordStart(ctx, userID, start, ""); err != nil {
			t.Fatalf("RecordStart(%v): %v", start, err)
		}
		if _, err := svc.RecordEnd(ctx, userID, start.AddDate(0, 0, 5), ""); err != nil {
			t.Fatalf("RecordEnd(%v): %v", start, err)
		}
	}
}

func TestComputeCyclesFiltersImplausible(t *testing.T) {
	// Newest first, as the repository returns them. The raw deltas are
	// 50, 30, 28 and 10 days; only 28 and 30 are plausible.
	records := []*cycle.Record{
		{StartDate: day(2025, 4, 29)},
		{StartDate: day(2025, 3, 10)},
		{StartDate: day(2025, 2, 8)},
		{StartDate: day(2025, 1, 11)},
		{StartDate: day(2025, 1, 1)},
	}
	got := ComputeCycles(records)
	if len(got) != 2 || got[0] != 30 || got[1] != 28 {
		t.Errorf("ComputeCycles() = %v, want [30 28]", got)
	}
}

func TestPredictNextAveragesPlausibleCycles(t *testing.T) {
	svc, _, _ := newCycleFixture(t, day(2025, 2, 20))
	seedStarts(t, svc, 1, day(2025, 1, 1), day(2025, 1, 29))

	p, err := svc.PredictNext(context.Background(), 1)
	if err != nil {
		t.Fatalf("PredictNext: %v", err)
	}
	if p.AvgCycle != 28 {
		t.Errorf("AvgCycle = %d, want 28", p.AvgCycle)
	}
	if want := day(2025, 2, 26); !p.PredictedDate.Equal(want) {
		t.Errorf("PredictedDate = %v, want %v", p.PredictedDate, want)
	}
	if p.DaysUntil != 6 {
		t.Errorf("DaysUntil = %d, want 6", p.DaysUntil)
	}
	if p.LowConfidence {
		t.Error("LowConfidence = true with two plausible records")
	}
}

func TestPredictNextIntegerAverage(t *testing.T) {
	svc, _, _ := newCycleFixture(t, day(2025, 5, 1))
	// Deltas 28 and 31 average to 29 by integer division.
	seedStarts(t, svc, 1, day(2025, 1, 1), day(2025, 1, 29), day(2025, 3, 1))

	p, err := svc.PredictNext(context.Background(), 1)
	if err != nil {
		t.Fatalf("PredictNext: %v", err)
	}
	if p.AvgCycle != 29 {
		t.Errorf("AvgCycle = %d, want 29", p.AvgCycle)
	}
	if p.MinCycle != 28 || p.MaxCycle != 31 {
		t.Errorf("Min/Max = %d/%d, want 28/31", p.MinCycle, p.MaxCycle)
	}
	if want := day(2025, 3, 30); !p.PredictedDate.Equal(want) {
		t.Errorf("PredictedDate = %v, want %v", p.PredictedDate, want)
	}
}

func TestPredictNextFallsBackToDefaultLength(t *testing.T) {
	svc, _, _ := newCycleFixture(t, day(2025, 1, 10))
	seedStarts(t, svc, 1, day(2025, 1, 1))

	p, err := svc.PredictNext(context.Background(), 1)
	if err != nil {
		t.Fatalf("PredictNext: %v", err)
	}
	if !p.LowConfidence {
		t.Error("LowConfidence = false with a single record")
	}
	if p.AvgCycle != cycle.DefaultCycleLength {
		t.Errorf("AvgCycle = %d, want default %d", p.AvgCycle, cycle.DefaultCycleLength)
	}
	if want := day(2025, 1, 29); !p.PredictedDate.Equal(want) {
		t.Errorf("PredictedDate = %v, want %v", p.PredictedDate, want)
	}
}

func TestPredictNextNoHistory(t *testing.T) {
	svc, _, _ := newCycleFixture(t, day(2025, 1, 10))
	if _, err := svc.PredictNext(context.Background(), 1); !errors.Is(err, ErrNoCycleHistory) {
		t.Errorf("PredictNext() error = %v, want ErrNoCycleHistory", err)
	}
}

func TestRecordStartGuards(t *testing.T) {
	svc, _, _ := newCycleFixture(t, day(2025, 1, 10))
	ctx := context.Background()

	if _, err := svc.RecordStart(ctx, 1, day(2025, 1, 1), ""); err != nil {
		t.Fatalf("RecordStart: %v", err)
	}
	if _, err := svc.RecordStart(ctx, 1, day(2025, 1, 2), ""); !errors.Is(err, idb.ErrCycleAlreadyOpen) {
		t.Errorf("second open start error = %v, want ErrCycleAlreadyOpen", err)
	}
	if _, err := svc.RecordEnd(ctx, 1, day(2025, 1, 6), ""); err != nil {
		t.Fatalf("RecordEnd: %v", err)
	}
	if _, err := svc.RecordStart(ctx, 1, day(2025, 1, 1), ""); !errors.Is(err, idb.ErrDuplicateCycleStart) {
		t.Errorf("duplicate start date error = %v, want ErrDuplicateCycleStart", err)
	}
	if _, err := svc.RecordEnd(ctx, 1, day(2025, 1, 7), ""); !errors.Is(err, idb.ErrNoOpenCycle) {
		t.Errorf("close without open error = %v, want ErrNoOpenCycle", err)
	}
}

func TestCheckReminderKinds(t *testing.T) {
	// With starts on 01/01 and 01/29 the prediction lands on 02/26.
	tests := []struct {
		name  string
		today time.Time
		want  ReminderKind
	}{
		{"far out", day(2025, 2, 10), CycleReminderNone},
		{"inside lead window", day(2025, 2, 24), CycleReminderUpcoming},
		{"the day itself", day(2025, 2, 26), CycleReminderToday},
		{"overdue within grace", day(2025, 3, 2), CycleReminderOverdue},
		{"past grace", day(2025, 3, 10), CycleReminderNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newCycleFixture(t, tt.today)
			seedStarts(t, svc, 1, day(2025, 1, 1), day(2025, 1, 29))
			kind, _, err := svc.CheckReminder(context.Background(), 1)
			if err != nil {
				t.Fatalf("CheckReminder: %v", err)
			}
			if kind != tt.want {
				t.Errorf("CheckReminder() = %q, want %q", kind, tt.want)
			}
		})
	}
}

func TestCheckReminderNoHistoryIsQuiet(t *testing.T) {
	svc, _, _ := newCycleFixture(t, day(2025, 1, 10))
	kind, p, err := svc.CheckReminder(context.Background(), 1)
	if err != nil {
		t.Fatalf("CheckReminder: %v", err)
	}
	if kind != CycleReminderNone || p != nil {
		t.Errorf("CheckReminder() = %q, %v; want quiet", kind, p)
	}
}

func TestUpdateSettingsDrivesPrediction(t *testing.T) {
	svc, _, _ := newCycleFixture(t, day(2025, 1, 10))
	ctx := context.Background()
	seedStarts(t, svc, 1, day(2025, 1, 1))

	if err := svc.UpdateSettings(ctx, 1, 30, 2); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	p, err := svc.PredictNext(ctx, 1)
	if err != nil {
		t.Fatalf("PredictNext: %v", err)
	}
	if p.AvgCycle != 30 {
		t.Errorf("AvgCycle = %d, want configured 30", p.AvgCycle)
	}
	if err := svc.UpdateSettings(ctx, 1, 0, 2); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("UpdateSettings(0) error = %v, want ErrOffsetOutOfRange", err)
	}
}
