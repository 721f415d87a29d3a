package app

import (
	"context"
	"errors"
	"testing"
	"time"

	idb "household_reminder_bot/internal/infra/database"
)

var taipei = time.FixedZone("CST", 8*3600)

func newReminderFixture(t *testing.T, start time.Time) (*ReminderService, *idb.MemoryReminderRepository, *fakeSink, *fakeClock) {
	t.Helper()
	repo := idb.NewMemoryReminderRepository()
	sink := &fakeSink{}
	clk := newFakeClock(start)
	return NewReminderService(repo, sink, clk, discardLogger()), repo, sink, clk
}

func TestAddShortValidation(t *testing.T) {
	svc, _, _, _ := newReminderFixture(t, time.Date(2025, 9, 10, 12, 0, 0, 0, taipei))
	ctx := context.Background()

	tests := []struct {
		name    string
		content string
		value   int
		unit    OffsetUnit
		wantErr error
	}{
		{"empty content", "  ", 5, UnitMinutes, ErrEmptyContent},
		{"minutes too low", "x", 0, UnitMinutes, ErrOffsetOutOfRange},
		{"minutes too high", "x", 1441, UnitMinutes, ErrOffsetOutOfRange},
		{"hours too high", "x", 25, UnitHours, ErrOffsetOutOfRange},
		{"seconds too low", "x", 9, UnitSeconds, ErrOffsetOutOfRange},
		{"seconds too high", "x", 3601, UnitSeconds, ErrOffsetOutOfRange},
		{"unknown unit", "x", 5, OffsetUnit("days"), ErrOffsetOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.AddShort(ctx, 1, tt.content, tt.value, tt.unit); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddShort() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddShortSchedulesFromNow(t *testing.T) {
	start := time.Date(2025, 9, 10, 12, 0, 0, 0, taipei)
	svc, _, _, _ := newReminderFixture(t, start)

	r, err := svc.AddShort(context.Background(), 1, "倒垃圾", 5, UnitMinutes)
	if err != nil {
		t.Fatalf("AddShort: %v", err)
	}
	if want := start.Add(5 * time.Minute); !r.RemindAt.Equal(want) {
		t.Errorf("RemindAt = %v, want %v", r.RemindAt, want)
	}
}

func TestAddFixedRollsToTomorrow(t *testing.T) {
	start := time.Date(2025, 9, 10, 12, 0, 0, 0, taipei)
	svc, _, _, _ := newReminderFixture(t, start)
	ctx := context.Background()

	// A time still ahead today stays on today.
	r, err := svc.AddFixed(ctx, 1, "開會", 18, 30)
	if err != nil {
		t.Fatalf("AddFixed: %v", err)
	}
	if want := time.Date(2025, 9, 10, 18, 30, 0, 0, taipei); !r.RemindAt.Equal(want) {
		t.Errorf("RemindAt = %v, want today %v", r.RemindAt, want)
	}

	// A time already past rolls to tomorrow.
	r, err = svc.AddFixed(ctx, 1, "吃藥", 8, 0)
	if err != nil {
		t.Fatalf("AddFixed: %v", err)
	}
	if want := time.Date(2025, 9, 11, 8, 0, 0, 0, taipei); !r.RemindAt.Equal(want) {
		t.Errorf("RemindAt = %v, want tomorrow %v", r.RemindAt, want)
	}

	// Exactly now counts as passed.
	r, err = svc.AddFixed(ctx, 1, "現在", 12, 0)
	if err != nil {
		t.Fatalf("AddFixed: %v", err)
	}
	if want := time.Date(2025, 9, 11, 12, 0, 0, 0, taipei); !r.RemindAt.Equal(want) {
		t.Errorf("RemindAt = %v, want tomorrow %v", r.RemindAt, want)
	}

	if _, err := svc.AddFixed(ctx, 1, "x", 24, 0); !errors.Is(err, ErrInvalidTimeOfDay) {
		t.Errorf("AddFixed(24:00) error = %v, want ErrInvalidTimeOfDay", err)
	}
}

func TestTickFiresOnceAndDeletes(t *testing.T) {
	start := time.Date(2025, 9, 10, 12, 0, 0, 0, taipei)
	svc, _, sink, clk := newReminderFixture(t, start)
	ctx := context.Background()

	if _, err := svc.AddShort(ctx, 1, "倒垃圾", 5, UnitMinutes); err != nil {
		t.Fatalf("AddShort: %v", err)
	}

	// Not due yet.
	clk.Advance(4 * time.Minute)
	svc.Tick(ctx, clk.Now())
	if got := len(sink.Sent()); got != 0 {
		t.Fatalf("fired %d messages before due time", got)
	}

	// First tick at/after the target fires.
	clk.Advance(1 * time.Minute)
	svc.Tick(ctx, clk.Now())
	if got := len(sink.Sent()); got != 1 {
		t.Fatalf("fired %d messages, want 1", got)
	}

	// A second tick inside the window must not fire again.
	clk.Advance(1 * time.Minute)
	svc.Tick(ctx, clk.Now())
	if got := len(sink.Sent()); got != 1 {
		t.Errorf("reminder fired twice, got %d messages", got)
	}

	shorts, _, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(shorts) != 0 {
		t.Errorf("fired reminder still listed: %+v", shorts)
	}
}

func TestTickRetriesFailedDelivery(t *testing.T) {
	start := time.Date(2025, 9, 10, 12, 0, 0, 0, taipei)
	svc, _, sink, clk := newReminderFixture(t, start)
	ctx := context.Background()

	if _, err := svc.AddShort(ctx, 1, "倒垃圾", 10, UnitSeconds); err != nil {
		t.Fatalf("AddShort: %v", err)
	}

	sink.sendErr = errors.New("network down")
	clk.Advance(1 * time.Minute)
	svc.Tick(ctx, clk.Now())
	if got := len(sink.Sent()); got != 0 {
		t.Fatalf("delivery should have failed, got %d messages", got)
	}

	// The reminder survives the failed push and fires on the next tick.
	sink.sendErr = nil
	clk.Advance(1 * time.Minute)
	svc.Tick(ctx, clk.Now())
	if got := len(sink.Sent()); got != 1 {
		t.Errorf("retry did not fire, got %d messages", got)
	}
}

func TestTickDropsStaleSilently(t *testing.T) {
	start := time.Date(2025, 9, 10, 12, 0, 0, 0, taipei)
	svc, _, sink, clk := newReminderFixture(t, start)
	ctx := context.Background()

	if _, err := svc.AddShort(ctx, 1, "倒垃圾", 5, UnitMinutes); err != nil {
		t.Fatalf("AddShort: %v", err)
	}

	// 25 hours later the reminder is past staleness and is removed
	// without ever being delivered.
	clk.Advance(25 * time.Hour)
	svc.Tick(ctx, clk.Now())
	if got := len(sink.Sent()); got != 0 {
		t.Errorf("stale reminder was delivered, got %d messages", got)
	}
	shorts, _, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(shorts) != 0 {
		t.Errorf("stale reminder still listed: %+v", shorts)
	}
}

func TestDeleteChecksBothSets(t *testing.T) {
	start := time.Date(2025, 9, 10, 12, 0, 0, 0, taipei)
	svc, _, _, _ := newReminderFixture(t, start)
	ctx := context.Background()

	r, err := svc.AddFixed(ctx, 1, "開會", 18, 30)
	if err != nil {
		t.Fatalf("AddFixed: %v", err)
	}
	if err := svc.Delete(ctx, r.ID); err != nil {
		t.Errorf("Delete(fixed id) = %v", err)
	}
	if err := svc.Delete(ctx, 9999); !errors.Is(err, ErrReminderNotFound) {
		t.Errorf("Delete(unknown) = %v, want ErrReminderNotFound", err)
	}
}
