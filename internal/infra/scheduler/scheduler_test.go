package scheduler

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"household_reminder_bot/internal/app"
	idb "household_reminder_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

var taipei = time.FixedZone("CST", 8*3600)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fakeSink struct {
	mu      sync.Mutex
	sent    []string
	sendErr error
}

func (s *fakeSink) Send(ctx context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, text)
	return nil
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *fakeSink) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendErr = err
}

func newTestScheduler(t *testing.T, start time.Time) (*Scheduler, *fakeSink, *fakeClock) {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	logger := logrus.NewEntry(l)

	clk := &fakeClock{now: start}
	sink := &fakeSink{}

	reminders := app.NewReminderService(idb.NewMemoryReminderRepository(), sink, clk, logger)
	bills := app.NewBillService(idb.NewMemoryBillRepository(), clk, logger)
	cycles := app.NewCycleService(idb.NewMemoryCycleRepository(), clk, logger)
	digests := app.NewDigestService(idb.NewMemoryTodoStore(), sink, clk, logger)

	s := New(
		reminders, bills, cycles, digests,
		sink, idb.NewMemoryEventRepository(), clk, taipei,
		Times{Morning: "09:00", Evening: "18:00", BillNotify: "15:15", MonthlyRoll: "09:00"},
		1, logger,
	)
	return s, sink, clk
}

func TestTickFiresDigestOncePerDay(t *testing.T) {
	s, sink, clk := newTestScheduler(t, time.Date(2025, 9, 10, 8, 59, 0, 0, taipei))

	// Before the configured time: quiet.
	s.tick()
	if got := sink.count(); got != 0 {
		t.Fatalf("fired %d messages before 09:00", got)
	}

	// First tick at the target fires the morning digest.
	clk.Set(time.Date(2025, 9, 10, 9, 0, 0, 0, taipei))
	s.tick()
	if got := sink.count(); got != 1 {
		t.Fatalf("fired %d messages at 09:00, want 1", got)
	}

	// Later ticks the same day stay quiet thanks to the stamp.
	clk.Set(time.Date(2025, 9, 10, 9, 1, 0, 0, taipei))
	s.tick()
	clk.Set(time.Date(2025, 9, 10, 12, 30, 0, 0, taipei))
	s.tick()
	if got := sink.count(); got != 1 {
		t.Errorf("digest fired again the same day, %d messages", got)
	}

	// The next day it fires once more.
	clk.Set(time.Date(2025, 9, 11, 9, 0, 0, 0, taipei))
	s.tick()
	if got := sink.count(); got != 2 {
		t.Errorf("digest did not fire on the next day, %d messages", got)
	}
}

func TestTickCatchesUpAfterMissedTarget(t *testing.T) {
	// If the process was down at 09:00, the first tick afterwards still
	// delivers the digest.
	s, sink, _ := newTestScheduler(t, time.Date(2025, 9, 10, 11, 47, 0, 0, taipei))
	s.tick()
	if got := sink.count(); got != 1 {
		t.Errorf("missed target was not caught up, %d messages", got)
	}
}

func TestTickRetriesFailedRecurringCheck(t *testing.T) {
	s, sink, clk := newTestScheduler(t, time.Date(2025, 9, 10, 9, 0, 0, 0, taipei))

	sink.setErr(errors.New("network down"))
	s.tick()
	if got := sink.count(); got != 0 {
		t.Fatalf("delivery should have failed, %d messages", got)
	}

	// The stamp was not written, so the next tick retries and succeeds.
	sink.setErr(nil)
	clk.Set(time.Date(2025, 9, 10, 9, 1, 0, 0, taipei))
	s.tick()
	if got := sink.count(); got != 1 {
		t.Errorf("failed check was not retried, %d messages", got)
	}
}

func TestSetMorningTimeRefiresSameDay(t *testing.T) {
	s, sink, clk := newTestScheduler(t, time.Date(2025, 9, 10, 9, 0, 0, 0, taipei))
	ctx := context.Background()

	s.tick()
	if got := sink.count(); got != 1 {
		t.Fatalf("morning digest did not fire, %d messages", got)
	}

	// Moving the time clears the stamp, so the new slot fires today too.
	s.SetMorningTime(ctx, "14:00")
	clk.Set(time.Date(2025, 9, 10, 14, 0, 0, 0, taipei))
	s.tick()
	if got := sink.count(); got != 2 {
		t.Errorf("moved digest time did not fire, %d messages", got)
	}

	morning, evening := s.DigestTimes()
	if morning != "14:00" || evening != "18:00" {
		t.Errorf("DigestTimes() = %q, %q", morning, evening)
	}
}
