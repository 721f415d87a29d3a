package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"household_reminder_bot/internal/app"
	"household_reminder_bot/internal/domain/notify"
	"household_reminder_bot/internal/infra/clock"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StampStore persists the last-fired date per recurring event so that a
// skipped tick or a restart cannot double-fire or miss a date-keyed event.
type StampStore interface {
	LastFired(ctx context.Context, key string) (string, error)
	SetLastFired(ctx context.Context, key, date string) error
	ClearLastFired(ctx context.Context, key string) error
}

// Event keys for the date-keyed recurring checks.
const (
	eventMorningDigest  = "digest_morning"
	eventEveningDigest  = "digest_evening"
	eventEveningPreview = "preview_evening"
	eventMonthlyRoll    = "monthly_roll"
	eventBillSweep      = "bill_sweep"
	eventCycleCheck     = "cycle_check"
)

// tickBudget bounds one full tick; a slow store or push must not stall
// into the next poll interval.
const tickBudget = 50 * time.Second

// Scheduler drives the once-per-minute due-check across all reminder
// classes. It is the only writer of last-fired stamps.
type Scheduler struct {
	cronEngine *cron.Cron
	reminders  *app.ReminderService
	bills      *app.BillService
	cycles     *app.CycleService
	digests    *app.DigestService
	sink       notify.Sink
	stamps     StampStore
	clk        clock.Clock
	logger     *logrus.Entry
	ownerID    int64

	mu              sync.Mutex
	morningTime     string // HH:MM
	eveningTime     string
	billNotifyTime  string
	monthlyRollTime string
}

// Times bundles the configured daily check times.
type Times struct {
	Morning     string
	Evening     string
	BillNotify  string
	MonthlyRoll string
}

func New(
	reminders *app.ReminderService,
	bills *app.BillService,
	cycles *app.CycleService,
	digests *app.DigestService,
	sink notify.Sink,
	stamps StampStore,
	clk clock.Clock,
	loc *time.Location,
	times Times,
	ownerID int64,
	logger *logrus.Entry,
) *Scheduler {
	return &Scheduler{
		cronEngine:      cron.New(cron.WithLocation(loc)),
		reminders:       reminders,
		bills:           bills,
		cycles:          cycles,
		digests:         digests,
		sink:            sink,
		stamps:          stamps,
		clk:             clk,
		logger:          logger,
		ownerID:         ownerID,
		morningTime:     times.Morning,
		eveningTime:     times.Evening,
		billNotifyTime:  times.BillNotify,
		monthlyRollTime: times.MonthlyRoll,
	}
}

// Start registers the minute tick and starts the cron engine.
func (s *Scheduler) Start() error {
	if _, err := s.cronEngine.AddFunc("* * * * *", s.tick); err != nil {
		return fmt.Errorf("could not register scheduler tick: %w", err)
	}
	s.cronEngine.Start()
	s.logger.Info("Scheduler started, polling once per minute")
	return nil
}

// Stop stops the cron engine and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped gracefully")
}

// SetMorningTime moves the morning digest and clears its stamps so the
// new time can still fire today.
func (s *Scheduler) SetMorningTime(ctx context.Context, hhmm string) {
	s.mu.Lock()
	s.morningTime = hhmm
	s.mu.Unlock()
	s.clearStamp(ctx, eventMorningDigest)
	s.clearStamp(ctx, eventCycleCheck)
}

// SetEveningTime moves the evening digest and preview likewise.
func (s *Scheduler) SetEveningTime(ctx context.Context, hhmm string) {
	s.mu.Lock()
	s.eveningTime = hhmm
	s.mu.Unlock()
	s.clearStamp(ctx, eventEveningDigest)
	s.clearStamp(ctx, eventEveningPreview)
}

// DigestTimes returns the current morning and evening digest times.
func (s *Scheduler) DigestTimes() (morning, evening string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.morningTime, s.eveningTime
}

func (s *Scheduler) clearStamp(ctx context.Context, key string) {
	if err := s.stamps.ClearLastFired(ctx, key); err != nil {
		s.logger.WithError(err).WithField("event", key).Error("Failed to clear fired stamp")
	}
}

// tick is one execution of the periodic due-check. Components run in a
// fixed order and every failure is caught and isolated: one broken check
// never blocks the rest of the tick, and the loop itself never stops.
func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), tickBudget)
	defer cancel()

	started := time.Now()
	now := s.clk.Now()

	s.mu.Lock()
	morning, evening := s.morningTime, s.eveningTime
	billTime, rollTime := s.billNotifyTime, s.monthlyRollTime
	s.mu.Unlock()

	// Daily recurring checks first, in a fixed order.
	s.runDateKeyed(ctx, now, eventMonthlyRoll, rollTime, func() error {
		return s.digests.RollMonthly(ctx, s.ownerID, now)
	})
	s.runDateKeyed(ctx, now, eventMorningDigest, morning, func() error {
		return s.digests.SendDailyDigest(ctx, s.ownerID, app.DigestMorning, now)
	})
	s.runDateKeyed(ctx, now, eventEveningDigest, evening, func() error {
		return s.digests.SendDailyDigest(ctx, s.ownerID, app.DigestEvening, now)
	})
	s.runDateKeyed(ctx, now, eventEveningPreview, evening, func() error {
		return s.digests.PreviewTomorrow(ctx, s.ownerID, now)
	})

	// One-shot reminders fire on every tick.
	s.reminders.Tick(ctx, now)

	// Bill urgency sweep, once per day.
	s.runDateKeyed(ctx, now, eventBillSweep, billTime, func() error {
		items, err := s.bills.SweepUrgent(ctx)
		if err != nil {
			return err
		}
		text := app.FormatSweep(items)
		if text == "" {
			return nil
		}
		return s.sink.Send(ctx, s.ownerID, text)
	})

	// Cycle prediction reminder, once per day at the morning time.
	s.runDateKeyed(ctx, now, eventCycleCheck, morning, func() error {
		kind, p, err := s.cycles.CheckReminder(ctx, s.ownerID)
		if err != nil {
			return err
		}
		if kind == app.CycleReminderNone {
			return nil
		}
		return s.sink.Send(ctx, s.ownerID, formatCycleReminder(kind, p))
	})

	if elapsed := time.Since(started); elapsed > time.Minute {
		s.logger.WithField("elapsed", elapsed).Warn("Tick overran the poll interval")
	}
}

// runDateKeyed fires fn on the first tick on or after hhmm today, guarded
// by the persisted last-fired date. The stamp is written only after fn
// succeeds, so a failed delivery is retried on the next tick.
func (s *Scheduler) runDateKeyed(ctx context.Context, now time.Time, key, hhmm string, fn func() error) {
	target, err := timeOfDayOn(now, hhmm)
	if err != nil {
		s.logger.WithError(err).WithField("event", key).Error("Invalid configured time of day")
		return
	}
	if now.Before(target) {
		return
	}

	today := now.Format("2006-01-02")
	last, err := s.stamps.LastFired(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithField("event", key).Error("Failed to read fired stamp")
		return
	}
	if last == today {
		return
	}

	if err := fn(); err != nil {
		s.logger.WithError(err).WithField("event", key).Error("Recurring check failed, will retry next tick")
		return
	}
	if err := s.stamps.SetLastFired(ctx, key, today); err != nil {
		s.logger.WithError(err).WithField("event", key).Error("Failed to persist fired stamp")
	}
}

func timeOfDayOn(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

func formatCycleReminder(kind app.ReminderKind, p *app.Prediction) string {
	const layout = "2006/01/02"
	switch kind {
	case app.CycleReminderToday:
		return fmt.Sprintf("🌸 生理期預測提醒\n\n預測今天（%s）開始，請多留意身體狀況。\n平均週期：%d 天",
			p.PredictedDate.Format(layout), p.AvgCycle)
	case app.CycleReminderUpcoming:
		return fmt.Sprintf("🌸 生理期預測提醒\n\n預計 %d 天後（%s）開始。\n區間：%s ~ %s\n平均週期：%d 天",
			p.DaysUntil, p.PredictedDate.Format(layout),
			p.EarliestDate.Format(layout), p.LatestDate.Format(layout), p.AvgCycle)
	case app.CycleReminderOverdue:
		return fmt.Sprintf("🌸 生理期預測提醒\n\n已超過預測日（%s）%d 天，記得記錄開始日期。",
			p.PredictedDate.Format(layout), -p.DaysUntil)
	default:
		return ""
	}
}
