package app

import (
	"context"
	"fmt"
	"time"

	"household_reminder_bot/internal/domain/cycle"
	idb "household_reminder_bot/internal/infra/database"
	"household_reminder_bot/internal/infra/clock"

	"github.com/sirupsen/logrus"
)

// Deltas between consecutive starts outside this range come from duplicate
// entries or data errors and are silently dropped, not reported.
const (
	minPlausibleCycle = 15
	maxPlausibleCycle = 45
)

// overdueGraceDays is how long past the predicted date the reminder keeps
// nudging before going quiet.
const overdueGraceDays = 7

// Prediction is the projected next occurrence with its confidence band.
type Prediction struct {
	PredictedDate time.Time
	EarliestDate  time.Time
	LatestDate    time.Time
	AvgCycle      int
	MinCycle      int
	MaxCycle      int
	DaysUntil     int // negative once the predicted date has passed
	LowConfidence bool
}

// ReminderKind classifies a due-soon check result.
type ReminderKind string

const (
	CycleReminderNone     ReminderKind = ""
	CycleReminderUpcoming ReminderKind = "UPCOMING"
	CycleReminderToday    ReminderKind = "TODAY"
	CycleReminderOverdue  ReminderKind = "OVERDUE"
)

// CycleService records cycle history and projects the next occurrence
// from the average of the plausible historical intervals.
type CycleService struct {
	repo   cycle.Repository
	clk    clock.Clock
	logger *logrus.Entry
}

func NewCycleService(repo cycle.Repository, clk clock.Clock, logger *logrus.Entry) *CycleService {
	return &CycleService{repo: repo, clk: clk, logger: logger}
}

// RecordStart opens a new cycle on the given date. The repository rejects
// a second open record or a duplicate start date atomically.
func (s *CycleService) RecordStart(ctx context.Context, userID int64, date time.Time, notes string) (*cycle.Record, error) {
	rec := &cycle.Record{
		UserID:    userID,
		StartDate: dateOnly(date),
		Notes:     notes,
	}
	if err := s.repo.InsertOpen(ctx, rec); err != nil {
		if err == idb.ErrCycleAlreadyOpen || err == idb.ErrDuplicateCycleStart {
			return nil, err
		}
		s.logger.WithError(err).Error("Failed to record cycle start")
		return nil, fmt.Errorf("failed to record cycle start: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"id": rec.ID, "start": rec.StartDate.Format("2006-01-02")}).Info("Cycle start recorded")
	return rec, nil
}

// RecordEnd closes the open cycle. Fails when the most recent record is
// already closed.
func (s *CycleService) RecordEnd(ctx context.Context, userID int64, date time.Time, notes string) (*cycle.Record, error) {
	rec, err := s.repo.CloseOpen(ctx, userID, dateOnly(date), notes)
	if err != nil {
		if err == idb.ErrNoOpenCycle {
			return nil, err
		}
		s.logger.WithError(err).Error("Failed to record cycle end")
		return nil, fmt.Errorf("failed to record cycle end: %w", err)
	}
	s.logger.WithField("id", rec.ID).Info("Cycle end recorded")
	return rec, nil
}

// ComputeCycles derives the day-intervals between consecutive start dates
// (records ordered newest first), keeping only plausible values.
func ComputeCycles(records []*cycle.Record) []int {
	cycles := make([]int, 0, len(records))
	for i := 0; i+1 < len(records); i++ {
		delta := daysBetween(records[i+1].StartDate, records[i].StartDate)
		if delta >= minPlausibleCycle && delta <= maxPlausibleCycle {
			cycles = append(cycles, delta)
		}
	}
	return cycles
}

// PredictNext projects the next start date. With fewer than two usable
// records the default cycle length is applied off the latest start and
// the result is flagged low-confidence.
func (s *CycleService) PredictNext(ctx context.Context, userID int64) (*Prediction, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cycle records: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoCycleHistory
	}
	settings := s.settingsOrDefault(ctx, userID)

	lastStart := records[0].StartDate
	cycles := ComputeCycles(records)

	p := &Prediction{}
	if len(cycles) == 0 {
		length := settings.DefaultCycleLength
		if length <= 0 {
			length = cycle.DefaultCycleLength
		}
		p.AvgCycle, p.MinCycle, p.MaxCycle = length, length, length
		p.LowConfidence = true
	} else {
		sum, min, max := 0, cycles[0], cycles[0]
		for _, c := range cycles {
			sum += c
			if c < min {
				min = c
			}
			if c > max {
				max = c
			}
		}
		p.AvgCycle = sum / len(cycles)
		p.MinCycle, p.MaxCycle = min, max
	}

	p.PredictedDate = lastStart.AddDate(0, 0, p.AvgCycle)
	p.EarliestDate = lastStart.AddDate(0, 0, p.MinCycle)
	p.LatestDate = lastStart.AddDate(0, 0, p.MaxCycle)
	p.DaysUntil = daysBetween(dateOnly(s.clk.Now()), p.PredictedDate)
	return p, nil
}

// CheckReminder classifies today against the prediction: a few days out,
// the day itself, or up to a week overdue.
func (s *CycleService) CheckReminder(ctx context.Context, userID int64) (ReminderKind, *Prediction, error) {
	p, err := s.PredictNext(ctx, userID)
	if err != nil {
		if err == ErrNoCycleHistory {
			return CycleReminderNone, nil, nil
		}
		return CycleReminderNone, nil, err
	}
	settings := s.settingsOrDefault(ctx, userID)
	before := settings.ReminderDaysBefore
	if before <= 0 {
		before = cycle.DefaultReminderDaysBefore
	}

	switch {
	case p.DaysUntil == 0:
		return CycleReminderToday, p, nil
	case p.DaysUntil >= 1 && p.DaysUntil <= before:
		return CycleReminderUpcoming, p, nil
	case p.DaysUntil < 0 && -p.DaysUntil <= overdueGraceDays:
		return CycleReminderOverdue, p, nil
	default:
		return CycleReminderNone, p, nil
	}
}

// UpdateSettings upserts the per-user prediction configuration.
func (s *CycleService) UpdateSettings(ctx context.Context, userID int64, defaultLength, daysBefore int) error {
	if defaultLength < 1 || daysBefore < 0 {
		return ErrOffsetOutOfRange
	}
	return s.repo.UpsertSettings(ctx, &cycle.Settings{
		UserID:             userID,
		DefaultCycleLength: defaultLength,
		ReminderDaysBefore: daysBefore,
	})
}

func (s *CycleService) settingsOrDefault(ctx context.Context, userID int64) *cycle.Settings {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		if err != idb.ErrSettingsNotFound {
			s.logger.WithError(err).Warn("Failed to read cycle settings, using defaults")
		}
		return cycle.DefaultSettings(userID)
	}
	return settings
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)).Hours() / 24)
}
