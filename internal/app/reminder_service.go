package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"household_reminder_bot/internal/domain/notify"
	"household_reminder_bot/internal/domain/reminder"
	idb "household_reminder_bot/internal/infra/database"
	"household_reminder_bot/internal/infra/clock"

	"github.com/sirupsen/logrus"
)

// OffsetUnit is the unit of a short-reminder offset. Each unit carries its
// own governed range, matching what the command syntax allows.
type OffsetUnit string

const (
	UnitMinutes OffsetUnit = "minutes" // 1..1440
	UnitHours   OffsetUnit = "hours"   // 1..24
	UnitSeconds OffsetUnit = "seconds" // 10..3600
)

const (
	// fireWindow tolerates the 60s poll interval: a reminder fires when
	// now is at most this far past its target. The window spans two extra
	// ticks, which is also what gives a failed delivery its retries.
	fireWindow = 2 * time.Minute

	// staleAfter is how far past due an unfired reminder may drift before
	// the sweep removes it without ever delivering it.
	staleAfter = 24 * time.Hour
)

// ReminderService owns create/list/delete/fire logic for short and
// fixed-time reminders, including expiry cleanup.
type ReminderService struct {
	repo   reminder.Repository
	sink   notify.Sink
	clk    clock.Clock
	logger *logrus.Entry
}

func NewReminderService(repo reminder.Repository, sink notify.Sink, clk clock.Clock, logger *logrus.Entry) *ReminderService {
	return &ReminderService{repo: repo, sink: sink, clk: clk, logger: logger}
}

// AddShort creates a one-shot reminder value×unit from now.
func (s *ReminderService) AddShort(ctx context.Context, userID int64, content string, value int, unit OffsetUnit) (*reminder.Short, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	var offset time.Duration
	switch unit {
	case UnitMinutes:
		if value < 1 || value > 1440 {
			return nil, ErrOffsetOutOfRange
		}
		offset = time.Duration(value) * time.Minute
	case UnitHours:
		if value < 1 || value > 24 {
			return nil, ErrOffsetOutOfRange
		}
		offset = time.Duration(value) * time.Hour
	case UnitSeconds:
		if value < 10 || value > 3600 {
			return nil, ErrOffsetOutOfRange
		}
		offset = time.Duration(value) * time.Second
	default:
		return nil, ErrOffsetOutOfRange
	}

	now := s.clk.Now()
	r := &reminder.Short{
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		RemindAt:  now.Add(offset),
	}
	if err := s.repo.AddShort(ctx, r); err != nil {
		s.logger.WithError(err).Error("Failed to store short reminder")
		return nil, fmt.Errorf("failed to store short reminder: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"id": r.ID, "remind_at": r.RemindAt}).Info("Short reminder created")
	return r, nil
}

// AddFixed creates a one-shot reminder at hh:mm, today if that time has
// not passed yet, otherwise tomorrow.
func (s *ReminderService) AddFixed(ctx context.Context, userID int64, content string, hh, mm int) (*reminder.Fixed, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return nil, ErrInvalidTimeOfDay
	}

	now := s.clk.Now()
	target := time.Date(now.Year(), now.Month(), now.Day(), hh, mm, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}

	r := &reminder.Fixed{
		UserID:    userID,
		Content:   content,
		TimeOfDay: fmt.Sprintf("%02d:%02d", hh, mm),
		RemindAt:  target,
		CreatedAt: now,
	}
	if err := s.repo.AddFixed(ctx, r); err != nil {
		s.logger.WithError(err).Error("Failed to store time reminder")
		return nil, fmt.Errorf("failed to store time reminder: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"id": r.ID, "remind_at": r.RemindAt}).Info("Time reminder created")
	return r, nil
}

// List returns the user's pending reminders from both sets.
func (s *ReminderService) List(ctx context.Context, userID int64) ([]*reminder.Short, []*reminder.Fixed, error) {
	shorts, err := s.repo.ListShortByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list short reminders: %w", err)
	}
	fixed, err := s.repo.ListFixedByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list time reminders: %w", err)
	}
	return shorts, fixed, nil
}

// Delete removes a reminder by id, looking in the short set first and the
// fixed set second. An unknown id yields ErrReminderNotFound.
func (s *ReminderService) Delete(ctx context.Context, id int64) error {
	err := s.repo.DeleteShort(ctx, id)
	if err == nil {
		return nil
	}
	if err != idb.ErrShortReminderNotFound {
		return fmt.Errorf("failed to delete short reminder: %w", err)
	}
	err = s.repo.DeleteFixed(ctx, id)
	if err == nil {
		return nil
	}
	if err != idb.ErrFixedReminderNotFound {
		return fmt.Errorf("failed to delete time reminder: %w", err)
	}
	return ErrReminderNotFound
}

// Tick re-reads both reminder sets and fires everything due at now.
// Per-entity failures are logged and isolated; one bad record never
// blocks the rest of the queue. Entities are deleted only after a
// successful delivery, so a failed push stays eligible while it is
// still inside the fire window.
func (s *ReminderService) Tick(ctx context.Context, now time.Time) {
	shorts, err := s.repo.ListShort(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Tick: failed to read short reminders")
	} else {
		for _, r := range shorts {
			s.tickShort(ctx, now, r)
		}
	}

	fixed, err := s.repo.ListFixed(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Tick: failed to read time reminders")
		return
	}
	for _, r := range fixed {
		s.tickFixed(ctx, now, r)
	}
}

func (s *ReminderService) tickShort(ctx context.Context, now time.Time, r *reminder.Short) {
	elapsed := now.Sub(r.RemindAt)
	switch {
	case elapsed > staleAfter:
		if err := s.repo.DeleteShort(ctx, r.ID); err != nil && err != idb.ErrShortReminderNotFound {
			s.logger.WithError(err).WithField("id", r.ID).Error("Failed to remove stale short reminder")
			return
		}
		s.logger.WithField("id", r.ID).Info("Removed stale short reminder without firing")
	case elapsed >= 0 && elapsed <= fireWindow:
		text := fmt.Sprintf("⏰ 短期提醒時間到！\n\n📋 %s\n🎯 該去執行了！", r.Content)
		if err := s.sink.Send(ctx, r.UserID, text); err != nil {
			s.logger.WithError(err).WithField("id", r.ID).Warn("Short reminder delivery failed, will retry next tick")
			return
		}
		if err := s.repo.DeleteShort(ctx, r.ID); err != nil && err != idb.ErrShortReminderNotFound {
			s.logger.WithError(err).WithField("id", r.ID).Error("Failed to delete fired short reminder")
			return
		}
		s.logger.WithField("id", r.ID).Info("Short reminder fired")
	}
}

func (s *ReminderService) tickFixed(ctx context.Context, now time.Time, r *reminder.Fixed) {
	elapsed := now.Sub(r.RemindAt)
	switch {
	case elapsed > staleAfter:
		if err := s.repo.DeleteFixed(ctx, r.ID); err != nil && err != idb.ErrFixedReminderNotFound {
			s.logger.WithError(err).WithField("id", r.ID).Error("Failed to remove stale time reminder")
			return
		}
		s.logger.WithField("id", r.ID).Info("Removed stale time reminder without firing")
	case elapsed >= 0 && elapsed <= fireWindow:
		text := fmt.Sprintf("🕐 時間提醒！\n\n📋 %s\n⏰ %s\n🎯 該去執行了！", r.Content, r.TimeOfDay)
		if err := s.sink.Send(ctx, r.UserID, text); err != nil {
			s.logger.WithError(err).WithField("id", r.ID).Warn("Time reminder delivery failed, will retry next tick")
			return
		}
		if err := s.repo.DeleteFixed(ctx, r.ID); err != nil && err != idb.ErrFixedReminderNotFound {
			s.logger.WithError(err).WithField("id", r.ID).Error("Failed to delete fired time reminder")
			return
		}
		s.logger.WithField("id", r.ID).Info("Time reminder fired")
	}
}
