package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"household_reminder_bot/internal/domain/notify"
	"household_reminder_bot/internal/domain/todo"
	"household_reminder_bot/internal/infra/clock"

	"github.com/sirupsen/logrus"
)

// DigestSlot distinguishes the two daily digests.
type DigestSlot string

const (
	DigestMorning DigestSlot = "morning"
	DigestEvening DigestSlot = "evening"
)

const digestMaxPending = 5

// DigestService composes the daily todo digests, the next-day preview
// and the monthly duty roll-in. It only ever reads the todo collaborator
// through the todo.Store interface.
type DigestService struct {
	store  todo.Store
	sink   notify.Sink
	clk    clock.Clock
	logger *logrus.Entry
}

func NewDigestService(store todo.Store, sink notify.Sink, clk clock.Clock, logger *logrus.Entry) *DigestService {
	return &DigestService{store: store, sink: sink, clk: clk, logger: logger}
}

// AddTodo creates a todo item, optionally dated.
func (s *DigestService) AddTodo(ctx context.Context, userID int64, content, targetDate string) (*todo.Item, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	item := &todo.Item{
		UserID:     userID,
		Content:    content,
		HasDate:    targetDate != "",
		TargetDate: targetDate,
		CreatedAt:  s.clk.Now(),
	}
	if err := s.store.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add todo: %w", err)
	}
	return item, nil
}

// AddMonthly registers a recurring day-of-month duty.
func (s *DigestService) AddMonthly(ctx context.Context, userID int64, day int, content string) (*todo.MonthlyItem, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if day < 1 || day > 31 {
		return nil, ErrInvalidMonthDay
	}
	item := &todo.MonthlyItem{UserID: userID, Day: day, Content: content}
	if err := s.store.AddMonthly(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add monthly item: %w", err)
	}
	return item, nil
}

// ListTodos exposes the todo list for the command layer.
func (s *DigestService) ListTodos(ctx context.Context, userID int64) ([]*todo.Item, error) {
	return s.store.List(ctx, userID)
}

// ListMonthly exposes the monthly duties for the command layer.
func (s *DigestService) ListMonthly(ctx context.Context, userID int64) ([]*todo.MonthlyItem, error) {
	return s.store.ListMonthly(ctx, userID)
}

// CompleteTodo marks an item done.
func (s *DigestService) CompleteTodo(ctx context.Context, userID, id int64) error {
	return s.store.Complete(ctx, userID, id)
}

// DeleteTodo removes an item.
func (s *DigestService) DeleteTodo(ctx context.Context, userID, id int64) error {
	return s.store.Delete(ctx, userID, id)
}

// SendDailyDigest pushes the morning or evening todo summary. Pending
// items dated today are called out explicitly.
func (s *DigestService) SendDailyDigest(ctx context.Context, userID int64, slot DigestSlot, now time.Time) error {
	items, err := s.store.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to read todos for digest: %w", err)
	}

	today := now.Format("2006/01/02")
	var pending, completed, dated []*todo.Item
	for _, it := range items {
		if it.Done {
			completed = append(completed, it)
			continue
		}
		pending = append(pending, it)
		if it.HasDate && it.TargetDate == today {
			dated = append(dated, it)
		}
	}

	icon, greeting := "🌅", "早安"
	if slot == DigestEvening {
		icon, greeting = "🌙", "晚安"
	}

	var b strings.Builder
	if len(pending) == 0 {
		b.WriteString(fmt.Sprintf("%s %s！🎉 目前沒有待辦事項", icon, greeting))
		if slot == DigestMorning {
			b.WriteString("\n💡 可以新增今天要做的事情")
		} else {
			b.WriteString("\n😴 好好休息，為明天準備新的目標！")
		}
	} else {
		b.WriteString(fmt.Sprintf("%s %s！您有 %d 項待辦事項：\n", icon, greeting, len(pending)))
		for i, it := range pending {
			if i == digestMaxPending {
				b.WriteString(fmt.Sprintf("\n...還有 %d 項未完成", len(pending)-digestMaxPending))
				break
			}
			dateInfo := ""
			if it.HasDate {
				dateInfo = " 📅" + it.TargetDate
			}
			b.WriteString(fmt.Sprintf("\n%d. ⭕ %s%s", i+1, it.Content, dateInfo))
		}
		if len(dated) > 0 {
			b.WriteString(fmt.Sprintf("\n\n🎯 今天有 %d 項重要事項，完成後請標記完成", len(dated)))
		}
		if len(completed) > 0 {
			b.WriteString(fmt.Sprintf("\n✅ 已完成 %d 項", len(completed)))
		}
		if slot == DigestMorning {
			b.WriteString("\n💪 新的一天開始了！加油完成這些任務！")
		} else {
			b.WriteString("\n🌙 檢查一下今天的進度吧！")
		}
	}

	if err := s.sink.Send(ctx, userID, b.String()); err != nil {
		return fmt.Errorf("failed to deliver daily digest: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"slot": slot, "pending": len(pending)}).Info("Daily digest sent")
	return nil
}

// PreviewTomorrow pushes the evening preview of tomorrow's dated todos
// and monthly duties. Nothing is sent when tomorrow is empty.
func (s *DigestService) PreviewTomorrow(ctx context.Context, userID int64, now time.Time) error {
	tomorrow := now.AddDate(0, 0, 1)
	tomorrowDate := tomorrow.Format("2006/01/02")

	items, err := s.store.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to read todos for preview: %w", err)
	}
	var dueTomorrow []*todo.Item
	for _, it := range items {
		if !it.Done && it.HasDate && it.TargetDate == tomorrowDate {
			dueTomorrow = append(dueTomorrow, it)
		}
	}

	monthly, err := s.store.ListMonthly(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to read monthly items for preview: %w", err)
	}
	var dutiesTomorrow []*todo.MonthlyItem
	for _, m := range monthly {
		if m.Day == tomorrow.Day() {
			dutiesTomorrow = append(dutiesTomorrow, m)
		}
	}

	if len(dueTomorrow) == 0 && len(dutiesTomorrow) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 明日提醒預告（%s）\n", tomorrow.Format("01/02")))
	n := 1
	for _, it := range dueTomorrow {
		b.WriteString(fmt.Sprintf("\n%d. 📋 %s", n, it.Content))
		n++
	}
	for _, m := range dutiesTomorrow {
		b.WriteString(fmt.Sprintf("\n%d. 🔄 %s", n, m.Content))
		n++
	}
	b.WriteString("\n\n💡 明天早上會正式提醒您")

	if err := s.sink.Send(ctx, userID, b.String()); err != nil {
		return fmt.Errorf("failed to deliver preview: %w", err)
	}
	s.logger.WithField("items", n-1).Info("Next-day preview sent")
	return nil
}

// RollMonthly moves today's monthly duties into the todo list and
// announces them. Duties already rolled in today (same content, dated
// today, not done) are not duplicated.
func (s *DigestService) RollMonthly(ctx context.Context, userID int64, now time.Time) error {
	monthly, err := s.store.ListMonthly(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to read monthly items: %w", err)
	}
	var dueToday []*todo.MonthlyItem
	for _, m := range monthly {
		if m.Day == now.Day() {
			dueToday = append(dueToday, m)
		}
	}
	if len(dueToday) == 0 {
		return nil
	}

	today := now.Format("2006/01/02")
	existing, err := s.store.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to read todos: %w", err)
	}
	present := make(map[string]bool)
	for _, it := range existing {
		if !it.Done && it.HasDate && it.TargetDate == today {
			present[it.Content] = true
		}
	}

	var added []string
	for _, m := range dueToday {
		if present[m.Content] {
			continue
		}
		if _, err := s.AddTodo(ctx, userID, m.Content, today); err != nil {
			s.logger.WithError(err).WithField("content", m.Content).Error("Failed to roll monthly item in")
			continue
		}
		added = append(added, m.Content)
	}
	if len(added) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔄 每月提醒！今天（%s）的固定事項：\n", now.Format("01/02")))
	for i, content := range added {
		b.WriteString(fmt.Sprintf("\n%d. 📅 %s", i+1, content))
	}
	b.WriteString("\n\n✅ 已自動加入今日待辦清單")

	if err := s.sink.Send(ctx, userID, b.String()); err != nil {
		return fmt.Errorf("failed to deliver monthly roll-in notice: %w", err)
	}
	s.logger.WithField("added", len(added)).Info("Monthly duties rolled into todo list")
	return nil
}
