package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"household_reminder_bot/internal/app"
	"household_reminder_bot/internal/infra/config"
	"household_reminder_bot/internal/infra/scheduler"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterReminderHandlers wires the one-shot reminder commands and the
// digest-time settings. All commands are owner-only.
func RegisterReminderHandlers(ctx context.Context, b *telebot.Bot, reminders *app.ReminderService, sched *scheduler.Scheduler, ownerID int64, baseLogger *logrus.Entry) {
	b.Handle("/remind", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/remind",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != ownerID {
			handlerLogger.Warn("Unauthorized access attempt")
			return nil
		}

		args := c.Args()
		// Expected format: /remind <值><m|h|s> <內容>, e.g. /remind 5m 倒垃圾
		if len(args) < 2 {
			return c.Send("格式：/remind <數值><m|h|s> <內容>\n例如：/remind 5m 倒垃圾")
		}

		value, unit, err := parseOffset(args[0])
		if err != nil {
			return c.Send("❌ 時間格式不正確，請使用例如 5m、2h、30s")
		}
		content := strings.Join(args[1:], " ")

		r, err := reminders.AddShort(ctx, c.Sender().ID, content, value, unit)
		if err != nil {
			switch err {
			case app.ErrEmptyContent:
				return c.Send("❌ 請輸入提醒內容")
			case app.ErrOffsetOutOfRange:
				return c.Send("❌ 範圍：分鐘 1-1440、小時 1-24、秒 10-3600")
			default:
				handlerLogger.WithError(err).Error("Failed to add short reminder")
				return c.Send("❌ 設定提醒失敗，請稍後再試")
			}
		}
		handlerLogger.WithField("id", r.ID).Info("Short reminder added")
		return c.Send(fmt.Sprintf("⏰ 已設定短期提醒：「%s」\n📅 提醒時間：%s", r.Content, r.RemindAt.Format("15:04")))
	})

	b.Handle("/at", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/at",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != ownerID {
			handlerLogger.Warn("Unauthorized access attempt")
			return nil
		}

		args := c.Args()
		// Expected format: /at HH:MM <內容>, e.g. /at 12:00 開會
		if len(args) < 2 {
			return c.Send("格式：/at HH:MM <內容>\n例如：/at 12:00 開會")
		}
		hh, mm, err := parseTimeOfDay(args[0])
		if err != nil {
			return c.Send("❌ 時間格式不正確，請使用 HH:MM")
		}
		content := strings.Join(args[1:], " ")

		r, err := reminders.AddFixed(ctx, c.Sender().ID, content, hh, mm)
		if err != nil {
			switch err {
			case app.ErrEmptyContent:
				return c.Send("❌ 請輸入提醒內容")
			case app.ErrInvalidTimeOfDay:
				return c.Send("❌ 小時 0-23，分鐘 0-59")
			default:
				handlerLogger.WithError(err).Error("Failed to add time reminder")
				return c.Send("❌ 設定提醒失敗，請稍後再試")
			}
		}
		handlerLogger.WithField("id", r.ID).Info("Time reminder added")

		now := r.CreatedAt
		dateText := "今天"
		if r.RemindAt.Day() != now.Day() {
			dateText = "明天"
		}
		return c.Send(fmt.Sprintf("🕐 已設定時間提醒：「%s」\n⏰ %s %s 提醒", r.Content, dateText, r.TimeOfDay))
	})

	b.Handle("/reminders", func(c telebot.Context) error {
		if c.Sender().ID != ownerID {
			return nil
		}
		shorts, fixed, err := reminders.List(ctx, c.Sender().ID)
		if err != nil {
			baseLogger.WithError(err).Error("Failed to list reminders")
			return c.Send("❌ 查詢失敗，請稍後再試")
		}
		if len(shorts) == 0 && len(fixed) == 0 {
			return c.Send("目前沒有待提醒事項")
		}
		var resp strings.Builder
		resp.WriteString("⏰ 提醒清單：\n")
		for _, r := range shorts {
			resp.WriteString(fmt.Sprintf("\n[%d] %s（%s）", r.ID, r.Content, r.RemindAt.Format("01/02 15:04")))
		}
		for _, r := range fixed {
			resp.WriteString(fmt.Sprintf("\n[%d] %s（%s %s）", r.ID, r.Content, r.RemindAt.Format("01/02"), r.TimeOfDay))
		}
		resp.WriteString("\n\n💡 /cancel <編號> 可取消提醒")
		return c.Send(resp.String())
	})

	b.Handle("/cancel", func(c telebot.Context) error {
		if c.Sender().ID != ownerID {
			return nil
		}
		args := c.Args()
		if len(args) != 1 {
			return c.Send("格式：/cancel <編號>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("❌ 編號必須是數字")
		}
		if err := reminders.Delete(ctx, id); err != nil {
			if err == app.ErrReminderNotFound {
				return c.Send(fmt.Sprintf("找不到編號 %d 的提醒", id))
			}
			baseLogger.WithError(err).Error("Failed to delete reminder")
			return c.Send("❌ 刪除失敗，請稍後再試")
		}
		return c.Send(fmt.Sprintf("✅ 已取消提醒 %d", id))
	})

	b.Handle("/morning", func(c telebot.Context) error {
		if c.Sender().ID != ownerID {
			return nil
		}
		args := c.Args()
		if len(args) != 1 || !config.ValidTimeOfDay(args[0]) {
			return c.Send("格式：/morning HH:MM，例如 /morning 08:30")
		}
		sched.SetMorningTime(ctx, args[0])
		return c.Send(fmt.Sprintf("🌅 已設定早上提醒時間為：%s\n💡 新時間將立即生效", args[0]))
	})

	b.Handle("/evening", func(c telebot.Context) error {
		if c.Sender().ID != ownerID {
			return nil
		}
		args := c.Args()
		if len(args) != 1 || !config.ValidTimeOfDay(args[0]) {
			return c.Send("格式：/evening HH:MM，例如 /evening 19:00")
		}
		sched.SetEveningTime(ctx, args[0])
		return c.Send(fmt.Sprintf("🌙 已設定晚上提醒時間為：%s\n💡 新時間將立即生效", args[0]))
	})

	b.Handle("/times", func(c telebot.Context) error {
		if c.Sender().ID != ownerID {
			return nil
		}
		morning, evening := sched.DigestTimes()
		return c.Send(fmt.Sprintf("⏰ 目前提醒時間設定：\n🌅 早上：%s\n🌙 晚上：%s", morning, evening))
	})
}

// parseOffset splits "5m" / "2h" / "30s" into value and unit.
func parseOffset(s string) (int, app.OffsetUnit, error) {
	if len(s) < 2 {
		return 0, "", fmt.Errorf("offset too short: %q", s)
	}
	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, "", err
	}
	switch s[len(s)-1] {
	case 'm':
		return value, app.UnitMinutes, nil
	case 'h':
		return value, app.UnitHours, nil
	case 's':
		return value, app.UnitSeconds, nil
	default:
		return 0, "", fmt.Errorf("unknown offset unit in %q", s)
	}
}

func parseTimeOfDay(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("not HH:MM: %q", s)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return hh, mm, nil
}
