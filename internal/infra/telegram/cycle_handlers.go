package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"household_reminder_bot/internal/app"
	"household_reminder_bot/internal/infra/clock"
	"household_reminder_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterCycleHandlers wires the cycle tracking and prediction commands.
func RegisterCycleHandlers(ctx context.Context, b *telebot.Bot, cycles *app.CycleService, clk clock.Clock, ownerID int64, baseLogger *logrus.Entry) {
	b.Handle("/cycle_start", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/cycle_start",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != ownerID {
			handlerLogger.Warn("Unauthorized access attempt")
			return nil
		}

		date, notes, err := parseDateAndNotes(c.Args(), clk.Now())
		if err != nil {
			return c.Send("❌ 日期格式不正確，請用 2025/09/24")
		}

		rec, err := cycles.RecordStart(ctx, c.Sender().ID, date, notes)
		if err != nil {
			switch {
			case errors.Is(err, database.ErrCycleAlreadyOpen):
				return c.Send("❌ 已有尚未結束的週期紀錄，請先使用 /cycle_end")
			case errors.Is(err, database.ErrDuplicateCycleStart):
				return c.Send("❌ 這個日期已經有週期紀錄了")
			default:
				handlerLogger.WithError(err).Error("Failed to record cycle start")
				return c.Send("❌ 記錄失敗，請稍後再試")
			}
		}
		handlerLogger.WithField("id", rec.ID).Info("Cycle start recorded")
		return c.Send(fmt.Sprintf("🌸 已記錄週期開始：%s", rec.StartDate.Format("2006/01/02")))
	})

	b.Handle("/cycle_end", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/cycle_end",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != ownerID {
			handlerLogger.Warn("Unauthorized access attempt")
			return nil
		}

		date, notes, err := parseDateAndNotes(c.Args(), clk.Now())
		if err != nil {
			return c.Send("❌ 日期格式不正確，請用 2025/09/24")
		}

		rec, err := cycles.RecordEnd(ctx, c.Sender().ID, date, notes)
		if err != nil {
			if errors.Is(err, database.ErrNoOpenCycle) {
				return c.Send("❌ 目前沒有進行中的週期紀錄")
			}
			handlerLogger.WithError(err).Error("Failed to record cycle end")
			return c.Send("❌ 記錄失敗，請稍後再試")
		}
		handlerLogger.WithField("id", rec.ID).Info("Cycle end recorded")
		return c.Send(fmt.Sprintf("🌸 已記錄週期結束：%s", rec.EndDate.Time.Format("2006/01/02")))
	})

	b.Handle("/cycle", func(c telebot.Context) error {
		if c.Sender().ID != ownerID {
			return nil
		}
		p, err := cycles.PredictNext(ctx, c.Sender().ID)
		if err != nil {
			if errors.Is(err, app.ErrNoCycleHistory) {
				return c.Send("還沒有任何週期紀錄，請先使用 /cycle_start 記錄")
			}
			baseLogger.WithError(err).Error("Failed to predict next cycle")
			return c.Send("❌ 預測失敗，請稍後再試")
		}

		var resp strings.Builder
		resp.WriteString("🌸 週期預測\n")
		resp.WriteString(fmt.Sprintf("\n📅 預測日期：%s", p.PredictedDate.Format("2006/01/02")))
		resp.WriteString(fmt.Sprintf("\n📆 可能區間：%s ~ %s", p.EarliestDate.Format("01/02"), p.LatestDate.Format("01/02")))
		resp.WriteString(fmt.Sprintf("\n🔁 平均週期：%d 天", p.AvgCycle))
		switch {
		case p.DaysUntil > 0:
			resp.WriteString(fmt.Sprintf("\n⏳ 距離預測日還有 %d 天", p.DaysUntil))
		case p.DaysUntil == 0:
			resp.WriteString("\n⏳ 預測日就是今天")
		default:
			resp.WriteString(fmt.Sprintf("\n⏳ 已超過預測日 %d 天", -p.DaysUntil))
		}
		if p.LowConfidence {
			resp.WriteString("\n\n💡 紀錄還不多，目前以預設週期長度估算")
		}
		return c.Send(resp.String())
	})

	b.Handle("/cycle_config", func(c telebot.Context) error {
		if c.Sender().ID != ownerID {
			return nil
		}
		args := c.Args()
		// Expected format: /cycle_config <週期長度> <提前天數>
		if len(args) != 2 {
			return c.Send("格式：/cycle_config <週期長度> <提前提醒天數>\n例如：/cycle_config 28 3")
		}
		length, err1 := strconv.Atoi(args[0])
		days, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			return c.Send("❌ 兩個參數都必須是數字")
		}
		if err := cycles.UpdateSettings(ctx, c.Sender().ID, length, days); err != nil {
			baseLogger.WithError(err).Error("Failed to update cycle settings")
			return c.Send("❌ 設定失敗，請稍後再試")
		}
		return c.Send(fmt.Sprintf("✅ 已更新設定：週期長度 %d 天，提前 %d 天提醒", length, days))
	})
}

// parseDateAndNotes reads an optional leading Y/M/D date argument; everything
// after it becomes the notes. With no date argument the current day is used.
func parseDateAndNotes(args []string, now time.Time) (time.Time, string, error) {
	if len(args) == 0 {
		return now, "", nil
	}
	if strings.Count(args[0], "/") == 2 {
		date, err := time.ParseInLocation("2006/01/02", args[0], now.Location())
		if err != nil {
			return time.Time{}, "", err
		}
		return date, strings.Join(args[1:], " "), nil
	}
	return now, strings.Join(args, " "), nil
}
