package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"household_reminder_bot/internal/app"
	"household_reminder_bot/internal/domain/bill"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterBillHandlers wires the credit-card bill commands.
func RegisterBillHandlers(ctx context.Context, b *telebot.Bot, bills *app.BillService, ownerID int64, baseLogger *logrus.Entry) {
	b.Handle("/bills", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/bills",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != ownerID {
			handlerLogger.Warn("Unauthorized access attempt")
			return nil
		}

		items, err := bills.SweepUrgent(ctx)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to sweep urgent bills")
			return c.Send("❌ 查詢帳單失敗，請稍後再試")
		}
		text := app.FormatSweep(items)
		if text == "" {
			return c.Send("✅ 目前沒有需要注意的帳單")
		}
		return c.Send(text)
	})

	b.Handle("/bill_sync", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/bill_sync",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != ownerID {
			handlerLogger.Warn("Unauthorized access attempt")
			return nil
		}

		args := c.Args()
		// Expected format: /bill_sync <銀行> <金額> <繳費期限> [結帳日]
		if len(args) < 3 {
			return c.Send("格式：/bill_sync <銀行> <金額> <繳費期限> [結帳日]\n例如：/bill_sync 永豐 12345 114/09/24")
		}
		statementDate := ""
		if len(args) >= 4 {
			statementDate = args[3]
		}

		rec, err := bills.Upsert(ctx, args[0], args[1], args[2], statementDate)
		if err != nil {
			switch {
			case errors.Is(err, app.ErrMissingBillField):
				return c.Send("❌ 銀行、金額與繳費期限都是必填欄位")
			case errors.Is(err, bill.ErrBadAmount):
				return c.Send("❌ 金額格式不正確")
			case errors.Is(err, app.ErrBadBillDate):
				return c.Send("❌ 繳費期限格式不正確，請用 114/09/24 或 2025/09/24")
			default:
				handlerLogger.WithError(err).Error("Failed to upsert bill record")
				return c.Send("❌ 帳單同步失敗，請稍後再試")
			}
		}
		handlerLogger.WithFields(logrus.Fields{
			"bank":      rec.BankName,
			"month_key": rec.MonthKey,
		}).Info("Bill record synced")

		var resp strings.Builder
		resp.WriteString("💳 帳單已同步\n")
		resp.WriteString(fmt.Sprintf("\n🏦 銀行：%s", rec.BankName))
		resp.WriteString(fmt.Sprintf("\n💰 金額：%s", rec.Amount))
		resp.WriteString(fmt.Sprintf("\n📅 繳費期限：%s", rec.DueDate))
		if rec.StatementDate != "" {
			resp.WriteString(fmt.Sprintf("\n🧾 結帳日：%s", rec.StatementDate))
		}
		return c.Send(resp.String())
	})
}
