package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"household_reminder_bot/internal/app"
	"household_reminder_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterTodoHandlers wires the todo list and monthly duty commands.
func RegisterTodoHandlers(ctx context.Context, b *telebot.Bot, digests *app.DigestService, ownerID int64, baseLogger *logrus.Entry) {
	b.Handle("/todo", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/todo",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != ownerID {
			handlerLogger.Warn("Unauthorized access attempt")
			return nil
		}

		args := c.Args()
		// Expected format: /todo <內容> [Y/M/D 日期]
		if len(args) == 0 {
			return c.Send("格式：/todo <內容> [日期]\n例如：/todo 繳水費 2025/09/05")
		}
		targetDate := ""
		content := strings.Join(args, " ")
		if last := args[len(args)-1]; strings.Count(last, "/") == 2 {
			targetDate = last
			content = strings.Join(args[:len(args)-1], " ")
		}

		item, err := digests.AddTodo(ctx, c.Sender().ID, content, targetDate)
		if err != nil {
			if errors.Is(err, app.ErrEmptyContent) {
				return c.Send("❌ 請輸入待辦內容")
			}
			handlerLogger.WithError(err).Error("Failed to add todo item")
			return c.Send("❌ 新增失敗，請稍後再試")
		}
		handlerLogger.WithField("id", item.ID).Info("Todo item added")
		if item.HasDate {
			return c.Send(fmt.Sprintf("📝 已新增待辦：「%s」（%s）", item.Content, item.TargetDate))
		}
		return c.Send(fmt.Sprintf("📝 已新增待辦：「%s」", item.Content))
	})

	b.Handle("/todos", func(c telebot.Context) error {
		if c.Sender().ID != ownerID {
			return nil
		}
		items, err := digests.ListTodos(ctx, c.Sender().ID)
		if err != nil {
			baseLogger.WithError(err).Error("Failed to list todo items")
			return c.Send("❌ 查詢失敗，請稍後再試")
		}
		if len(items) == 0 {
			return c.Send("目前沒有待辦事項 🎉")
		}
		var resp strings.Builder
		resp.WriteString("📝 待辦清單：\n")
		for _, item := range items {
			mark := "⬜"
			if item.Done {
				mark = "✅"
			}
			resp.WriteString(fmt.Sprintf("\n%s [%d] %s", mark, item.ID, item.Content))
			if item.HasDate {
				resp.WriteString(fmt.Sprintf("（%s）", item.TargetDate))
			}
		}
		resp.WriteString("\n\n💡 /done <編號> 完成，/tododel <編號> 刪除")
		return c.Send(resp.String())
	})

	b.Handle("/done", func(c telebot.Context) error {
		if c.Sender().ID != ownerID {
			return nil
		}
		args := c.Args()
		if len(args) != 1 {
			return c.Send("格式：/done <編號>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("❌ 編號必須是數字")
		}
		if err := digests.CompleteTodo(ctx, c.Sender().ID, id); err != nil {
			if errors.Is(err, database.ErrTodoNotFound) {
				return c.Send(fmt.Sprintf("找不到編號 %d 的待辦", id))
			}
			baseLogger.WithError(err).Error("Failed to complete todo item")
			return c.Send("❌ 更新失敗，請稍後再試")
		}
		return c.Send(fmt.Sprintf("✅ 已完成待辦 %d", id))
	})

	b.Handle("/tododel", func(c telebot.Context) error {
		if c.Sender().ID != ownerID {
			return nil
		}
		args := c.Args()
		if len(args) != 1 {
			return c.Send("格式：/tododel <編號>")
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("❌ 編號必須是數字")
		}
		if err := digests.DeleteTodo(ctx, c.Sender().ID, id); err != nil {
			if errors.Is(err, database.ErrTodoNotFound) {
				return c.Send(fmt.Sprintf("找不到編號 %d 的待辦", id))
			}
			baseLogger.WithError(err).Error("Failed to delete todo item")
			return c.Send("❌ 刪除失敗，請稍後再試")
		}
		return c.Send(fmt.Sprintf("🗑 已刪除待辦 %d", id))
	})

	b.Handle("/monthly", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/monthly",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != ownerID {
			handlerLogger.Warn("Unauthorized access attempt")
			return nil
		}

		args := c.Args()
		// Expected format: /monthly <日> <內容>, e.g. /monthly 5 繳房租
		if len(args) < 2 {
			return c.Send("格式：/monthly <日> <內容>\n例如：/monthly 5 繳房租")
		}
		day, err := strconv.Atoi(args[0])
		if err != nil {
			return c.Send("❌ 日必須是數字")
		}
		content := strings.Join(args[1:], " ")

		item, err := digests.AddMonthly(ctx, c.Sender().ID, day, content)
		if err != nil {
			switch {
			case errors.Is(err, app.ErrInvalidMonthDay):
				return c.Send("❌ 日必須介於 1 到 31 之間")
			case errors.Is(err, app.ErrEmptyContent):
				return c.Send("❌ 請輸入例行事項內容")
			default:
				handlerLogger.WithError(err).Error("Failed to add monthly duty")
				return c.Send("❌ 新增失敗，請稍後再試")
			}
		}
		handlerLogger.WithField("id", item.ID).Info("Monthly duty added")
		return c.Send(fmt.Sprintf("🔁 已新增每月例行：每月 %d 日「%s」", item.Day, item.Content))
	})

	b.Handle("/monthlies", func(c telebot.Context) error {
		if c.Sender().ID != ownerID {
			return nil
		}
		items, err := digests.ListMonthly(ctx, c.Sender().ID)
		if err != nil {
			baseLogger.WithError(err).Error("Failed to list monthly duties")
			return c.Send("❌ 查詢失敗，請稍後再試")
		}
		if len(items) == 0 {
			return c.Send("目前沒有每月例行事項")
		}
		var resp strings.Builder
		resp.WriteString("🔁 每月例行事項：\n")
		for _, item := range items {
			resp.WriteString(fmt.Sprintf("\n[%d] 每月 %d 日：%s", item.ID, item.Day, item.Content))
		}
		return c.Send(resp.String())
	})
}
