// internal/infra/telegram/client.go
package telegram

import (
	"context"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the notify.Sink interface using the
// gopkg.in/telebot.v3 library. Outbound pushes are throttled to one per
// second so a burst of due reminders cannot trip the bot API limits.
type TelebotAdapter struct {
	bot     *telebot.Bot
	limiter *rate.Limiter
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{
		bot:     b,
		limiter: rate.NewLimiter(rate.Limit(1), 3),
	}
}

// Send pushes one text message to the given chat. It makes a single
// delivery attempt; the caller decides whether a failure is retried.
func (tba *TelebotAdapter) Send(ctx context.Context, chatID int64, text string) error {
	if err := tba.limiter.Wait(ctx); err != nil {
		return err
	}
	recipient := &telebot.User{ID: chatID}
	_, err := tba.bot.Send(recipient, text)
	return err
}
