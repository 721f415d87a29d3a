package notify

import "context"

// Sink is the outbound push channel. Implementations make at most one
// delivery attempt per call; callers treat any error as "not delivered"
// and decide themselves whether the message stays eligible for a retry.
type Sink interface {
	Send(ctx context.Context, chatID int64, text string) error
}
