package reminder

import "context"

// Repository defines persistence for short and fixed-time reminders.
// Both collections are re-read on every scheduler tick; implementations
// must tolerate concurrent writes from the command handlers.
type Repository interface {
	AddShort(ctx context.Context, r *Short) error
	AddFixed(ctx context.Context, r *Fixed) error
	ListShort(ctx context.Context) ([]*Short, error)
	ListFixed(ctx context.Context) ([]*Fixed, error)
	ListShortByUser(ctx context.Context, userID int64) ([]*Short, error)
	ListFixedByUser(ctx context.Context, userID int64) ([]*Fixed, error)
	DeleteShort(ctx context.Context, id int64) error
	DeleteFixed(ctx context.Context, id int64) error
}
