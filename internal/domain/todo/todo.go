package todo

import (
	"context"
	"time"
)

// Item is one todo entry. Items may optionally carry a target date, which
// the daily digests call out on the day itself and the evening before.
type Item struct {
	ID         int64
	UserID     int64
	Content    string
	Done       bool
	HasDate    bool
	TargetDate string // YYYY/MM/DD when HasDate
	CreatedAt  time.Time
}

// MonthlyItem is a recurring duty tied to a day of month; the scheduler
// rolls it into the todo list on that day.
type MonthlyItem struct {
	ID      int64
	UserID  int64
	Day     int // 1..31
	Content string
}

// Store is the todo-list backing store. The durable implementation lives
// with an external collaborator (a spreadsheet in the original deployment);
// this process only needs the operations below.
type Store interface {
	Add(ctx context.Context, item *Item) error
	List(ctx context.Context, userID int64) ([]*Item, error)
	Complete(ctx context.Context, userID, id int64) error
	Delete(ctx context.Context, userID, id int64) error
	AddMonthly(ctx context.Context, item *MonthlyItem) error
	ListMonthly(ctx context.Context, userID int64) ([]*MonthlyItem, error)
}
