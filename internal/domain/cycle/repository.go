package cycle

import (
	"context"
	"time"
)

// Repository defines persistence for cycle records and settings.
//
// InsertOpen must enforce the single-open invariant itself (conditional
// write, not check-then-write): it fails when the user already has an open
// record or a record starting on the same date.
type Repository interface {
	InsertOpen(ctx context.Context, r *Record) error
	// CloseOpen sets the end date on the user's open record and returns it.
	CloseOpen(ctx context.Context, userID int64, endDate time.Time, notes string) (*Record, error)
	// ListByUser returns all records ordered by start date, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*Record, error)
	GetSettings(ctx context.Context, userID int64) (*Settings, error)
	UpsertSettings(ctx context.Context, s *Settings) error
}
