package cycle

import (
	"database/sql"
	"time"
)

// Record is one tracked cycle. EndDate is null while the cycle is ongoing;
// at most one record per user may be open at a time. Records are never
// deleted. Corresponds to the 'cycle_records' table.
type Record struct {
	ID        int64
	UserID    int64
	StartDate time.Time // date resolution
	EndDate   sql.NullTime
	Notes     string
	CreatedAt time.Time
}

// Open reports whether the cycle has not been closed yet.
func (r *Record) Open() bool {
	return !r.EndDate.Valid
}

// Settings is the per-user prediction configuration, upserted as a singleton.
// Corresponds to the 'cycle_settings' table.
type Settings struct {
	UserID             int64
	DefaultCycleLength int // days, used while history is too thin to average
	ReminderDaysBefore int // how many days ahead the upcoming reminder starts
}

const (
	DefaultCycleLength = 28
	DefaultReminderDaysBefore = 3
)

// DefaultSettings returns the settings used before the user configures any.
func DefaultSettings(userID int64) *Settings {
	return &Settings{
		UserID:             userID,
		DefaultCycleLength: DefaultCycleLength,
		ReminderDaysBefore: DefaultReminderDaysBefore,
	}
}
