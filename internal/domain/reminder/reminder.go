package reminder

import "time"

// Short is a one-shot reminder fired a relative offset after creation.
// Corresponds to the 'short_reminders' table.
type Short struct {
	ID        int64
	UserID    int64
	Content   string
	CreatedAt time.Time
	RemindAt  time.Time // CreatedAt + requested offset, always after CreatedAt
}

// Fixed is a one-shot reminder fired at a specific wall-clock time,
// today if the time has not passed yet, otherwise tomorrow.
// Corresponds to the 'time_reminders' table.
type Fixed struct {
	ID        int64
	UserID    int64
	Content   string
	TimeOfDay string    // HH:MM, equals RemindAt's time of day
	RemindAt  time.Time // absolute timestamp of the next occurrence
	CreatedAt time.Time
}
