package clock

import "time"

// Clock is the single source of "now" for the whole application.
// The scheduler and all services read time through it so that tick
// sequences can be simulated deterministically in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// System returns a Clock pinned to the given reference timezone.
// All wall-clock decisions (reminder firing, digest times, date stamps)
// are made in this location, never in server-local time.
func System(loc *time.Location) Clock {
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}
