package app

import "errors"

// Validation errors are rejected before any write and returned to the
// caller as-is; the command layer renders them directly.
var (
	ErrEmptyContent      = errors.New("reminder content must not be empty")
	ErrOffsetOutOfRange  = errors.New("reminder offset outside the allowed range")
	ErrInvalidTimeOfDay  = errors.New("time of day must be between 00:00 and 23:59")
	ErrReminderNotFound  = errors.New("no reminder with this id")
	ErrMissingBillField  = errors.New("bank name, amount and due date are all required")
	ErrBadBillDate       = errors.New("due date is not Y/M/D shaped after normalization")
	ErrNoCycleHistory    = errors.New("no cycle records yet")
	ErrInvalidMonthDay   = errors.New("day of month must be between 1 and 31")
)
