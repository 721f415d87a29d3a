package database

import "errors"

// Sentinel errors shared by both store implementations so that engine
// logic never depends on which backend was selected at startup.
var (
	ErrShortReminderNotFound = errors.New("short reminder not found")
	ErrFixedReminderNotFound = errors.New("time reminder not found")
	ErrBillNotFound          = errors.New("bill record not found")
	ErrCycleAlreadyOpen      = errors.New("an open cycle record already exists")
	ErrDuplicateCycleStart   = errors.New("a cycle record already starts on this date")
	ErrNoOpenCycle           = errors.New("no open cycle record to close")
	ErrSettingsNotFound      = errors.New("cycle settings not found")
	ErrTodoNotFound          = errors.New("todo item not found")
)
