package bill

import "time"

// Record is one credit-card statement for one bank and one billing month.
// Keyed by (BankName, MonthKey); a newer statement for the same month
// overwrites the previous one. Corresponds to the 'bills' table.
type Record struct {
	BankName      string // canonical label, see NormalizeBankName
	OriginalName  string // bank name as received from the ingestion side
	Amount        string // NT$-prefixed, thousands-grouped
	DueDate       string // canonical YYYY/MM/DD
	StatementDate string // canonical YYYY/MM/DD, may be empty
	MonthKey      string // YYYY-MM of DueDate
	UpdatedAt     time.Time
}

// Urgency buckets a bill by how close its due date is.
type Urgency string

const (
	UrgencyOverdue  Urgency = "OVERDUE"
	UrgencyDueToday Urgency = "DUE_TODAY"
	UrgencyUrgent   Urgency = "URGENT"  // due within 3 days
	UrgencyWarning  Urgency = "WARNING" // due within 7 days
	UrgencyNone     Urgency = "NONE"
)

// ClassifyUrgency buckets a due date against today. days is the calendar-day
// distance (negative when overdue).
func ClassifyUrgency(dueDate string, today time.Time) (Urgency, int, error) {
	due, err := time.ParseInLocation("2006/01/02", dueDate, today.Location())
	if err != nil {
		return UrgencyNone, 0, err
	}
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	days := int(due.Sub(t).Hours() / 24)

	switch {
	case days < 0:
		return UrgencyOverdue, days, nil
	case days == 0:
		return UrgencyDueToday, days, nil
	case days <= 3:
		return UrgencyUrgent, days, nil
	case days <= 7:
		return UrgencyWarning, days, nil
	default:
		return UrgencyNone, days, nil
	}
}
