package bill

import (
	"testing"
	"time"
)

func TestClassifyUrgency(t *testing.T) {
	today := time.Date(2025, 9, 10, 15, 15, 0, 0, time.UTC)

	tests := []struct {
		dueDate  string
		want     Urgency
		wantDays int
	}{
		{"2025/09/09", UrgencyOverdue, -1},
		{"2025/09/10", UrgencyDueToday, 0},
		{"2025/09/11", UrgencyUrgent, 1},
		{"2025/09/13", UrgencyUrgent, 3},
		{"2025/09/14", UrgencyWarning, 4},
		{"2025/09/17", UrgencyWarning, 7},
		{"2025/09/18", UrgencyNone, 8},
		{"2025/08/01", UrgencyOverdue, -40},
	}
	for _, tt := range tests {
		got, days, err := ClassifyUrgency(tt.dueDate, today)
		if err != nil {
			t.Fatalf("ClassifyUrgency(%q) error: %v", tt.dueDate, err)
		}
		if got != tt.want || days != tt.wantDays {
			t.Errorf("ClassifyUrgency(%q) = %v, %d; want %v, %d", tt.dueDate, got, days, tt.want, tt.wantDays)
		}
	}
}

func TestClassifyUrgencyBadDate(t *testing.T) {
	today := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	if _, _, err := ClassifyUrgency("下個月再說", today); err == nil {
		t.Error("ClassifyUrgency(non-date) expected an error")
	}
}
