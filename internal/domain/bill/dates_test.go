package bill

import "testing"

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   string
		wantOK bool
	}{
		{name: "roc triple", raw: "114/09/24", want: "2025/09/24", wantOK: true},
		{name: "roc triple single digit", raw: "114/9/2", want: "2025/09/02", wantOK: true},
		{name: "gregorian triple", raw: "2025/09/24", want: "2025/09/24", wantOK: true},
		{name: "gregorian needs padding", raw: "2025/9/1", want: "2025/09/01", wantOK: true},
		{name: "dotted separators", raw: "114.09.24", want: "2025/09/24", wantOK: true},
		{name: "dashed separators", raw: "2025-09-24", want: "2025/09/24", wantOK: true},
		{name: "month day only", raw: "08/21", want: "2025/08/21", wantOK: true},
		{name: "month day single digit", raw: "8/5", want: "2025/08/05", wantOK: true},
		{name: "embedded in sentence", raw: "繳費期限 114/09/24 前", want: "2025/09/24", wantOK: true},
		{name: "whitespace trimmed", raw: "  114/09/24  ", want: "2025/09/24", wantOK: true},
		{name: "empty means no date", raw: "", want: "", wantOK: false},
		{name: "null means no date", raw: "null", want: "", wantOK: false},
		{name: "none means no date", raw: "None", want: "", wantOK: false},
		{name: "free text passes through", raw: "下個月再說", want: "下個月再說", wantOK: true},
		{name: "impossible month passes through", raw: "2025/13/01", want: "2025/13/01", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeDate(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeDate(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeDateROCYearBounds(t *testing.T) {
	// Year 0 is outside the accepted civil-calendar range and the leftover
	// pair "0/09" has no valid month, so the input passes through untouched.
	got, ok := NormalizeDate("0/09/24")
	if !ok || got != "0/09/24" {
		t.Errorf("NormalizeDate(%q) = %q, %v; want passthrough", "0/09/24", got, ok)
	}

	// Year 201 is rejected as a civil-calendar year, but the embedded scan
	// still salvages the month/day tail.
	got, ok = NormalizeDate("201/09/24")
	if !ok || got != "2025/09/24" {
		t.Errorf("NormalizeDate(%q) = %q, %v; want %q", "201/09/24", got, ok, "2025/09/24")
	}
}
