package bill

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Statements mix Gregorian dates with the Republic of China civil calendar,
// whose year is offset from the Gregorian year by 1911 (ROC year 114 = 2025).
const rocYearOffset = 1911

// referenceYear is assumed for dates that carry no year at all ("08/21").
// It is a fixed constant rather than the current year so that normalization
// stays deterministic.
const referenceYear = 2025

var (
	reDateFull = regexp.MustCompile(`^(\d{4})[/.-](\d{1,2})[/.-](\d{1,2})$`)
	reDateROC  = regexp.MustCompile(`^(\d{1,3})[/.-](\d{1,2})[/.-](\d{1,2})$`)
	reDateMD   = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})$`)

	// Embedded forms, tried when the whole string is not a date by itself.
	// The non-digit guards keep the scan from biting into the middle of a
	// longer run of digits.
	reScanTriple = regexp.MustCompile(`(?:^|[^\d])(\d{1,4})[/.-](\d{1,2})[/.-](\d{1,2})(?:[^\d]|$)`)
	reScanPair   = regexp.MustCompile(`(?:^|[^\d])(\d{1,2})[/.-](\d{1,2})(?:[^\d]|$)`)
)

// NormalizeDate converts a locale-ambiguous date string into canonical
// YYYY/MM/DD. ROC-calendar years are converted to Gregorian, year-less
// month/day pairs get the fixed reference year, and already-Gregorian
// dates are re-padded. Input that matches no known shape is returned
// unmodified with ok=true: a malformed date degrades to passthrough,
// never to an error. The literals "null"/"none" and the empty string
// mean "no date" and return ok=false.
func NormalizeDate(raw string) (normalized string, ok bool) {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "null", "none":
		return "", false
	}

	if d, matched := normalizeTriple(s); matched {
		return d, true
	}
	if m := reDateMD.FindStringSubmatch(s); m != nil {
		if d, valid := formatDate(referenceYear, atoi(m[1]), atoi(m[2])); valid {
			return d, true
		}
	}

	// Fallback: extract the first plausible date embedded in a longer string.
	if m := reScanTriple.FindStringSubmatch(s); m != nil {
		if d, matched := normalizeTriple(strings.Join(m[1:], "/")); matched {
			return d, true
		}
	}
	if m := reScanPair.FindStringSubmatch(s); m != nil {
		if d, valid := formatDate(referenceYear, atoi(m[1]), atoi(m[2])); valid {
			return d, true
		}
	}

	return raw, true
}

// normalizeTriple handles full Y/M/D shapes, in either calendar.
func normalizeTriple(s string) (string, bool) {
	if m := reDateFull.FindStringSubmatch(s); m != nil {
		if d, valid := formatDate(atoi(m[1]), atoi(m[2]), atoi(m[3])); valid {
			return d, true
		}
		return "", false
	}
	if m := reDateROC.FindStringSubmatch(s); m != nil {
		year := atoi(m[1])
		if year < 1 || year > 200 {
			return "", false
		}
		if d, valid := formatDate(year+rocYearOffset, atoi(m[2]), atoi(m[3])); valid {
			return d, true
		}
	}
	return "", false
}

func formatDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d/%02d/%02d", year, month, day), true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
