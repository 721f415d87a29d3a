package bill

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrBadAmount is returned when no digits can be extracted from an amount.
var ErrBadAmount = fmt.Errorf("amount contains no digits")

// NormalizeAmount reduces any formatted amount ("NT$ 12,345", "12345元",
// "12,345") to a canonical currency-prefixed, thousands-grouped string.
func NormalizeAmount(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return "", ErrBadAmount
	}
	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return "", fmt.Errorf("amount out of range: %w", err)
	}
	return "NT$" + groupThousands(n), nil
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
