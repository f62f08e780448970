package format

import (
	"strconv"
	"strings"
)

// FormatNumber abbreviates view and like counters: 1500 -> "1.5K",
// 2500000 -> "2.5M". Values under a thousand are printed as is.
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	case n <= 0:
		return "0"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// ParseFormattedNumber reverses FormatNumber, losing the truncated precision.
// It accepts plain integers too. Unparseable input returns 0.
func ParseFormattedNumber(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "M"):
		mult = 1_000_000
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "K"):
		mult = 1_000
		s = strings.TrimSuffix(s, "K")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(f*mult + 0.5)
}
