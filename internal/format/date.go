package format

import (
	"fmt"
	"time"
)

// FormatRelative renders how long ago t was, counted in whole elapsed days,
// the way video cards label publish dates.
func FormatRelative(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff.Hours() / 24)

	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return pluralize(days/7, "week")
	case days < 365:
		return pluralize(days/30, "month")
	default:
		return pluralize(days/365, "year")
	}
}

// pluralize returns "N unit ago" or "N units ago" based on count.
func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
