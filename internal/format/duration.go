// Package format renders video metadata for display.
//
// This package enables tubeshelf to:
// - Parse ISO-8601 durations returned by the YouTube Data API
// - Render durations, counters and publish dates the way video cards show them
package format

import (
	"fmt"
	"regexp"
	"strconv"
)

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseDuration converts an ISO-8601 duration such as "PT1H2M3S" to seconds.
// Every component is optional. Input that does not match returns 0.
func ParseDuration(iso string) int {
	m := isoDuration.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	days := atoi(m[1])
	hours := atoi(m[2])
	minutes := atoi(m[3])
	seconds := atoi(m[4])
	return days*86400 + hours*3600 + minutes*60 + seconds
}

// FormatDuration renders an ISO-8601 duration as "H:MM:SS" or "M:SS".
func FormatDuration(iso string) string {
	return FormatSeconds(ParseDuration(iso))
}

// FormatSeconds renders a second count as "H:MM:SS" when it spans an hour,
// otherwise "M:SS".
func FormatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
