package access

import (
	"fmt"
	"regexp"
	"time"
)

var reTimeOfDay = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9]):([0-5][0-9])$`)

// IsValidTimeFormat reports whether s is a zero-padded HH:mm:ss time-of-day
// string.
func IsValidTimeFormat(s string) bool {
	return reTimeOfDay.MatchString(s)
}

// CurrentTimeIn returns the current wall-clock time in the given IANA
// timezone as HH:mm:ss.
func CurrentTimeIn(timezone string) (string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc).Format("15:04:05"), nil
}

// IsWithinRange reports whether the current wall-clock time in the given IANA
// timezone falls inside [start, end]. An absent bound means no restriction.
// Ranges where start > end wrap overnight (e.g. 22:00:00 to 06:00:00).
func IsWithinRange(timezone string, start, end *string) (bool, error) {
	return isWithinRangeAt(time.Now(), timezone, start, end)
}

func isWithinRangeAt(now time.Time, timezone string, start, end *string) (bool, error) {
	if start == nil || end == nil || *start == "" || *end == "" {
		// No time restriction
		return true, nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return false, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}

	// Zero-padded HH:mm:ss strings compare correctly byte-wise.
	current := now.In(loc).Format("15:04:05")

	if *start > *end {
		// Overnight range wrapping midnight
		return current >= *start || current <= *end, nil
	}

	// Normal same-day range. Note that start == end is a closed
	// single-instant range, not a 24h one; callers should avoid creating
	// such grants.
	return current >= *start && current <= *end, nil
}
