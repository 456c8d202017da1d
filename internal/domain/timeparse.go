package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var offsetSuffix = regexp.MustCompile(`([+-]\d{2}:?\d{2}|Z)$`)

var offsetLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z0700",
}

var wallClockLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseInstant reads an ISO-8601 timestamp. Values carrying an offset (or Z)
// keep their absolute instant; values without one are read as wall-clock
// time in loc. The result is UTC, truncated to the microsecond precision
// Postgres stores.
func ParseInstant(raw string, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, Invalid(RuleTimestamp, "timestamp is required")
	}
	if offsetSuffix.MatchString(v) {
		for _, layout := range offsetLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC().Truncate(time.Microsecond), nil
			}
		}
		return time.Time{}, Invalid(RuleTimestamp, fmt.Sprintf("%q is not a valid ISO-8601 timestamp", raw))
	}
	for _, layout := range wallClockLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t.UTC().Truncate(time.Microsecond), nil
		}
	}
	return time.Time{}, Invalid(RuleTimestamp, fmt.Sprintf("%q is not a valid ISO-8601 timestamp", raw))
}

// ResolveLocation loads name, falling back to def when name is empty.
func ResolveLocation(name string, def *time.Location) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return def, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, Invalid(RuleTimezone, fmt.Sprintf("unknown timezone %q", name))
	}
	return loc, nil
}
