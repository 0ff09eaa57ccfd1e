package app

import (
	"fmt"
	"time"
)

var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
}

// parseTime reads a time given on the command line. Values without an offset
// are interpreted in loc and a bare clock time refers to today.
func parseTime(value string, now time.Time, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			today := now.In(loc)
			return time.Date(today.Year(), today.Month(), today.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC 3339, YYYY-MM-DD [HH:MM[:SS]] or HH:MM[:SS]", value)
}

// optionalTime returns the zero time for an empty value.
func optionalTime(value string, now time.Time, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return parseTime(value, now, loc)
}
