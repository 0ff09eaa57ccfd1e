package entry

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/klokku/timetrack/internal/utils"
)

type RangeUnit int

const (
	Entries RangeUnit = iota
	Hours
	Days
	Months
)

// Range selects the most recent part of the log, either as a number of
// entries or as a span of time reaching back from now.
type Range struct {
	Count int
	Unit  RangeUnit
}

// ParseRange accepts "N" (entries), "Nh", "Nd" and "Nm", with the long forms
// hour(s), day(s) and month(s) as well. The number may be omitted for the
// time units and then means 0, i.e. the current hour, day or month.
func ParseRange(value string) (Range, error) {
	value = strings.TrimSpace(value)
	digits := 0
	for digits < len(value) && value[digits] >= '0' && value[digits] <= '9' {
		digits++
	}
	count := 0
	if digits > 0 {
		n, err := strconv.Atoi(value[:digits])
		if err != nil {
			return Range{}, fmt.Errorf("invalid number %q: %w", value[:digits], err)
		}
		count = n
	}

	switch strings.ToLower(value[digits:]) {
	case "":
		if count == 0 {
			return Range{}, fmt.Errorf("cannot show 0 individual entries")
		}
		return Range{Count: count, Unit: Entries}, nil
	case "h", "hour", "hours":
		return Range{Count: count, Unit: Hours}, nil
	case "d", "day", "days":
		return Range{Count: count, Unit: Days}, nil
	case "m", "month", "months":
		return Range{Count: count, Unit: Months}, nil
	default:
		return Range{}, fmt.Errorf("invalid postfix '%s'", value[digits:])
	}
}

// Since returns the earliest timestamp inside a time based range. Days and
// months are aligned to their start in loc, so "0d" is today and "1m" is the
// previous and the current month. Entry ranges have no time bound.
func (r Range) Since(now time.Time, loc *time.Location) time.Time {
	switch r.Unit {
	case Hours:
		return now.Add(-time.Duration(r.Count) * time.Hour)
	case Days:
		return utils.StartOfDay(now, loc).AddDate(0, 0, -r.Count)
	case Months:
		return utils.StartOfMonth(now, loc).AddDate(0, -r.Count, 0)
	}
	return time.Time{}
}

// Select returns the entries of a chronologically ordered slice that fall
// into the range.
func (r Range) Select(entries []Entry, now time.Time, loc *time.Location) []Entry {
	if r.Unit == Entries {
		if len(entries) <= r.Count {
			return entries
		}
		return entries[len(entries)-r.Count:]
	}
	since := r.Since(now, loc)
	for i, e := range entries {
		if !e.Timestamp().Before(since) {
			return entries[i:]
		}
	}
	return nil
}

func (r Range) String() string {
	switch r.Unit {
	case Hours:
		return fmt.Sprintf("%dh", r.Count)
	case Days:
		return fmt.Sprintf("%dd", r.Count)
	case Months:
		return fmt.Sprintf("%dm", r.Count)
	}
	return strconv.Itoa(r.Count)
}
