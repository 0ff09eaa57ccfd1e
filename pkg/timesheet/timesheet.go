// Package timesheet turns the transition log into timesheet rows.
package timesheet

import (
	"slices"
	"time"

	"github.com/klokku/timetrack/pkg/entry"
)

// CollapsedActivity sums every interval sharing billing code, attendance
// type, description and calendar day. The time of day is irrelevant.
type CollapsedActivity struct {
	BillingCode    string
	AttendanceType string
	Description    string
	Duration       time.Duration
	// FirstStart is the start of the earliest contributing interval.
	FirstStart time.Time
}

// Date returns midnight of the row's day in loc.
func (c CollapsedActivity) Date(loc *time.Location) time.Time {
	year, month, day := c.FirstStart.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// OpenIntervalPolicy decides what happens to an interval that is still
// running when the window closes.
type OpenIntervalPolicy int

const (
	// DropOpenInterval only counts intervals whose end lies inside the window.
	DropOpenInterval OpenIntervalPolicy = iota
	// CreditOpenInterval counts a running interval up to the window end, or
	// up to the bound set with WithCreditUntil when that is earlier.
	CreditOpenInterval
)

type options struct {
	location     *time.Location
	openInterval OpenIntervalPolicy
	creditUntil  time.Time
}

type Option func(*options)

// WithLocation sets the zone deciding which calendar day an interval belongs
// to. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

func WithOpenInterval(policy OpenIntervalPolicy) Option {
	return func(o *options) {
		o.openInterval = policy
	}
}

// WithCreditUntil caps the credited part of a running interval, so time that
// has not passed yet is never counted.
func WithCreditUntil(until time.Time) Option {
	return func(o *options) {
		o.creditUntil = until
	}
}

type groupKey struct {
	billingCode    string
	attendanceType string
	description    string
	year           int
	month          time.Month
	day            int
}

func keyOf(s entry.Start, loc *time.Location) groupKey {
	year, month, day := s.Time.In(loc).Date()
	return groupKey{
		billingCode:    s.BillingCode,
		attendanceType: s.AttendanceType,
		description:    s.Description,
		year:           year,
		month:          month,
		day:            day,
	}
}

// Collapse sums the intervals of the chronologically ordered entries that
// fall into [from, to). An interval runs from a Start to the next entry and
// is attributed to the day it started on. Entries before from are skipped and
// scanning stops at the first entry at or after to. The result is ordered by
// FirstStart.
func Collapse(entries []entry.Entry, from, to time.Time, opts ...Option) []CollapsedActivity {
	o := options{location: time.Local}
	for _, opt := range opts {
		opt(&o)
	}

	groups := map[groupKey]*CollapsedActivity{}
	var order []groupKey
	add := func(previous entry.Start, until time.Time) {
		key := keyOf(previous, o.location)
		group, ok := groups[key]
		if !ok {
			group = &CollapsedActivity{
				BillingCode:    previous.BillingCode,
				AttendanceType: previous.AttendanceType,
				Description:    previous.Description,
				FirstStart:     previous.Time,
			}
			groups[key] = group
			order = append(order, key)
		}
		group.Duration += until.Sub(previous.Time)
	}

	var previous *entry.Start
	for _, current := range entries {
		if current.Timestamp().Before(from) {
			continue
		}
		if !current.Timestamp().Before(to) {
			break
		}
		if previous != nil {
			add(*previous, current.Timestamp())
		}
		if start, ok := current.(entry.Start); ok {
			previous = &start
		} else {
			previous = nil
		}
	}

	if previous != nil && o.openInterval == CreditOpenInterval {
		until := to
		if !o.creditUntil.IsZero() && o.creditUntil.Before(until) {
			until = o.creditUntil
		}
		if until.After(previous.Time) {
			add(*previous, until)
		}
	}

	result := make([]CollapsedActivity, 0, len(groups))
	for _, key := range order {
		result = append(result, *groups[key])
	}
	slices.SortStableFunc(result, func(a, b CollapsedActivity) int {
		return a.FirstStart.Compare(b.FirstStart)
	})
	return result
}
