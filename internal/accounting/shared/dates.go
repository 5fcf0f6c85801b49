package shared

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// NormalizeDate strips the time-of-day, keeping the calendar date in UTC.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a calendar date in DateLayout.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, InvalidInput("date %q must use %s", raw, DateLayout)
	}
	return t, nil
}

// DateRange is an optional inclusive window over entry dates.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// NewDateRange builds a range from optional bounds.
func NewDateRange(from, to *time.Time) DateRange {
	var r DateRange
	if from != nil {
		f := NormalizeDate(*from)
		r.From = &f
	}
	if to != nil {
		t := NormalizeDate(*to)
		r.To = &t
	}
	return r
}

// Inverted reports whether both bounds are set and From is after To.
func (r DateRange) Inverted() bool {
	return r.From != nil && r.To != nil && r.From.After(*r.To)
}

// Unbounded reports whether neither bound is set.
func (r DateRange) Unbounded() bool {
	return r.From == nil && r.To == nil
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	d = NormalizeDate(d)
	if r.From != nil && d.Before(*r.From) {
		return false
	}
	if r.To != nil && d.After(*r.To) {
		return false
	}
	return true
}

// Key renders the range for cache keys.
func (r DateRange) Key() string {
	from, to := "-", "-"
	if r.From != nil {
		from = r.From.Format(DateLayout)
	}
	if r.To != nil {
		to = r.To.Format(DateLayout)
	}
	return fmt.Sprintf("%s..%s", from, to)
}

// ParseDateRange reads optional from/to query values.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	if from != "" {
		f, err := ParseDate(from)
		if err != nil {
			return DateRange{}, err
		}
		r.From = &f
	}
	if to != "" {
		t, err := ParseDate(to)
		if err != nil {
			return DateRange{}, err
		}
		r.To = &t
	}
	return r, nil
}
