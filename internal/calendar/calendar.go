// Package calendar holds the whole-day date rules used by pay periods and
// budget entries. Every value returned by this package is a calendar day:
// 00:00:00 in UTC.
package calendar

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DayLayout is the wire format for calendar days.
const DayLayout = "2006-01-02"

// ErrInvalidDate is returned when a string cannot be read as a calendar day.
var ErrInvalidDate = errors.New("invalid calendar date")

// Day truncates t to midnight UTC of its UTC calendar day.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay reads either YYYY-MM-DD or an RFC3339 timestamp. Timestamps are
// converted to UTC before the time of day is dropped.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse(DayLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Day(t), nil
}

// Format renders a calendar day as YYYY-MM-DD.
func Format(t time.Time) string {
	return Day(t).Format(DayLayout)
}

// NextPeriodStart returns the payday that follows lastStart.
//
// A start on or before the 15th is followed by the last day of the same
// month; a later start is followed by the 15th of the next month. The target
// is then moved by AdjustPayday.
func NextPeriodStart(lastStart time.Time) time.Time {
	d := Day(lastStart)

	var target time.Time
	if d.Day() <= 15 {
		// day 0 of the following month is the last day of this one
		target = time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	} else {
		target = time.Date(d.Year(), d.Month()+1, 15, 0, 0, 0, 0, time.UTC)
	}

	return AdjustPayday(target)
}

// AdjustPayday applies the payroll weekend rule: Saturday and Sunday pay on
// the Friday before, Monday pays on the Saturday before. The result may land
// in the previous month.
func AdjustPayday(t time.Time) time.Time {
	d := Day(t)
	switch d.Weekday() {
	case time.Sunday:
		return d.AddDate(0, 0, -2)
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Monday:
		return d.AddDate(0, 0, -2)
	}
	return d
}

// AddMonthClamped moves t forward one calendar month, keeping the day of
// month unless the target month is shorter, in which case its last day is used.
func AddMonthClamped(t time.Time) time.Time {
	d := Day(t)
	lastOfNext := time.Date(d.Year(), d.Month()+2, 0, 0, 0, 0, 0, time.UTC).Day()
	day := d.Day()
	if day > lastOfNext {
		day = lastOfNext
	}
	return time.Date(d.Year(), d.Month()+1, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of days from from to to, rounded up.
// Negative spans yield negative values.
func DaysBetween(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}
