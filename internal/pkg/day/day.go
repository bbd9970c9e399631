// Package day represents calendar days as Rata Die ordinals.
//
// Day 1 is 0001-01-01 in the proleptic Gregorian calendar. Ordinals make day arithmetic and ordering trivial,
// which is what the chart axis computations rely on.
package day

import (
	"fmt"
	"strconv"
	"time"
)

// Day is a Rata Die day number.
type Day int

const (
	unixEpoch    Day = 719163 // 1970-01-01
	secondsInDay     = 24 * 60 * 60
	isoLayout        = "2006-01-02"
	labelLayout      = "2 Jan"
)

// FromTime returns the calendar day of t, in t's location.
func FromTime(t time.Time) Day {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	return unixEpoch + Day(midnight.Unix()/secondsInDay)
}

// FromDate returns the day for a year, month and day of month.
func FromDate(year int, month time.Month, dom int) Day {
	return FromTime(time.Date(year, month, dom, 0, 0, 0, 0, time.UTC))
}

// Today returns the current day in the local time zone.
func Today() Day {
	return FromTime(time.Now())
}

// Parse an ISO date (2006-01-02) or a plain Rata Die number.
func Parse(s string) (Day, error) {
	if t, err := time.Parse(isoLayout, s); err == nil {
		return FromTime(t), nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid day %q: expected YYYY-MM-DD or a positive day number", s)
	}

	return Day(n), nil
}

// Time returns midnight UTC on that day.
func (d Day) Time() time.Time {
	return time.Unix(int64(d-unixEpoch)*secondsInDay, 0).UTC()
}

// Add n days.
func (d Day) Add(n int) Day {
	return d + Day(n)
}

// Sub returns the number of days between other and d.
func (d Day) Sub(other Day) int {
	return int(d - other)
}

// String formats the day as an ISO date.
func (d Day) String() string {
	return d.Time().Format(isoLayout)
}

// Label formats the day the way the chart x-axis shows it, e.g. "13 Dec".
func (d Day) Label() string {
	return d.Time().Format(labelLayout)
}
