// Package dateutil provides the calendar arithmetic behind recurrence
// evaluation: calendar-boundary differences, month projection with day
// clamping, and time-of-day re-anchoring.
package dateutil

import (
	"math"
	"time"

	"github.com/jinzhu/now"
)

// weeks start on Monday for recurrence purposes
var weekConfig = &now.Config{WeekStartDay: time.Monday}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return now.With(t).BeginningOfDay()
}

// DiffCalendarDays counts midnight boundaries crossed between from and to.
// Unlike a 24h modulo this is insensitive to the time of day of either
// argument, and rounding absorbs DST shifts.
func DiffCalendarDays(from, to time.Time) int {
	a := now.With(from).BeginningOfDay()
	b := now.With(to).BeginningOfDay()
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// DiffCalendarWeeks counts Monday boundaries crossed between from and to.
func DiffCalendarWeeks(from, to time.Time) int {
	a := weekConfig.With(from).BeginningOfWeek()
	b := weekConfig.With(to).BeginningOfWeek()
	return DiffCalendarDays(a, b) / 7
}

// DiffCalendarMonths counts month boundaries crossed between from and to,
// ignoring the day component entirely.
func DiffCalendarMonths(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// AddMonthsClamped projects t the given number of months forward, clamping
// the day to the target month's last valid day instead of overflowing the
// way time.Time.AddDate does. A Jan-31 anchor projects to Feb-28 (or 29),
// never Mar-3. Time of day is preserved.
func AddMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()).
		AddDate(0, months, 0)
	day := t.Day()
	if last := daysInMonth(firstOfTarget); day > last {
		day = last
	}
	return firstOfTarget.AddDate(0, 0, day-1)
}

func daysInMonth(t time.Time) int {
	return now.With(t).EndOfMonth().Day()
}

// SameCalendarDay reports whether a and b fall on the same calendar date.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Reanchor moves anchor's time of day onto date's calendar date. The result
// keeps anchor's location, so crossing a year boundary leaves the wall-clock
// time untouched.
func Reanchor(anchor, date time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		anchor.Hour(), anchor.Minute(), anchor.Second(), anchor.Nanosecond(),
		anchor.Location(),
	)
}
