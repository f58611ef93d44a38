package recurring

import (
	"fmt"
	"time"

	"quatro-backend/pkg/dateutil"
	"quatro-backend/pkg/errutil"
)

// Applies decides whether a recurrence rule fires at the given instant,
// relative to the anchor task's scheduled start. It is pure: no clock, no
// store. Malformed configs return an error so callers can tell a data
// problem apart from a correctly evaluated false.
func Applies(cfg *RecurringConfig, anchor, now time.Time) (bool, error) {
	if cfg.Unit == "" {
		return false, errutil.DataIntegrity("recurring config has no unit")
	}
	if cfg.Amount < 1 {
		return false, errutil.DataIntegrity(fmt.Sprintf("recurring config amount must be >= 1, got %d", cfg.Amount))
	}

	switch cfg.Unit {
	case UnitDay:
		dayDifference := dateutil.DiffCalendarDays(anchor, now)
		return dayDifference%cfg.Amount == 0, nil

	case UnitWeek:
		weekdays := cfg.ActiveWeekdays.Data()
		if !weekdays.Any() {
			return false, errutil.DataIntegrity("weekly recurrence has no active weekdays")
		}
		weekDifference := dateutil.DiffCalendarWeeks(anchor, now)
		if weekDifference%cfg.Amount != 0 {
			return false, nil
		}
		return weekdays.Enabled(now.Weekday()), nil

	case UnitMonth:
		monthDifference := dateutil.DiffCalendarMonths(anchor, now)
		if monthDifference%cfg.Amount != 0 {
			return false, nil
		}
		// Project the anchor into the current month, clamped to its last
		// valid day, so a Jan-31 rule fires on Feb-28/29.
		projected := dateutil.AddMonthsClamped(anchor, monthDifference)
		if now.Day() != projected.Day() {
			return false, nil
		}
		// Only fire once the anchor's time of day has passed.
		return now.After(projected), nil

	default:
		return false, errutil.RuleEvaluation(fmt.Sprintf("unknown recurrence unit %q", cfg.Unit))
	}
}
