package session

import "time"

// Reporting weeks are anchored on Saturday, the first day of the
// teaching week.

var dayCodes = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// WeekStartSaturday returns the calendar date (YYYY-MM-DD) of the most
// recent Saturday at or before t, in t's location.
func WeekStartSaturday(t time.Time) string {
	daysSince := (int(t.Weekday()) + 1) % 7
	d := t.AddDate(0, 0, -daysSince)
	return d.Format("2006-01-02")
}

// DayCode returns the weekday code (sat..fri) for t.
func DayCode(t time.Time) string {
	return dayCodes[int(t.Weekday())]
}
