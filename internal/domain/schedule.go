package domain

import (
	"fmt"
	"time"
)

// CivilDate truncates a timestamp to a pure calendar date at UTC midnight.
// All deadline arithmetic works on civil dates so that the timezone of the
// original timestamp never shifts a due date.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DueDate computes a deadline as the anchor date plus a signed day offset
func DueDate(anchor time.Time, offsetDays int) time.Time {
	return CivilDate(anchor).AddDate(0, 0, offsetDays)
}

// DaysBetween returns the signed calendar-day difference from a to b
func DaysBetween(a, b time.Time) int {
	return int(CivilDate(b).Sub(CivilDate(a)).Hours() / 24)
}

// DaysRemaining returns how many calendar days remain until due: negative
// when overdue, zero when due today
func DaysRemaining(due, now time.Time) int {
	return DaysBetween(now, due)
}

// ScheduleStatus maps a days-remaining value and a completion flag to the
// status label shown for deadlines. Every deadline in the system (artifact
// or stage) goes through this one mapping.
func ScheduleStatus(daysRemaining int, done bool) string {
	switch {
	case done:
		return "Completed"
	case daysRemaining < 0:
		return fmt.Sprintf("Overdue by %s", pluralDays(-daysRemaining))
	case daysRemaining == 0:
		return "Due today"
	case daysRemaining <= 3:
		return fmt.Sprintf("Due soon (%s)", pluralDays(daysRemaining))
	default:
		return fmt.Sprintf("%s remaining", pluralDays(daysRemaining))
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
