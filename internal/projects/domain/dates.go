package domain

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// DateOf returns the calendar date of t as midnight UTC. The year, month and
// day are read in t's own location so that a local "today" keeps its date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return DateOf(t).Format(DateLayout)
}

// DaysUntil returns the signed number of calendar days from today to target.
func DaysUntil(target, today time.Time) int {
	diff := DateOf(target).Sub(DateOf(today))
	return int(math.Ceil(diff.Hours() / day.Hours()))
}

// DelayDays returns how many calendar days today is past the estimated date.
// It is zero when there is no estimate or the estimate has not passed.
func DelayDays(estimated *time.Time, today time.Time) int {
	if estimated == nil {
		return 0
	}
	late := -DaysUntil(*estimated, today)
	if late < 0 {
		return 0
	}
	return late
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := DateOf(*t)
	return &c
}
