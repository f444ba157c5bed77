package util

import (
	"fmt"
	"time"
)

const layout = "2006-01-02"

func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func DateLte(t1, t2 time.Time) bool {
	return t1.Before(t2) || t1.Format(layout) == t2.Format(layout)
}

// ParseDate accepts YYYY-MM-DD or a full RFC3339 timestamp and truncates
// to the UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date %q: expected YYYY-MM-DD", s)
		}
	}
	t = t.UTC()
	return NewDate(t.Year(), int(t.Month()), t.Day()), nil
}

func FormatDate(t time.Time) string {
	return t.Format(layout)
}

// Today is the current UTC calendar day.
func Today() time.Time {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}
