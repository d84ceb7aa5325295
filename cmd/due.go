package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var errBadDueDate = errors.New("unrecognised due date")

var dueLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// parseDue reads a due date in local time. It accepts RFC 3339, the
// layouts in dueLayouts, a bare "15:04" meaning the next such time of day,
// and "+<duration>" relative to now. An empty string yields nil.
func parseDue(s string, now time.Time) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "+") {
		d, err := time.ParseDuration(s[1:])
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %q", errBadDueDate, s)
		}
		due := now.Add(d).Truncate(time.Second)
		return &due, nil
	}
	if due, err := time.Parse(time.RFC3339, s); err == nil {
		return &due, nil
	}
	for _, layout := range dueLayouts {
		if due, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return &due, nil
		}
	}
	if clock, err := time.ParseInLocation("15:04", s, now.Location()); err == nil {
		y, m, d := now.Date()
		due := time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, now.Location())
		if !due.After(now) {
			due = due.AddDate(0, 0, 1)
		}
		return &due, nil
	}
	return nil, fmt.Errorf("%w: %q", errBadDueDate, s)
}

// formatDue renders a due date for tables, omitting the date when it is
// today.
func formatDue(due *time.Time, now time.Time) string {
	if due == nil {
		return "-"
	}
	d := due.In(now.Location())
	y1, m1, d1 := d.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return d.Format("15:04")
	}
	return d.Format("2006-01-02 15:04")
}
