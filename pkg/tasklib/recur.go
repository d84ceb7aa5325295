package tasklib

import (
	"errors"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
)

var ErrInvalidRecurrence = errors.New("invalid recurrence expression")

// ValidateRecurrence checks that expr is a valid cron expression.
// The empty string means "does not recur" and is valid.
func ValidateRecurrence(expr string) error {
	if expr == "" {
		return nil
	}
	if !gronx.New().IsValid(expr) {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrence, expr)
	}
	return nil
}

// NextOccurrence returns the first tick of expr strictly after the later of
// now and the task's current due date.
func NextOccurrence(expr string, due *time.Time, now time.Time) (time.Time, error) {
	ref := now
	if due != nil && due.After(ref) {
		ref = *due
	}
	next, err := gronx.NextTickAfter(expr, ref, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}
	return next, nil
}

// NextInstance builds the follow-up of a completed recurring task: same text,
// priority and recurrence, armed for the next occurrence.
func NextInstance(t Task, now time.Time) (Task, error) {
	if t.Recurrence == "" {
		return Task{}, fmt.Errorf("task %s does not recur", t.ID)
	}
	next, err := NextOccurrence(t.Recurrence, t.DueDate, now)
	if err != nil {
		return Task{}, err
	}
	return NewTask(NewTaskOpts{
		Text:       t.Text,
		Priority:   t.Priority,
		DueDate:    &next,
		Recurrence: t.Recurrence,
	}, now)
}
