// Package tasklib holds the task and profile model of taskpro together with
// the storage backends that persist them.
package tasklib

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority is the user-assigned importance of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var (
	ErrEmptyText       = errors.New("task text is empty")
	ErrInvalidPriority = errors.New("invalid priority")
)

// ParsePriority converts user input into a Priority.
// An empty string yields PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
}

// ParsePriorityFilter parses the priority a listing is narrowed to. An empty
// string yields "", which matches every task.
func ParsePriorityFilter(s string) (Priority, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	return ParsePriority(s)
}

// Task is a single to-do entry.
//
// Tasks are treated as values: every mutation produces a new Task and the
// owning collection is replaced rather than edited in place. NextID links a
// completed recurring task to the follow-up it spawned.
type Task struct {
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	Priority     Priority   `json:"priority"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Completed    bool       `json:"completed"`
	Notified     bool       `json:"notified"`
	AlarmEnabled bool       `json:"alarm_enabled"`
	Recurrence   string     `json:"recurrence,omitempty"`
	NextID       string     `json:"next_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewTaskOpts are the inputs accepted when creating a task.
type NewTaskOpts struct {
	Text       string
	Priority   Priority
	DueDate    *time.Time
	Recurrence string
}

// NewTask builds a task with a fresh ID. The alarm is enabled exactly when a
// due date is supplied.
func NewTask(opts NewTaskOpts, now time.Time) (Task, error) {
	text := strings.TrimSpace(opts.Text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	prio, err := ParsePriority(string(opts.Priority))
	if err != nil {
		return Task{}, err
	}
	if err := ValidateRecurrence(opts.Recurrence); err != nil {
		return Task{}, err
	}
	return Task{
		ID:           uuid.NewString(),
		Text:         text,
		Priority:     prio,
		DueDate:      CopyTime(opts.DueDate),
		AlarmEnabled: opts.DueDate != nil,
		Recurrence:   opts.Recurrence,
		CreatedAt:    now,
	}, nil
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	t.DueDate = CopyTime(t.DueDate)
	return t
}

// IsOverdue reports whether the task is pending and past its due date.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && now.After(*t.DueDate)
}

// MatchesPriority reports whether t passes the filter p.
func (t Task) MatchesPriority(p Priority) bool {
	return p == "" || t.Priority == p
}

// CopyTime returns a pointer to a copy of *p, or nil.
func CopyTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// SameDueDate reports whether a and b denote the same instant, treating two
// nil values as equal.
func SameDueDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// IndexOf returns the position of the task with the given id, or -1.
func IndexOf(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// CloneTasks deep-copies a task slice.
func CloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i := range tasks {
		out[i] = tasks[i].Clone()
	}
	return out
}
