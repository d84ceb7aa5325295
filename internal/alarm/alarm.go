// Package alarm implements due-date alarms over a task collection.
//
// The transition functions in this file are pure: they take a snapshot of the
// task collection and return a new one, never modifying their input. The
// Scheduler owns the single ringing slot, and the Poller drives periodic scans
// from one goroutine.
package alarm

import (
	"errors"
	"fmt"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

// DefaultWindow is how long after its due date a task may still fire.
const DefaultWindow = 60 * time.Second

// State is the alarm-relevant projection of a task.
type State string

const (
	StateArmed    State = "armed"
	StateFired    State = "fired"
	StateRinging  State = "ringing"
	StateDisarmed State = "disarmed"
)

// StateOf projects t onto the alarm state machine. ringing is the ID held in
// the ringing slot, or "".
func StateOf(t tasklib.Task, ringing string) State {
	switch {
	case ringing != "" && t.ID == ringing:
		return StateRinging
	case t.Completed || !t.AlarmEnabled || t.DueDate == nil:
		return StateDisarmed
	case t.Notified:
		return StateFired
	default:
		return StateArmed
	}
}

// IsCandidate reports whether t is eligible to fire at all.
func IsCandidate(t tasklib.Task) bool {
	return !t.Completed && !t.Notified && t.DueDate != nil && t.AlarmEnabled
}

// ShouldFire reports whether candidate t fires at now. A due date that passed
// window or more ago is a silent miss.
func ShouldFire(t tasklib.Task, now time.Time, ringing string, window time.Duration) bool {
	if !IsCandidate(t) || t.ID == ringing {
		return false
	}
	late := now.Sub(*t.DueDate)
	return late >= 0 && late < window
}

// ScanResult is the outcome of a single Scan.
type ScanResult struct {
	// Tasks is the input slice itself when nothing fired.
	Tasks   []tasklib.Task
	Ringing string
	// Fired is a copy of the task that fired, already marked notified.
	Fired *tasklib.Task
}

// Changed reports whether the scan produced a new snapshot.
func (r ScanResult) Changed() bool {
	return r.Fired != nil
}

// Scan evaluates every task against now and fires at most one of them.
//
// When several tasks qualify in the same scan, the one with the earliest due
// date fires; equal due dates go to the task that comes first in the
// collection. The rest remain candidates for later scans.
func Scan(now time.Time, tasks []tasklib.Task, ringing string, window time.Duration) ScanResult {
	pick := -1
	for i := range tasks {
		if !ShouldFire(tasks[i], now, ringing, window) {
			continue
		}
		if pick < 0 || tasks[i].DueDate.Before(*tasks[pick].DueDate) {
			pick = i
		}
	}
	if pick < 0 {
		return ScanResult{Tasks: tasks, Ringing: ringing}
	}

	next := tasklib.CloneTasks(tasks)
	next[pick].Notified = true
	fired := next[pick].Clone()
	return ScanResult{
		Tasks:   next,
		Ringing: fired.ID,
		Fired:   &fired,
	}
}

// Action is the user's response to a ringing alarm.
type Action string

const (
	ActionDismiss  Action = "dismiss"
	ActionComplete Action = "complete"
)

var ErrUnknownAction = errors.New("unknown acknowledge action")

// ParseAction validates a user-provided action. The empty string means dismiss.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case "":
		return ActionDismiss, nil
	case ActionDismiss, ActionComplete:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}

// Acknowledge answers the ringing alarm. It always clears the slot; with
// ActionComplete the ringing task is also marked completed. When nothing is
// ringing, or the ringing task no longer exists, tasks is returned as is.
func Acknowledge(tasks []tasklib.Task, ringing string, action Action) ([]tasklib.Task, error) {
	if action != ActionDismiss && action != ActionComplete {
		return tasks, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if ringing == "" || action == ActionDismiss {
		return tasks, nil
	}
	i := tasklib.IndexOf(tasks, ringing)
	if i < 0 || tasks[i].Completed {
		return tasks, nil
	}
	next := tasklib.CloneTasks(tasks)
	next[i].Completed = true
	return next, nil
}

// OnDueDateChanged applies a due-date edit to t. The task is rearmed only
// when the new value differs from the stored one.
func OnDueDateChanged(t tasklib.Task, due *time.Time) tasklib.Task {
	t = t.Clone()
	if tasklib.SameDueDate(t.DueDate, due) {
		return t
	}
	t.DueDate = tasklib.CopyTime(due)
	t.Notified = false
	return t
}

// OnCompletionToggled flips t.Completed. Reopening a task rearms it.
// Clearing the ringing slot when a ringing task is completed is left to the
// caller, which owns the slot.
func OnCompletionToggled(t tasklib.Task) tasklib.Task {
	t = t.Clone()
	t.Completed = !t.Completed
	if !t.Completed {
		t.Notified = false
	}
	return t
}
