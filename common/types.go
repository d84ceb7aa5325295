package common

import (
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

type InputTaskId struct {
	TaskId string `json:"task_id"`
}

type AddParams struct {
	Text       string     `json:"text"`
	Priority   string     `json:"priority,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	Recurrence string     `json:"recurrence,omitempty"`
}

// EditParams changes only the fields that are set.
type EditParams struct {
	TaskId       string     `json:"task_id"`
	Text         *string    `json:"text,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
	AlarmEnabled *bool      `json:"alarm_enabled,omitempty"`
	Recurrence   *string    `json:"recurrence,omitempty"`
}

type TaskResponse struct {
	Task tasklib.Task `json:"task"`
}

type ListParams struct {
	ShowCompleted bool   `json:"show_completed"`
	ShowPending   bool   `json:"show_pending"`
	Priority      string `json:"priority,omitempty"`
}

type ListResponse struct {
	Tasks   []tasklib.Task `json:"tasks"`
	Ringing string         `json:"ringing,omitempty"`
}

type AckParams struct {
	// Action is "dismiss" or "complete".
	Action string `json:"action"`
}

type StatusResponse struct {
	Now      time.Time        `json:"now"`
	Window   string           `json:"window"`
	Version  uint64           `json:"version"`
	Ringing  *tasklib.Task    `json:"ringing,omitempty"`
	Next     *tasklib.Task    `json:"next,omitempty"`
	Armed    int              `json:"armed"`
	Session  *tasklib.Profile `json:"session,omitempty"`
	Watchers int              `json:"watchers"`
}

type LoginParams struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Birthday string `json:"birthday,omitempty"`
}

type SessionResponse struct {
	Profile *tasklib.Profile `json:"profile,omitempty"`
}

type VersionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"build_type,omitempty"`
}

type EmptyResponse struct{}

// TasksChanged is pushed to watchers after every committed change.
type TasksChanged struct {
	Version uint64 `json:"version"`
	Ringing string `json:"ringing,omitempty"`
}
