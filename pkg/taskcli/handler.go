package taskcli

import (
	"encoding/json"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/ringer"
)

// Handler processes a push from the daemon.
type Handler interface {
	Handle(json.RawMessage) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(json.RawMessage) error

func (f HandlerFunc) Handle(m json.RawMessage) error { return f(m) }

// NewAlarmFiredHandler decodes alarm.fired pushes.
func NewAlarmFiredHandler(callback func(*ringer.FiredEvent) error) Handler {
	return HandlerFunc(func(m json.RawMessage) error {
		var v ringer.FiredEvent
		if err := json.Unmarshal(m, &v); err != nil {
			return err
		}
		return callback(&v)
	})
}

// NewAlarmSilencedHandler handles alarm.silenced pushes, which carry no data.
func NewAlarmSilencedHandler(callback func() error) Handler {
	return HandlerFunc(func(json.RawMessage) error {
		return callback()
	})
}

// NewTasksChangedHandler decodes tasks.changed pushes.
func NewTasksChangedHandler(callback func(*common.TasksChanged) error) Handler {
	return HandlerFunc(func(m json.RawMessage) error {
		var v common.TasksChanged
		if err := json.Unmarshal(m, &v); err != nil {
			return err
		}
		return callback(&v)
	})
}

// NewNotificationHandler decodes notification.show pushes.
func NewNotificationHandler(callback func(*ringer.Notification) error) Handler {
	return HandlerFunc(func(m json.RawMessage) error {
		var v ringer.Notification
		if err := json.Unmarshal(m, &v); err != nil {
			return err
		}
		return callback(&v)
	})
}
