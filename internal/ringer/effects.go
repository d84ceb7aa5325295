package ringer

import (
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/alarm"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

// FiredEvent is the payload of an alarm.fired push.
type FiredEvent struct {
	Task tasklib.Task `json:"task"`
}

// Effects wires the sound loop, the notifier and event pushes into the alarm
// scheduler. Any field may be nil.
type Effects struct {
	Alarm    *Alarm
	Notifier *Notifier
	Events   Broadcaster
}

func (e *Effects) OnFire(t tasklib.Task) error {
	if e.Alarm != nil {
		e.Alarm.Start()
	}
	if e.Notifier != nil {
		e.Notifier.Notify(t)
	}
	if e.Events != nil {
		e.Events.Broadcast(MethodAlarmFired, FiredEvent{Task: t})
	}
	return nil
}

func (e *Effects) OnAcknowledge() error {
	if e.Alarm != nil {
		e.Alarm.Stop()
	}
	if e.Events != nil {
		e.Events.Broadcast(MethodAlarmSilenced, struct{}{})
	}
	return nil
}

var _ alarm.Effects = (*Effects)(nil)
