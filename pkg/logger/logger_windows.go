//go:build windows

package logger

import (
	"fmt"

	"golang.org/x/sys/windows/svc/eventlog"
)

// Event IDs for Windows Event Log entries.
const (
	EventIDInfo    uint32 = 1
	EventIDWarning uint32 = 2
	EventIDError   uint32 = 3
)

// EventLogWriter is the subset of *eventlog.Log used by EventLogger.
type EventLogWriter interface {
	Info(eid uint32, msg string) error
	Warning(eid uint32, msg string) error
	Error(eid uint32, msg string) error
	Close() error
}

// EventLogger writes log messages to the Windows Event Log.
type EventLogger struct {
	w EventLogWriter
}

// NewEventLogger opens the event source sourceName, registering it first
// when it does not exist yet.
func NewEventLogger(sourceName string) (*EventLogger, error) {
	elog, err := eventlog.Open(sourceName)
	if err != nil {
		if instErr := eventlog.InstallAsEventCreate(sourceName, eventlog.Error|eventlog.Warning|eventlog.Info); instErr != nil {
			return nil, fmt.Errorf("failed to open event log: %w", err)
		}
		elog, err = eventlog.Open(sourceName)
		if err != nil {
			return nil, fmt.Errorf("failed to open event log: %w", err)
		}
	}
	return &EventLogger{w: elog}, nil
}

// NewEventLoggerWithWriter wraps an existing writer.
func NewEventLoggerWithWriter(w EventLogWriter) *EventLogger {
	return &EventLogger{w: w}
}

func (e *EventLogger) Info(format string, args ...interface{}) {
	_ = e.w.Info(EventIDInfo, fmt.Sprintf(format, args...))
}

func (e *EventLogger) Warning(format string, args ...interface{}) {
	_ = e.w.Warning(EventIDWarning, fmt.Sprintf(format, args...))
}

func (e *EventLogger) Error(format string, args ...interface{}) {
	_ = e.w.Error(EventIDError, fmt.Sprintf(format, args...))
}

// Close releases the event log handle.
func (e *EventLogger) Close() error {
	if e.w != nil {
		return e.w.Close()
	}
	return nil
}

var _ Logger = (*EventLogger)(nil)
