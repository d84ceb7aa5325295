package ringer

import (
	"fmt"
	"sync"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

// Permission mirrors the desktop notification permission of the UI host.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// ParsePermission accepts "granted", "denied" and "default". Empty means
// default.
func ParsePermission(s string) (Permission, error) {
	switch Permission(s) {
	case "", PermissionDefault:
		return PermissionDefault, nil
	case PermissionGranted, PermissionDenied:
		return Permission(s), nil
	}
	return "", fmt.Errorf("invalid notification permission %q", s)
}

// Push method names sent to connected clients.
const (
	MethodAlarmFired       = "alarm.fired"
	MethodAlarmSilenced    = "alarm.silenced"
	MethodTasksChanged     = "tasks.changed"
	MethodNotificationShow = "notification.show"
)

// NotificationTitle is the title of every alarm notification.
const NotificationTitle = "⏰ Task Master Alarm!"

// Broadcaster sends a push to every connected client.
type Broadcaster interface {
	Broadcast(method string, params any)
}

// Broadcasters fans a push out to several transports.
type Broadcasters []Broadcaster

func (bs Broadcasters) Broadcast(method string, params any) {
	for _, b := range bs {
		if b != nil {
			b.Broadcast(method, params)
		}
	}
}

// Notification asks the UI host to show a desktop notification.
type Notification struct {
	Title              string     `json:"title"`
	Body               string     `json:"body"`
	TaskID             string     `json:"taskId"`
	DueDate            *time.Time `json:"dueDate,omitempty"`
	RequireInteraction bool       `json:"requireInteraction"`
}

// Notifier pushes a notification for a firing task when permission has been
// granted.
type Notifier struct {
	out  Broadcaster
	mu   sync.RWMutex
	perm Permission
}

func NewNotifier(out Broadcaster, perm Permission) *Notifier {
	if perm == "" {
		perm = PermissionDefault
	}
	return &Notifier{out: out, perm: perm}
}

func (n *Notifier) SetPermission(p Permission) {
	n.mu.Lock()
	n.perm = p
	n.mu.Unlock()
}

func (n *Notifier) Permission() Permission {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.perm
}

// Notify reports whether a notification was sent.
func (n *Notifier) Notify(t tasklib.Task) bool {
	if n.Permission() != PermissionGranted || n.out == nil {
		return false
	}
	n.out.Broadcast(MethodNotificationShow, Notification{
		Title:              NotificationTitle,
		Body:               t.Text,
		TaskID:             t.ID,
		DueDate:            tasklib.CopyTime(t.DueDate),
		RequireInteraction: true,
	})
	return true
}
