package server

import (
	"context"
	"errors"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/alarm"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/ringer"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/todo"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

// Custom JSON-RPC error codes.
const (
	codeTaskNotFound  = jrpc2.Code(-32001)
	codeNoSession     = jrpc2.Code(-32002)
	codeInvalidParams = jrpc2.Code(-32602)
	codeInternal      = jrpc2.Code(-32603)
)

const maxWSMessage = 1 << 20

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required; empty rejects every request)
	ListenAll bool   // Bind to 0.0.0.0 instead of 127.0.0.1
	// OriginPatterns lists extra hosts allowed to open a WebSocket,
	// e.g. "localhost:5173" for a UI dev server.
	OriginPatterns []string
	Version        string
	Commit         string
	BuildType      string
}

// RPCServer manages the JSON-RPC 2.0 bridge and method handlers.
type RPCServer struct {
	bridge         jhttp.Bridge
	methods        handler.Map
	secret         string
	originPatterns []string
	version        string
	commit         string
	buildType      string
	manager        *todo.Manager
	notify         *ringer.Notifier
	notifier       *RPCNotifier
	log            logger.Logger
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// TaskItem is the wire form of a task.
type TaskItem struct {
	ID           string     `json:"id"`
	Text         string     `json:"text"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	Completed    bool       `json:"completed"`
	Notified     bool       `json:"notified"`
	AlarmEnabled bool       `json:"alarmEnabled"`
	Recurrence   string     `json:"recurrence,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	State        string     `json:"state"`
	Overdue      bool       `json:"overdue"`
}

// AddParams is the input for task.add.
type AddParams struct {
	Text       string     `json:"text"`
	Priority   string     `json:"priority,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	Recurrence string     `json:"recurrence,omitempty"`
}

// EditParams is the input for task.edit. Absent fields are left unchanged.
type EditParams struct {
	ID           string     `json:"id"`
	Text         *string    `json:"text,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	ClearDueDate bool       `json:"clearDueDate,omitempty"`
	AlarmEnabled *bool      `json:"alarmEnabled,omitempty"`
	Recurrence   *string    `json:"recurrence,omitempty"`
}

// IDParam is a common input with just a task ID.
type IDParam struct {
	ID string `json:"id"`
}

// TaskResult wraps a single task.
type TaskResult struct {
	Task *TaskItem `json:"task"`
}

// ListParams is the input for task.list.
type ListParams struct {
	Status   string `json:"status,omitempty"`   // "pending", "completed", "overdue", "all" (default)
	Priority string `json:"priority,omitempty"` // "low", "medium", "high"; empty matches all
}

// ListResult is the response for task.list.
type ListResult struct {
	Tasks   []*TaskItem `json:"tasks"`
	Ringing string      `json:"ringing,omitempty"`
	Version uint64      `json:"version"`
}

// AlarmStatusResult is the response for alarm.status and alarm.acknowledge.
type AlarmStatusResult struct {
	Ringing *TaskItem `json:"ringing,omitempty"`
	Next    *TaskItem `json:"next,omitempty"`
	Armed   int       `json:"armed"`
	Window  string    `json:"window"`
	Active  bool      `json:"active"`
}

// AckParams is the input for alarm.acknowledge.
type AckParams struct {
	Action string `json:"action,omitempty"` // "dismiss" (default) or "complete"
}

// LoginParams is the input for session.login.
type LoginParams struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Birthday string `json:"birthday,omitempty"`
}

// SessionResult is the response for session.login and session.get.
type SessionResult struct {
	Profile *tasklib.Profile `json:"profile"`
}

// PermissionParams is the input for notification.setPermission.
type PermissionParams struct {
	Permission string `json:"permission"`
}

// PermissionResult echoes the permission in effect.
type PermissionResult struct {
	Permission string `json:"permission"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// NewRPCServer creates a new RPCServer with method handlers and HTTP bridge.
// notifier receives the WebSocket sessions; n may be nil when desktop
// notifications are not wired.
func NewRPCServer(cfg *RPCConfig, m *todo.Manager, n *ringer.Notifier, notifier *RPCNotifier, l logger.Logger) *RPCServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	if notifier == nil {
		notifier = NewRPCNotifier(l)
	}
	rs := &RPCServer{
		secret:         cfg.Secret,
		originPatterns: cfg.OriginPatterns,
		version:        cfg.Version,
		commit:         cfg.Commit,
		buildType:      cfg.BuildType,
		manager:        m,
		notify:         n,
		notifier:       notifier,
		log:            l,
	}

	rs.methods = handler.Map{
		"system.getVersion":          handler.New(rs.systemGetVersion),
		"task.add":                   handler.New(rs.taskAdd),
		"task.edit":                  handler.New(rs.taskEdit),
		"task.toggle":                handler.New(rs.taskToggle),
		"task.delete":                handler.New(rs.taskDelete),
		"task.list":                  handler.New(rs.taskList),
		"alarm.status":               handler.New(rs.alarmStatus),
		"alarm.acknowledge":          handler.New(rs.alarmAcknowledge),
		"session.login":              handler.New(rs.sessionLogin),
		"session.logout":             handler.New(rs.sessionLogout),
		"session.get":                handler.New(rs.sessionGet),
		"notification.setPermission": handler.New(rs.notificationSetPermission),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

// Notifier returns the push notifier of WebSocket sessions.
func (rs *RPCServer) Notifier() *RPCNotifier {
	return rs.notifier
}

// rpcError maps domain errors onto JSON-RPC error codes.
func rpcError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, todo.ErrTaskNotFound):
		return &jrpc2.Error{Code: codeTaskNotFound, Message: err.Error()}
	case errors.Is(err, todo.ErrNoSession):
		return &jrpc2.Error{Code: codeNoSession, Message: err.Error()}
	case errors.Is(err, tasklib.ErrEmptyText),
		errors.Is(err, tasklib.ErrInvalidPriority),
		errors.Is(err, tasklib.ErrInvalidRecurrence),
		errors.Is(err, tasklib.ErrEmptyName),
		errors.Is(err, alarm.ErrUnknownAction):
		return &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
	return &jrpc2.Error{Code: codeInternal, Message: err.Error()}
}

func toTaskItem(t tasklib.Task, ringing string, now time.Time) *TaskItem {
	return &TaskItem{
		ID:           t.ID,
		Text:         t.Text,
		Priority:     string(t.Priority),
		DueDate:      tasklib.CopyTime(t.DueDate),
		Completed:    t.Completed,
		Notified:     t.Notified,
		AlarmEnabled: t.AlarmEnabled,
		Recurrence:   t.Recurrence,
		CreatedAt:    t.CreatedAt,
		State:        string(alarm.StateOf(t, ringing)),
		Overdue:      t.IsOverdue(now),
	}
}

func (rs *RPCServer) item(t tasklib.Task) *TaskItem {
	return toTaskItem(t, rs.manager.Snapshot().Ringing, rs.manager.Now())
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

// taskAdd creates a task.
func (rs *RPCServer) taskAdd(_ context.Context, p *AddParams) (*TaskResult, error) {
	if p == nil || p.Text == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: text"}
	}
	t, err := rs.manager.AddTask(tasklib.NewTaskOpts{
		Text:       p.Text,
		Priority:   tasklib.Priority(p.Priority),
		DueDate:    p.DueDate,
		Recurrence: p.Recurrence,
	})
	if err != nil {
		return nil, rpcError(err)
	}
	return &TaskResult{Task: rs.item(t)}, nil
}

// taskEdit applies a partial update.
func (rs *RPCServer) taskEdit(_ context.Context, p *EditParams) (*TaskResult, error) {
	if p == nil || p.ID == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: id"}
	}
	patch := todo.Patch{
		Text:         p.Text,
		DueDate:      p.DueDate,
		ClearDueDate: p.ClearDueDate,
		AlarmEnabled: p.AlarmEnabled,
		Recurrence:   p.Recurrence,
	}
	if p.Priority != nil {
		prio := tasklib.Priority(*p.Priority)
		patch.Priority = &prio
	}
	t, err := rs.manager.EditTask(p.ID, patch)
	if err != nil {
		return nil, rpcError(err)
	}
	return &TaskResult{Task: rs.item(t)}, nil
}

// taskToggle flips completion.
func (rs *RPCServer) taskToggle(_ context.Context, p *IDParam) (*TaskResult, error) {
	if p == nil || p.ID == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: id"}
	}
	t, err := rs.manager.ToggleCompleted(p.ID)
	if err != nil {
		return nil, rpcError(err)
	}
	return &TaskResult{Task: rs.item(t)}, nil
}

// taskDelete removes a task.
func (rs *RPCServer) taskDelete(_ context.Context, p *IDParam) (*EmptyResult, error) {
	if p == nil || p.ID == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: id"}
	}
	if err := rs.manager.DeleteTask(p.ID); err != nil {
		return nil, rpcError(err)
	}
	return &EmptyResult{}, nil
}

// taskList returns tasks, optionally filtered by status and priority.
func (rs *RPCServer) taskList(_ context.Context, p *ListParams) (*ListResult, error) {
	status := "all"
	var prio tasklib.Priority
	if p != nil {
		if p.Status != "" {
			status = p.Status
		}
		var err error
		if prio, err = tasklib.ParsePriorityFilter(p.Priority); err != nil {
			return nil, rpcError(err)
		}
	}
	snap := rs.manager.Snapshot()
	now := rs.manager.Now()

	tasks := make([]*TaskItem, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		if !t.MatchesPriority(prio) {
			continue
		}
		switch status {
		case "pending":
			if t.Completed {
				continue
			}
		case "completed":
			if !t.Completed {
				continue
			}
		case "overdue":
			if !t.IsOverdue(now) {
				continue
			}
		case "all":
		default:
			return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "unknown status: " + status}
		}
		tasks = append(tasks, toTaskItem(t, snap.Ringing, now))
	}
	return &ListResult{Tasks: tasks, Ringing: snap.Ringing, Version: snap.Version}, nil
}

func (rs *RPCServer) status(snap todo.Snapshot) *AlarmStatusResult {
	now := rs.manager.Now()
	res := &AlarmStatusResult{
		Armed:  snap.Armed(),
		Window: rs.manager.Window().String(),
		Active: snap.Session != nil,
	}
	if t := snap.RingingTask(); t != nil {
		res.Ringing = toTaskItem(*t, snap.Ringing, now)
	}
	if t := snap.NextArmed(); t != nil {
		res.Next = toTaskItem(*t, snap.Ringing, now)
	}
	return res
}

// alarmStatus reports the ringing task and the next armed one.
func (rs *RPCServer) alarmStatus(_ context.Context) (*AlarmStatusResult, error) {
	return rs.status(rs.manager.Snapshot()), nil
}

// alarmAcknowledge answers the ringing alarm.
func (rs *RPCServer) alarmAcknowledge(_ context.Context, p *AckParams) (*AlarmStatusResult, error) {
	var raw string
	if p != nil {
		raw = p.Action
	}
	action, err := alarm.ParseAction(raw)
	if err != nil {
		return nil, rpcError(err)
	}
	snap, err := rs.manager.Acknowledge(action)
	if err != nil {
		return nil, rpcError(err)
	}
	return rs.status(snap), nil
}

// sessionLogin starts a session, which enables alarm scans.
func (rs *RPCServer) sessionLogin(_ context.Context, p *LoginParams) (*SessionResult, error) {
	if p == nil {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: name"}
	}
	profile, err := rs.manager.Login(tasklib.Profile{
		Name:     p.Name,
		Email:    p.Email,
		Birthday: p.Birthday,
	})
	if err != nil {
		return nil, rpcError(err)
	}
	return &SessionResult{Profile: profile}, nil
}

// sessionLogout ends the session.
func (rs *RPCServer) sessionLogout(_ context.Context) (*EmptyResult, error) {
	if err := rs.manager.Logout(); err != nil {
		return nil, rpcError(err)
	}
	return &EmptyResult{}, nil
}

// sessionGet returns the signed-in profile.
func (rs *RPCServer) sessionGet(_ context.Context) (*SessionResult, error) {
	profile := rs.manager.Session()
	if profile == nil {
		return nil, rpcError(todo.ErrNoSession)
	}
	return &SessionResult{Profile: profile}, nil
}

// notificationSetPermission records the desktop notification permission of
// the UI host.
func (rs *RPCServer) notificationSetPermission(_ context.Context, p *PermissionParams) (*PermissionResult, error) {
	if rs.notify == nil {
		return nil, &jrpc2.Error{Code: codeInternal, Message: "notifications are not available"}
	}
	var raw string
	if p != nil {
		raw = p.Permission
	}
	perm, err := ringer.ParsePermission(raw)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: err.Error()}
	}
	rs.notify.SetPermission(perm)
	return &PermissionResult{Permission: string(perm)}, nil
}

// Close shuts down the jrpc2 bridge, releasing internal goroutines.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}
