package api

import (
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/alarm"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/server"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/todo"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	api   *Api
	pool  *server.Pool
	clock *alarm.FakeClock
	rec   *alarm.Recorder
}

func newTestApi(t *testing.T) *testEnv {
	t.Helper()
	store, err := tasklib.NewFileStore(afero.NewMemMapFs(), "/data")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	clock := alarm.NewFakeClock(t0)
	rec := alarm.NewRecorder()
	m, err := todo.NewManager(store, alarm.NewScheduler(time.Minute, rec, nil), clock, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	api, err := NewApi(logger.NewMockLogger(), m, "1.2.3", "abc123", "test")
	if err != nil {
		t.Fatalf("NewApi: %v", err)
	}
	t.Cleanup(func() { _ = api.Close() })
	return &testEnv{api: api, pool: server.NewPool(nil), clock: clock, rec: rec}
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func (e *testEnv) add(t *testing.T, text string, due *time.Time) tasklib.Task {
	t.Helper()
	_, msg, err := e.api.addHandler(nil, e.pool, mustMarshal(t, common.AddParams{Text: text, DueDate: due}))
	if err != nil {
		t.Fatalf("addHandler: %v", err)
	}
	return msg.(*common.TaskResponse).Task
}

func TestAddHandler(t *testing.T) {
	e := newTestApi(t)
	due := t0.Add(time.Hour)
	utype, msg, err := e.api.addHandler(nil, e.pool, mustMarshal(t, common.AddParams{
		Text:     "Call mom",
		Priority: "high",
		DueDate:  &due,
	}))
	if err != nil {
		t.Fatalf("addHandler: %v", err)
	}
	if utype != common.UPDATE_ADD {
		t.Fatalf("expected %s, got %s", common.UPDATE_ADD, utype)
	}
	task := msg.(*common.TaskResponse).Task
	if task.ID == "" || task.Text != "Call mom" || task.Priority != tasklib.PriorityHigh {
		t.Fatalf("unexpected task: %+v", task)
	}
	if !task.AlarmEnabled || task.Notified {
		t.Fatalf("expected armed task: %+v", task)
	}
}

func TestAddHandler_Errors(t *testing.T) {
	e := newTestApi(t)
	if _, _, err := e.api.addHandler(nil, e.pool, json.RawMessage(`{bad`)); err == nil {
		t.Fatal("expected JSON error")
	}
	if _, _, err := e.api.addHandler(nil, e.pool, nil); !errors.Is(err, tasklib.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	_, _, err := e.api.addHandler(nil, e.pool, mustMarshal(t, common.AddParams{Text: "x", Priority: "urgent"}))
	if !errors.Is(err, tasklib.ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestEditHandler(t *testing.T) {
	e := newTestApi(t)
	task := e.add(t, "Draft", nil)

	text := "Final"
	due := t0.Add(time.Minute)
	_, msg, err := e.api.editHandler(nil, e.pool, mustMarshal(t, common.EditParams{
		TaskId:  task.ID,
		Text:    &text,
		DueDate: &due,
	}))
	if err != nil {
		t.Fatalf("editHandler: %v", err)
	}
	got := msg.(*common.TaskResponse).Task
	if got.Text != "Final" || got.DueDate == nil || !got.DueDate.Equal(due) || !got.AlarmEnabled {
		t.Fatalf("unexpected edit: %+v", got)
	}

	if _, _, err := e.api.editHandler(nil, e.pool, mustMarshal(t, common.EditParams{})); !errors.Is(err, errTaskIdRequired) {
		t.Fatalf("expected errTaskIdRequired, got %v", err)
	}
	_, _, err = e.api.editHandler(nil, e.pool, mustMarshal(t, common.EditParams{TaskId: "missing", Text: &text}))
	if !errors.Is(err, todo.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestToggleAndDeleteHandlers(t *testing.T) {
	e := newTestApi(t)
	task := e.add(t, "Laundry", nil)
	id := mustMarshal(t, common.InputTaskId{TaskId: task.ID})

	_, msg, err := e.api.toggleHandler(nil, e.pool, id)
	if err != nil {
		t.Fatalf("toggleHandler: %v", err)
	}
	if !msg.(*common.TaskResponse).Task.Completed {
		t.Fatal("expected task to be completed")
	}

	if _, _, err := e.api.deleteHandler(nil, e.pool, id); err != nil {
		t.Fatalf("deleteHandler: %v", err)
	}
	if _, _, err := e.api.deleteHandler(nil, e.pool, id); !errors.Is(err, todo.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if _, _, err := e.api.toggleHandler(nil, e.pool, nil); !errors.Is(err, errTaskIdRequired) {
		t.Fatalf("expected errTaskIdRequired, got %v", err)
	}
	if _, _, err := e.api.deleteHandler(nil, e.pool, nil); !errors.Is(err, errTaskIdRequired) {
		t.Fatalf("expected errTaskIdRequired, got %v", err)
	}
}

func TestListHandler(t *testing.T) {
	e := newTestApi(t)
	done := e.add(t, "done", nil)
	e.add(t, "open", nil)
	if _, _, err := e.api.toggleHandler(nil, e.pool, mustMarshal(t, common.InputTaskId{TaskId: done.ID})); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		params common.ListParams
		want   int
	}{
		{"pending by default", common.ListParams{}, 1},
		{"completed", common.ListParams{ShowCompleted: true}, 1},
		{"pending", common.ListParams{ShowPending: true}, 1},
		{"all", common.ListParams{ShowCompleted: true, ShowPending: true}, 2},
		{"all medium", common.ListParams{ShowCompleted: true, ShowPending: true, Priority: "medium"}, 2},
		{"all high", common.ListParams{ShowCompleted: true, ShowPending: true, Priority: "high"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, msg, err := e.api.listHandler(nil, e.pool, mustMarshal(t, tt.params))
			if err != nil {
				t.Fatalf("listHandler: %v", err)
			}
			if got := len(msg.(*common.ListResponse).Tasks); got != tt.want {
				t.Fatalf("expected %d tasks, got %d", tt.want, got)
			}
		})
	}
}

func TestListHandler_InvalidPriority(t *testing.T) {
	e := newTestApi(t)
	_, _, err := e.api.listHandler(nil, e.pool, mustMarshal(t, common.ListParams{Priority: "urgent"}))
	if !errors.Is(err, tasklib.ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestAlarmHandlers(t *testing.T) {
	e := newTestApi(t)
	if _, _, err := e.api.loginHandler(nil, e.pool, mustMarshal(t, common.LoginParams{Name: "Ada"})); err != nil {
		t.Fatalf("loginHandler: %v", err)
	}
	due := t0
	task := e.add(t, "Stand-up", &due)

	_, msg, err := e.api.statusHandler(nil, e.pool, nil)
	if err != nil {
		t.Fatal(err)
	}
	status := msg.(*common.StatusResponse)
	if status.Ringing != nil || status.Next == nil || status.Next.ID != task.ID || status.Armed != 1 {
		t.Fatalf("unexpected status before tick: %+v", status)
	}
	if status.Window != "1m0s" || status.Session == nil {
		t.Fatalf("unexpected status: %+v", status)
	}

	if !e.api.manager.Tick(t0.Add(time.Second)) {
		t.Fatal("expected tick to fire")
	}
	_, msg, _ = e.api.statusHandler(nil, e.pool, nil)
	status = msg.(*common.StatusResponse)
	if status.Ringing == nil || status.Ringing.ID != task.ID {
		t.Fatalf("expected ringing task, got %+v", status.Ringing)
	}

	if _, _, err := e.api.ackHandler(nil, e.pool, mustMarshal(t, common.AckParams{Action: "snooze"})); !errors.Is(err, alarm.ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
	_, msg, err = e.api.ackHandler(nil, e.pool, mustMarshal(t, common.AckParams{Action: "complete"}))
	if err != nil {
		t.Fatalf("ackHandler: %v", err)
	}
	if msg.(*common.StatusResponse).Ringing != nil {
		t.Fatal("expected silence after acknowledge")
	}
	if got := e.rec.Acks(); got != 1 {
		t.Fatalf("expected 1 acknowledge effect, got %d", got)
	}
	stored, err := e.api.manager.Task(task.ID)
	if err != nil || !stored.Completed {
		t.Fatalf("expected completed task, got %+v, %v", stored, err)
	}
}

func TestSessionHandlers(t *testing.T) {
	e := newTestApi(t)
	if _, _, err := e.api.logoutHandler(nil, e.pool, nil); !errors.Is(err, todo.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, _, err := e.api.loginHandler(nil, e.pool, mustMarshal(t, common.LoginParams{})); !errors.Is(err, tasklib.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	_, msg, err := e.api.loginHandler(nil, e.pool, mustMarshal(t, common.LoginParams{Name: "Ada", Email: "ada@example.com"}))
	if err != nil {
		t.Fatalf("loginHandler: %v", err)
	}
	profile := msg.(*common.SessionResponse).Profile
	if profile.Name != "Ada" || profile.ID == "" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if _, _, err := e.api.logoutHandler(nil, e.pool, nil); err != nil {
		t.Fatalf("logoutHandler: %v", err)
	}
}

func TestWatchHandler(t *testing.T) {
	e := newTestApi(t)
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()
	sconn := server.NewSyncConn(c1)

	utype, msg, err := e.api.watchHandler(sconn, e.pool, nil)
	if err != nil {
		t.Fatalf("watchHandler: %v", err)
	}
	if utype != common.UPDATE_WATCH {
		t.Fatalf("expected %s, got %s", common.UPDATE_WATCH, utype)
	}
	if e.pool.Watchers() != 1 || msg.(*common.StatusResponse).Watchers != 1 {
		t.Fatalf("expected 1 watcher, got %d", e.pool.Watchers())
	}
}

func TestVersionHandler(t *testing.T) {
	e := newTestApi(t)
	utype, msg, err := e.api.versionHandler(nil, e.pool, nil)
	if err != nil {
		t.Fatal(err)
	}
	if utype != common.UPDATE_VERSION {
		t.Fatalf("expected %s, got %s", common.UPDATE_VERSION, utype)
	}
	v := msg.(*common.VersionResponse)
	if v.Version != "1.2.3" || v.Commit != "abc123" || v.BuildType != "test" {
		t.Fatalf("unexpected version: %+v", v)
	}
}
