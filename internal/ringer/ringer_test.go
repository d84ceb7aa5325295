package ringer

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

type countingPlayer struct {
	n   atomic.Int32
	err error
}

func (p *countingPlayer) Play(context.Context) error {
	p.n.Add(1)
	return p.err
}

type recordingBroadcaster struct {
	mu      sync.Mutex
	methods []string
	params  []any
}

func (r *recordingBroadcaster) Broadcast(method string, params any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods = append(r.methods, method)
	r.params = append(r.params, params)
}

func (r *recordingBroadcaster) Methods() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.methods...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestAlarm_StartIsIdempotent(t *testing.T) {
	p := &countingPlayer{}
	a := NewAlarm(p, time.Hour, nil)

	a.Start()
	a.Start()
	waitFor(t, func() bool { return p.n.Load() >= 1 })
	time.Sleep(20 * time.Millisecond)
	if got := p.n.Load(); got != 1 {
		t.Fatalf("expected a single loop, got %d plays", got)
	}
	if !a.Sounding() {
		t.Fatal("expected alarm to be sounding")
	}
	a.Stop()
	if a.Sounding() {
		t.Fatal("expected alarm to be silent after Stop")
	}
}

func TestAlarm_LoopsUntilStopped(t *testing.T) {
	p := &countingPlayer{}
	a := NewAlarm(p, time.Millisecond, nil)

	a.Start()
	waitFor(t, func() bool { return p.n.Load() >= 3 })
	a.Stop()

	stopped := p.n.Load()
	time.Sleep(20 * time.Millisecond)
	if p.n.Load() != stopped {
		t.Fatal("player ran after Stop")
	}
}

func TestAlarm_RestartBeginsImmediately(t *testing.T) {
	p := &countingPlayer{}
	a := NewAlarm(p, time.Hour, nil)

	a.Start()
	waitFor(t, func() bool { return p.n.Load() == 1 })
	a.Stop()
	a.Start()
	waitFor(t, func() bool { return p.n.Load() == 2 })
	a.Stop()
}

func TestAlarm_StopWithoutStart(t *testing.T) {
	a := NewAlarm(&countingPlayer{}, 0, nil)
	a.Stop()
	if a.interval != DefaultInterval {
		t.Fatalf("expected default interval, got %v", a.interval)
	}
}

func TestAlarm_PlayerErrorsAreLogged(t *testing.T) {
	log := logger.NewMockLogger()
	p := &countingPlayer{err: errors.New("device busy")}
	a := NewAlarm(p, time.Millisecond, log)

	a.Start()
	waitFor(t, func() bool { return p.n.Load() >= 2 })
	a.Stop()

	warnings := log.Warnings()
	if len(warnings) == 0 {
		t.Fatal("expected player failures to be logged")
	}
}

type panicPlayer struct{ n atomic.Int32 }

func (p *panicPlayer) Play(context.Context) error {
	p.n.Add(1)
	panic("no speakers")
}

func TestAlarm_RecoversFromPanickingPlayer(t *testing.T) {
	log := logger.NewMockLogger()
	p := &panicPlayer{}
	a := NewAlarm(p, time.Millisecond, log)

	a.Start()
	waitFor(t, func() bool { return p.n.Load() >= 2 })
	a.Stop()
	if len(log.Warnings()) == 0 {
		t.Fatal("expected panic to be logged")
	}
}

func TestBellPlayer(t *testing.T) {
	var buf bytes.Buffer
	if err := (BellPlayer{W: &buf}).Play(context.Background()); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "\a" {
		t.Fatalf("expected BEL, got %q", buf.String())
	}
}

func TestCommandPlayer(t *testing.T) {
	if err := (CommandPlayer{}).Play(context.Background()); !errors.Is(err, errEmptyCommand) {
		t.Fatalf("expected errEmptyCommand, got %v", err)
	}
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
	if err := (CommandPlayer{Argv: []string{"sh", "-c", "exit 0"}}).Play(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (CommandPlayer{Argv: []string{"sh", "-c", "exit 3"}}).Play(context.Background()); err == nil {
		t.Fatal("expected exit status error")
	}
}

func TestNewPlayer(t *testing.T) {
	if _, ok := NewPlayer(nil, &bytes.Buffer{}).(BellPlayer); !ok {
		t.Fatal("expected BellPlayer for empty argv")
	}
	if _, ok := NewPlayer([]string{"paplay"}, nil).(CommandPlayer); !ok {
		t.Fatal("expected CommandPlayer")
	}
}

func TestParsePermission(t *testing.T) {
	for in, want := range map[string]Permission{
		"":        PermissionDefault,
		"default": PermissionDefault,
		"granted": PermissionGranted,
		"denied":  PermissionDenied,
	} {
		got, err := ParsePermission(in)
		if err != nil || got != want {
			t.Fatalf("ParsePermission(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePermission("maybe"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNotifier_GatedByPermission(t *testing.T) {
	out := &recordingBroadcaster{}
	n := NewNotifier(out, "")
	task := tasklib.Task{ID: "t1", Text: "Call mom"}

	if n.Notify(task) {
		t.Fatal("default permission must not notify")
	}
	n.SetPermission(PermissionDenied)
	if n.Notify(task) {
		t.Fatal("denied permission must not notify")
	}
	n.SetPermission(PermissionGranted)
	if !n.Notify(task) {
		t.Fatal("granted permission must notify")
	}

	if got := out.Methods(); len(got) != 1 || got[0] != MethodNotificationShow {
		t.Fatalf("unexpected pushes: %v", got)
	}
	note := out.params[0].(Notification)
	if note.Title != NotificationTitle || note.Body != "Call mom" || note.TaskID != "t1" {
		t.Fatalf("unexpected notification: %+v", note)
	}
	if !note.RequireInteraction {
		t.Fatal("notification should require interaction")
	}
}

func TestEffects(t *testing.T) {
	events := &recordingBroadcaster{}
	p := &countingPlayer{}
	a := NewAlarm(p, time.Hour, nil)
	e := &Effects{
		Alarm:    a,
		Notifier: NewNotifier(events, PermissionGranted),
		Events:   events,
	}

	if err := e.OnFire(tasklib.Task{ID: "t1", Text: "x"}); err != nil {
		t.Fatal(err)
	}
	if !a.Sounding() {
		t.Fatal("expected sound after fire")
	}
	if err := e.OnAcknowledge(); err != nil {
		t.Fatal(err)
	}
	if a.Sounding() {
		t.Fatal("expected silence after acknowledge")
	}

	want := []string{MethodNotificationShow, MethodAlarmFired, MethodAlarmSilenced}
	got := events.Methods()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestEffects_NilParts(t *testing.T) {
	e := &Effects{}
	if err := e.OnFire(tasklib.Task{}); err != nil {
		t.Fatal(err)
	}
	if err := e.OnAcknowledge(); err != nil {
		t.Fatal(err)
	}
}

func TestBroadcasters(t *testing.T) {
	a, b := &recordingBroadcaster{}, &recordingBroadcaster{}
	Broadcasters{a, nil, b}.Broadcast(MethodTasksChanged, nil)
	if len(a.Methods()) != 1 || len(b.Methods()) != 1 {
		t.Fatal("expected every broadcaster to receive the push")
	}
}
