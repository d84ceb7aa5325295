package cmd

import (
	"io"
	"testing"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

func TestCountdown_Sync(t *testing.T) {
	cd := newCountdown(io.Discard)
	defer cd.stop()

	tasks := []tasklib.Task{
		{ID: "armed", Text: "armed", DueDate: at(time.Minute), AlarmEnabled: true},
		{ID: "disarmed", Text: "disarmed", DueDate: at(time.Minute)},
		{ID: "undated", Text: "undated"},
	}
	cd.sync(tasks, "", listNow)
	if got := cd.len(); got != 1 {
		t.Fatalf("expected one bar, got %d", got)
	}

	first := cd.bars["armed"]
	cd.sync(tasks, "", listNow.Add(time.Second))
	if cd.bars["armed"] != first {
		t.Fatal("unchanged task must keep its bar")
	}

	tasks[0].DueDate = at(2 * time.Minute)
	cd.sync(tasks, "", listNow)
	if cd.bars["armed"] == first {
		t.Fatal("a new due date must restart the countdown")
	}

	cd.sync(nil, "", listNow)
	if got := cd.len(); got != 0 {
		t.Fatalf("expected bars to be removed, got %d", got)
	}
}

func TestCountdown_TickAndRing(t *testing.T) {
	cd := newCountdown(io.Discard)
	defer cd.stop()

	task := tasklib.Task{ID: "t1", Text: "Call mom", DueDate: at(10 * time.Second), AlarmEnabled: true}
	cd.sync([]tasklib.Task{task}, "", listNow)
	bar := cd.bars["t1"].bar

	cd.tick(listNow.Add(time.Minute))
	if bar.Completed() {
		t.Fatal("bar must not complete before the daemon reports ringing")
	}
	if got := bar.Current(); got != 9 {
		t.Fatalf("expected bar held one step short, got %d", got)
	}

	task.Notified = true
	cd.sync([]tasklib.Task{task}, "t1", listNow.Add(time.Minute))
	if !bar.Completed() {
		t.Fatal("ringing task must complete its bar")
	}

	cd.sync([]tasklib.Task{task}, "", listNow.Add(time.Minute))
	if cd.len() != 0 {
		t.Fatal("fired task must lose its bar once silenced")
	}
}

func TestCountdown_RingingWithoutDueDate(t *testing.T) {
	cd := newCountdown(io.Discard)
	defer cd.stop()

	undated := tasklib.Task{ID: "t1", Text: "Call mom", AlarmEnabled: true, Notified: true}
	cd.sync([]tasklib.Task{undated}, "t1", listNow)
	cb, ok := cd.bars["t1"]
	if !ok {
		t.Fatal("ringing task must keep a bar")
	}
	if !cb.bar.Completed() {
		t.Fatal("ringing bar must be full")
	}

	dated := undated
	dated.DueDate = at(10 * time.Second)
	cd.sync([]tasklib.Task{dated}, "t1", listNow)
	bar := cd.bars["t1"].bar

	cd.sync([]tasklib.Task{undated}, "t1", listNow.Add(time.Minute))
	if cd.bars["t1"].bar != bar {
		t.Fatal("clearing the due date of a ringing task must keep its bar")
	}
	if !bar.Completed() {
		t.Fatal("ringing bar must stay full")
	}
}
