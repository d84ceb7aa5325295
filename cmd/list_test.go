package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

var listNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := listNow.Add(d)
	return &t
}

func TestSortTasks(t *testing.T) {
	tasks := []tasklib.Task{
		{ID: "done", Completed: true, DueDate: at(-time.Hour)},
		{ID: "undated", CreatedAt: listNow.Add(-2 * time.Hour)},
		{ID: "later", DueDate: at(2 * time.Hour)},
		{ID: "sooner", DueDate: at(time.Hour)},
		{ID: "undated-new", CreatedAt: listNow},
	}
	sortTasks(tasks)

	want := []string{"sooner", "later", "undated", "undated-new", "done"}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, tasks[i].ID, id)
		}
	}
}

func TestStateLabel(t *testing.T) {
	tests := []struct {
		name    string
		task    tasklib.Task
		ringing string
		want    string
	}{
		{"completed", tasklib.Task{ID: "a", Completed: true}, "", "done"},
		{"ringing", tasklib.Task{ID: "a", DueDate: at(0), AlarmEnabled: true, Notified: true}, "a", "RINGING"},
		{"fired", tasklib.Task{ID: "a", DueDate: at(-time.Minute), AlarmEnabled: true, Notified: true}, "", "fired"},
		{"armed", tasklib.Task{ID: "a", DueDate: at(90 * time.Second), AlarmEnabled: true}, "", "in 1m30s"},
		{"armed past due", tasklib.Task{ID: "a", DueDate: at(-time.Second), AlarmEnabled: true}, "", "armed"},
		{"overdue", tasklib.Task{ID: "a", DueDate: at(-time.Hour)}, "", "overdue"},
		{"undated", tasklib.Task{ID: "a"}, "", "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stateLabel(tt.task, tt.ringing, listNow); got != tt.want {
				t.Fatalf("stateLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderTasks(t *testing.T) {
	tasks := []tasklib.Task{
		{ID: "0123456789abcdef", Text: "a task text that is far too long for the column", Priority: tasklib.PriorityHigh},
		{ID: "fedcba9876543210", Text: "Call mom", Priority: tasklib.PriorityLow, DueDate: at(time.Minute), AlarmEnabled: true},
	}
	out := renderTasks(tasks, "", listNow)

	assertContains(t, out, "Here are your tasks:")
	assertContains(t, out, "fedcba98")
	assertContains(t, out, "Call mom")
	assertContains(t, out, "09:01")
	assertContains(t, out, "in 1m00s")
	assertContains(t, out, "a task text that is far...")
	if strings.Index(out, "Call mom") > strings.Index(out, "a task text") {
		t.Fatalf("expected dated task first:\n%s", out)
	}
	if tasks[0].ID != "0123456789abcdef" {
		t.Fatal("renderTasks must not reorder its input")
	}
}
