package alarm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

var t0 = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func armed(id string, due time.Time) tasklib.Task {
	return tasklib.Task{
		ID:           id,
		Text:         "task " + id,
		DueDate:      &due,
		AlarmEnabled: true,
	}
}

func sameSlice(a, b []tasklib.Task) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

func TestScan_FiresAtDueTime(t *testing.T) {
	tasks := []tasklib.Task{armed("a", t0)}

	res := Scan(t0, tasks, "", DefaultWindow)

	require.True(t, res.Changed())
	require.NotNil(t, res.Fired)
	assert.Equal(t, "a", res.Fired.ID)
	assert.True(t, res.Fired.Notified)
	assert.Equal(t, "a", res.Ringing)
	assert.True(t, res.Tasks[0].Notified)
	assert.False(t, tasks[0].Notified, "input must not be mutated")
}

func TestScan_MissedWindowStaysSilent(t *testing.T) {
	tasks := []tasklib.Task{armed("a", t0)}

	res := Scan(t0.Add(90*time.Second), tasks, "", DefaultWindow)

	assert.False(t, res.Changed())
	assert.Nil(t, res.Fired)
	assert.Equal(t, "", res.Ringing)
	assert.False(t, res.Tasks[0].Notified)
}

func TestScan_WindowBoundaries(t *testing.T) {
	tasks := []tasklib.Task{armed("a", t0)}

	assert.False(t, Scan(t0.Add(-time.Nanosecond), tasks, "", DefaultWindow).Changed(), "before due")
	assert.True(t, Scan(t0.Add(DefaultWindow-time.Nanosecond), tasks, "", DefaultWindow).Changed(), "just inside window")
	assert.False(t, Scan(t0.Add(DefaultWindow), tasks, "", DefaultWindow).Changed(), "window is exclusive")
}

func TestScan_CustomWindow(t *testing.T) {
	tasks := []tasklib.Task{armed("a", t0)}
	assert.True(t, Scan(t0.Add(4*time.Minute), tasks, "", 5*time.Minute).Changed())
	assert.False(t, Scan(t0.Add(4*time.Minute), tasks, "", DefaultWindow).Changed())
}

func TestScan_DisarmedTasksNeverFire(t *testing.T) {
	completed := armed("c", t0)
	completed.Completed = true
	disabled := armed("d", t0)
	disabled.AlarmEnabled = false
	noDue := tasklib.Task{ID: "n", AlarmEnabled: true}
	tasks := []tasklib.Task{completed, disabled, noDue}

	for _, offset := range []time.Duration{-time.Hour, 0, time.Second, 59 * time.Second, time.Hour} {
		res := Scan(t0.Add(offset), tasks, "", DefaultWindow)
		assert.False(t, res.Changed(), "offset %v", offset)
		assert.True(t, sameSlice(tasks, res.Tasks), "offset %v", offset)
	}
}

func TestScan_NoChangeReturnsSameSlice(t *testing.T) {
	tasks := []tasklib.Task{armed("a", t0.Add(time.Hour)), armed("b", t0.Add(2*time.Hour))}

	res := Scan(t0, tasks, "x", DefaultWindow)

	assert.True(t, sameSlice(tasks, res.Tasks))
	assert.Equal(t, "x", res.Ringing)
}

func TestScan_EmptyCollection(t *testing.T) {
	res := Scan(t0, nil, "", DefaultWindow)
	assert.False(t, res.Changed())
	assert.Nil(t, res.Tasks)
}

func TestScan_OncePerDueDate(t *testing.T) {
	tasks := []tasklib.Task{armed("a", t0)}
	ringing := ""

	res := Scan(t0, tasks, ringing, DefaultWindow)
	require.True(t, res.Changed())
	tasks, ringing = res.Tasks, res.Ringing

	// still inside the window, fired task must not fire again
	for i := 1; i <= 11; i++ {
		res = Scan(t0.Add(time.Duration(i)*5*time.Second), tasks, ringing, DefaultWindow)
		assert.False(t, res.Changed(), "tick %d", i)
		assert.True(t, sameSlice(tasks, res.Tasks), "tick %d", i)
	}

	// also not after a dismissal
	tasks, err := Acknowledge(tasks, ringing, ActionDismiss)
	require.NoError(t, err)
	res = Scan(t0.Add(10*time.Second), tasks, "", DefaultWindow)
	assert.False(t, res.Changed())
}

func TestScan_AtMostOnePerScan_EarliestDueFirst(t *testing.T) {
	tasks := []tasklib.Task{
		armed("late", t0.Add(-10*time.Second)),
		armed("early", t0.Add(-30*time.Second)),
		armed("tie-1", t0.Add(-20*time.Second)),
		armed("tie-2", t0.Add(-20*time.Second)),
	}
	now := t0

	var order []string
	ringing := ""
	for i := 0; i < 4; i++ {
		res := Scan(now, tasks, ringing, DefaultWindow)
		require.True(t, res.Changed(), "scan %d", i)

		newlyNotified := 0
		for j := range res.Tasks {
			if res.Tasks[j].Notified && !tasks[j].Notified {
				newlyNotified++
			}
		}
		assert.Equal(t, 1, newlyNotified, "scan %d", i)

		order = append(order, res.Fired.ID)
		tasks, ringing = res.Tasks, res.Ringing
	}
	assert.Equal(t, []string{"early", "tie-1", "tie-2", "late"}, order)

	res := Scan(now, tasks, ringing, DefaultWindow)
	assert.False(t, res.Changed())
}

func TestScan_SkipsCurrentRingingTask(t *testing.T) {
	// a ringing task that was rearmed without acknowledgment
	task := armed("a", t0)
	res := Scan(t0, []tasklib.Task{task}, "a", DefaultWindow)
	assert.False(t, res.Changed())
}

func TestScan_NewFireReplacesRinging(t *testing.T) {
	first := armed("a", t0)
	first.Notified = true
	tasks := []tasklib.Task{first, armed("b", t0.Add(time.Second))}

	res := Scan(t0.Add(2*time.Second), tasks, "a", DefaultWindow)

	require.True(t, res.Changed())
	assert.Equal(t, "b", res.Ringing)
	assert.Equal(t, StateFired, StateOf(res.Tasks[0], res.Ringing))
	assert.Equal(t, StateRinging, StateOf(res.Tasks[1], res.Ringing))
}

func TestAcknowledge_Dismiss(t *testing.T) {
	res := Scan(t0, []tasklib.Task{armed("a", t0)}, "", DefaultWindow)
	require.True(t, res.Changed())

	tasks, err := Acknowledge(res.Tasks, res.Ringing, ActionDismiss)

	require.NoError(t, err)
	assert.True(t, sameSlice(res.Tasks, tasks))
	assert.True(t, tasks[0].Notified)
	assert.False(t, tasks[0].Completed)
	assert.Equal(t, StateFired, StateOf(tasks[0], ""))
}

func TestAcknowledge_Complete(t *testing.T) {
	res := Scan(t0, []tasklib.Task{armed("a", t0)}, "", DefaultWindow)
	require.True(t, res.Changed())

	tasks, err := Acknowledge(res.Tasks, res.Ringing, ActionComplete)

	require.NoError(t, err)
	assert.True(t, tasks[0].Completed)
	assert.False(t, res.Tasks[0].Completed, "input must not be mutated")
	assert.Equal(t, StateDisarmed, StateOf(tasks[0], ""))
}

func TestAcknowledge_NothingRinging(t *testing.T) {
	tasks := []tasklib.Task{armed("a", t0)}
	for _, a := range []Action{ActionDismiss, ActionComplete} {
		got, err := Acknowledge(tasks, "", a)
		require.NoError(t, err)
		assert.True(t, sameSlice(tasks, got))
		assert.False(t, got[0].Completed)
	}
}

func TestAcknowledge_RingingTaskGone(t *testing.T) {
	tasks := []tasklib.Task{armed("a", t0)}
	got, err := Acknowledge(tasks, "deleted", ActionComplete)
	require.NoError(t, err)
	assert.True(t, sameSlice(tasks, got))
}

func TestAcknowledge_UnknownAction(t *testing.T) {
	_, err := Acknowledge(nil, "a", Action("snooze"))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("")
	require.NoError(t, err)
	assert.Equal(t, ActionDismiss, a)

	a, err = ParseAction("complete")
	require.NoError(t, err)
	assert.Equal(t, ActionComplete, a)

	_, err = ParseAction("later")
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestOnDueDateChanged_RoundTrip(t *testing.T) {
	fired := armed("a", t0)
	fired.Notified = true

	same := t0.In(time.FixedZone("UTC+2", 7200))
	got := OnDueDateChanged(fired, &same)
	assert.True(t, got.Notified, "same instant must not rearm")

	got = OnDueDateChanged(got, &same)
	assert.True(t, got.Notified, "repeating the same value must not rearm")

	later := t0.Add(time.Hour)
	got = OnDueDateChanged(got, &later)
	assert.False(t, got.Notified)
	assert.True(t, got.DueDate.Equal(later))

	cleared := OnDueDateChanged(fired, nil)
	assert.False(t, cleared.Notified)
	assert.Nil(t, cleared.DueDate)
	assert.True(t, fired.Notified, "input must not be mutated")
}

func TestOnDueDateChanged_RearmsAfterEdit(t *testing.T) {
	res := Scan(t0, []tasklib.Task{armed("a", t0)}, "", DefaultWindow)
	require.True(t, res.Changed())
	tasks, err := Acknowledge(res.Tasks, res.Ringing, ActionDismiss)
	require.NoError(t, err)

	newDue := t0.Add(2 * time.Hour)
	tasks = []tasklib.Task{OnDueDateChanged(tasks[0], &newDue)}
	assert.False(t, tasks[0].Notified)
	assert.Equal(t, StateArmed, StateOf(tasks[0], ""))

	res = Scan(t0.Add(time.Hour), tasks, "", DefaultWindow)
	assert.False(t, res.Changed(), "not due yet")

	res = Scan(newDue.Add(3*time.Second), tasks, "", DefaultWindow)
	require.True(t, res.Changed())
	assert.Equal(t, "a", res.Ringing)
}

func TestOnCompletionToggled(t *testing.T) {
	fired := armed("a", t0)
	fired.Notified = true

	done := OnCompletionToggled(fired)
	assert.True(t, done.Completed)
	assert.True(t, done.Notified, "completing keeps notified")

	reopened := OnCompletionToggled(done)
	assert.False(t, reopened.Completed)
	assert.False(t, reopened.Notified, "reopening rearms")

	// a reopened task may ring again for its stored due date
	res := Scan(t0.Add(time.Second), []tasklib.Task{reopened}, "", DefaultWindow)
	assert.True(t, res.Changed())
}

func TestStateOf(t *testing.T) {
	a := armed("a", t0)
	assert.Equal(t, StateArmed, StateOf(a, ""))
	assert.Equal(t, StateRinging, StateOf(a, "a"))

	a.Notified = true
	assert.Equal(t, StateFired, StateOf(a, ""))

	a.AlarmEnabled = false
	assert.Equal(t, StateDisarmed, StateOf(a, ""))

	assert.Equal(t, StateDisarmed, StateOf(tasklib.Task{ID: "x", AlarmEnabled: true}, ""))
}
