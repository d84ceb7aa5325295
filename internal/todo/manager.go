// Package todo owns the task collection of a running daemon. It serializes
// every mutation, publishes immutable snapshots, persists them and drives the
// alarm scheduler.
package todo

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/alarm"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNoSession    = errors.New("no active session")
)

// Snapshot is one committed version of the collection. Its Tasks slice is
// shared between readers and must not be modified.
type Snapshot struct {
	Version uint64
	Tasks   []tasklib.Task
	Ringing string
	Session *tasklib.Profile
}

// RingingTask returns the task in the ringing slot, if it still exists.
func (s Snapshot) RingingTask() *tasklib.Task {
	if s.Ringing == "" {
		return nil
	}
	if i := tasklib.IndexOf(s.Tasks, s.Ringing); i >= 0 {
		t := s.Tasks[i].Clone()
		return &t
	}
	return nil
}

// NextArmed returns the armed task with the earliest due date.
func (s Snapshot) NextArmed() *tasklib.Task {
	var next *tasklib.Task
	for i := range s.Tasks {
		t := s.Tasks[i]
		if alarm.StateOf(t, s.Ringing) != alarm.StateArmed {
			continue
		}
		if next == nil || t.DueDate.Before(*next.DueDate) {
			cp := t.Clone()
			next = &cp
		}
	}
	return next
}

// Armed counts the tasks that can still fire.
func (s Snapshot) Armed() int {
	n := 0
	for _, t := range s.Tasks {
		if alarm.StateOf(t, s.Ringing) == alarm.StateArmed {
			n++
		}
	}
	return n
}

// Manager is the single owner of the task collection.
type Manager struct {
	mu    sync.Mutex
	store tasklib.Store
	sched *alarm.Scheduler
	clock alarm.Clock
	log   logger.Logger
	snap  Snapshot
	subs  map[int]func(Snapshot)
	subID int

	// pending holds the effects and subscriber calls of committed versions
	// in commit order. One caller at a time drains it, without holding mu.
	pending  []dispatch
	draining bool
}

type dispatch struct {
	effects []alarm.Effect
	subs    []func(Snapshot)
	snap    Snapshot
}

// NewManager loads the stored tasks and profile. Unreadable data is logged and
// replaced by an empty collection.
func NewManager(store tasklib.Store, sched *alarm.Scheduler, clock alarm.Clock, l logger.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("todo: nil store")
	}
	if sched == nil {
		sched = alarm.NewScheduler(alarm.DefaultWindow, nil, l)
	}
	if clock == nil {
		clock = alarm.RealClock{}
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	tasks, err := store.LoadTasks()
	if err != nil {
		l.Warning("failed to load tasks, starting fresh: %v", err)
		tasks = []tasklib.Task{}
	}
	profile, err := store.LoadProfile()
	if err != nil {
		l.Warning("failed to load profile, signed out: %v", err)
		profile = nil
	}
	return &Manager{
		store: store,
		sched: sched,
		clock: clock,
		log:   l,
		snap: Snapshot{
			Version: 1,
			Tasks:   tasks,
			Ringing: sched.Ringing(),
			Session: profile,
		},
		subs: make(map[int]func(Snapshot)),
	}, nil
}

// Snapshot returns the latest committed version.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// Task returns a copy of the task with the given id.
func (m *Manager) Task(id string) (tasklib.Task, error) {
	snap := m.Snapshot()
	i := tasklib.IndexOf(snap.Tasks, id)
	if i < 0 {
		return tasklib.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return snap.Tasks[i].Clone(), nil
}

// Now returns the current time of the manager's clock.
func (m *Manager) Now() time.Time {
	return m.clock.Now()
}

// Window returns the alarm firing window.
func (m *Manager) Window() time.Duration {
	return m.sched.Window()
}

// Subscribe registers fn to receive every new snapshot, in commit order. fn
// runs outside the state lock. A slow fn delays later notifications without
// blocking readers or mutations. The returned function removes the
// subscription.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subID++
	id := m.subID
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

type mutation func(now time.Time, tasks []tasklib.Task) ([]tasklib.Task, []alarm.Effect, error)

// update applies fn to the latest tasks and commits the result. A result that
// is the same slice as its input and leaves the ringing slot alone commits
// nothing and writes nothing.
func (m *Manager) update(fn mutation) (Snapshot, bool, error) {
	m.mu.Lock()
	cur := m.snap
	next, effects, err := fn(m.clock.Now(), cur.Tasks)
	if err != nil {
		m.mu.Unlock()
		return cur, false, err
	}
	tasksChanged := !sameSlice(cur.Tasks, next)
	changed := tasksChanged || m.sched.Ringing() != cur.Ringing
	if changed {
		m.snap = Snapshot{
			Version: cur.Version + 1,
			Tasks:   next,
			Ringing: m.sched.Ringing(),
			Session: cur.Session,
		}
		if tasksChanged {
			if err := m.store.SaveTasks(next); err != nil {
				m.log.Error("failed to persist tasks: %v", err)
			}
		}
	}
	snap := m.snap
	m.enqueue(dispatch{effects: effects, subs: m.subscribers(changed), snap: snap})
	return snap, changed, nil
}

// enqueue must be called with mu held and releases it. The caller drains the
// queue unless another caller already does, in which case d runs there.
func (m *Manager) enqueue(d dispatch) {
	if len(d.effects) == 0 && len(d.subs) == 0 {
		m.mu.Unlock()
		return
	}
	m.pending = append(m.pending, d)
	if m.draining {
		m.mu.Unlock()
		return
	}
	m.draining = true
	m.mu.Unlock()
	m.drain()
}

func (m *Manager) drain() {
	for {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.pending = nil
			m.draining = false
			m.mu.Unlock()
			return
		}
		d := m.pending[0]
		m.pending = m.pending[1:]
		m.mu.Unlock()

		for _, e := range d.effects {
			m.sched.Dispatch(e)
		}
		for _, fn := range d.subs {
			fn(d.snap)
		}
	}
}

// subscribers must be called with mu held.
func (m *Manager) subscribers(changed bool) []func(Snapshot) {
	if !changed || len(m.subs) == 0 {
		return nil
	}
	out := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		out = append(out, fn)
	}
	return out
}

func sameSlice(a, b []tasklib.Task) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}

// Tick runs one alarm scan at now. It does nothing without an active session.
// It reports whether a task fired.
func (m *Manager) Tick(now time.Time) bool {
	fired := false
	_, _, _ = m.update(func(_ time.Time, tasks []tasklib.Task) ([]tasklib.Task, []alarm.Effect, error) {
		if m.snap.Session == nil {
			return tasks, nil, nil
		}
		next, eff := m.sched.Scan(now, tasks)
		if eff.Kind == alarm.EffectNone {
			return tasks, nil, nil
		}
		fired = true
		m.log.Info("alarm fired for task %s", eff.Task.ID)
		return next, []alarm.Effect{eff}, nil
	})
	return fired
}

// AddTask creates a task and appends it to the collection.
func (m *Manager) AddTask(opts tasklib.NewTaskOpts) (tasklib.Task, error) {
	var created tasklib.Task
	_, _, err := m.update(func(now time.Time, tasks []tasklib.Task) ([]tasklib.Task, []alarm.Effect, error) {
		t, err := tasklib.NewTask(opts, now)
		if err != nil {
			return nil, nil, err
		}
		created = t
		return appendTask(tasks, t), nil, nil
	})
	return created, err
}

// Patch lists the fields an edit changes. Nil fields are left alone.
type Patch struct {
	Text         *string
	Priority     *tasklib.Priority
	DueDate      *time.Time
	ClearDueDate bool
	AlarmEnabled *bool
	Recurrence   *string
}

// EditTask applies p to the task with the given id. Changing the due date
// rearms the task. Giving a due date to a task that had none also enables its
// alarm unless p says otherwise.
func (m *Manager) EditTask(id string, p Patch) (tasklib.Task, error) {
	var edited tasklib.Task
	_, _, err := m.update(func(_ time.Time, tasks []tasklib.Task) ([]tasklib.Task, []alarm.Effect, error) {
		i := tasklib.IndexOf(tasks, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		t, err := applyPatch(tasks[i], p)
		if err != nil {
			return nil, nil, err
		}
		edited = t
		return replaceTask(tasks, i, t), nil, nil
	})
	return edited, err
}

func applyPatch(t tasklib.Task, p Patch) (tasklib.Task, error) {
	t = t.Clone()
	if p.Text != nil {
		text := strings.TrimSpace(*p.Text)
		if text == "" {
			return t, tasklib.ErrEmptyText
		}
		t.Text = text
	}
	if p.Priority != nil {
		prio, err := tasklib.ParsePriority(string(*p.Priority))
		if err != nil {
			return t, err
		}
		t.Priority = prio
	}
	if p.Recurrence != nil {
		if err := tasklib.ValidateRecurrence(*p.Recurrence); err != nil {
			return t, err
		}
		t.Recurrence = *p.Recurrence
	}
	switch {
	case p.ClearDueDate:
		t = alarm.OnDueDateChanged(t, nil)
	case p.DueDate != nil:
		hadDue := t.DueDate != nil
		t = alarm.OnDueDateChanged(t, p.DueDate)
		if !hadDue && p.AlarmEnabled == nil {
			t.AlarmEnabled = true
		}
	}
	if p.AlarmEnabled != nil {
		t.AlarmEnabled = *p.AlarmEnabled
	}
	return t, nil
}

// ToggleCompleted flips the completion of a task. Completing the ringing task
// silences it; completing a recurring task schedules its next instance.
func (m *Manager) ToggleCompleted(id string) (tasklib.Task, error) {
	var toggled tasklib.Task
	_, _, err := m.update(func(now time.Time, tasks []tasklib.Task) ([]tasklib.Task, []alarm.Effect, error) {
		i := tasklib.IndexOf(tasks, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		t := alarm.OnCompletionToggled(tasks[i])
		next := replaceTask(tasks, i, t)
		var effects []alarm.Effect
		if t.Completed {
			if eff := m.sched.Release(id); eff.Kind != alarm.EffectNone {
				effects = append(effects, eff)
			}
			next = m.recur(now, next, i)
		}
		toggled = next[i]
		return next, effects, nil
	})
	return toggled, err
}

// DeleteTask removes a task, clearing the ringing slot if it held it.
func (m *Manager) DeleteTask(id string) error {
	_, _, err := m.update(func(_ time.Time, tasks []tasklib.Task) ([]tasklib.Task, []alarm.Effect, error) {
		i := tasklib.IndexOf(tasks, id)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		}
		next := make([]tasklib.Task, 0, len(tasks)-1)
		next = append(next, tasks[:i]...)
		next = append(next, tasks[i+1:]...)
		var effects []alarm.Effect
		if eff := m.sched.Release(id); eff.Kind != alarm.EffectNone {
			effects = append(effects, eff)
		}
		return next, effects, nil
	})
	return err
}

// Acknowledge answers the ringing alarm. It is a no-op when nothing rings.
func (m *Manager) Acknowledge(action alarm.Action) (Snapshot, error) {
	snap, _, err := m.update(func(now time.Time, tasks []tasklib.Task) ([]tasklib.Task, []alarm.Effect, error) {
		ringing := m.sched.Ringing()
		next, eff, err := m.sched.Acknowledge(tasks, action)
		if err != nil {
			return nil, nil, err
		}
		if eff.Kind == alarm.EffectNone {
			return next, nil, nil
		}
		m.log.Info("alarm for task %s acknowledged (%s)", ringing, action)
		if action == alarm.ActionComplete {
			if i := tasklib.IndexOf(next, ringing); i >= 0 {
				next = m.recur(now, next, i)
			}
		}
		return next, []alarm.Effect{eff}, nil
	})
	return snap, err
}

// recur appends the next instance of the just completed recurring task at
// tasks[i] and links it through NextID. An occurrence whose follow-up still
// exists is not spawned again, so reopening and completing it is idempotent.
func (m *Manager) recur(now time.Time, tasks []tasklib.Task, i int) []tasklib.Task {
	done := tasks[i]
	if done.Recurrence == "" {
		return tasks
	}
	if done.NextID != "" && tasklib.IndexOf(tasks, done.NextID) >= 0 {
		return tasks
	}
	nt, err := tasklib.NextInstance(done, now)
	if err != nil {
		m.log.Warning("failed to schedule next instance of %s: %v", done.ID, err)
		return tasks
	}
	done = done.Clone()
	done.NextID = nt.ID
	return appendTask(replaceTask(tasks, i, done), nt)
}

// Login starts a session for p, replacing any previous one.
func (m *Manager) Login(p tasklib.Profile) (*tasklib.Profile, error) {
	profile, err := tasklib.NewProfile(p)
	if err != nil {
		return nil, err
	}
	if err := m.setSession(profile); err != nil {
		return nil, err
	}
	m.log.Info("session started for %s", profile.Name)
	return profile, nil
}

// Logout ends the current session. Alarm scans stop until the next Login.
func (m *Manager) Logout() error {
	if m.Snapshot().Session == nil {
		return ErrNoSession
	}
	if err := m.setSession(nil); err != nil {
		return err
	}
	m.log.Info("session ended")
	return nil
}

// Session returns the signed-in profile, or nil.
func (m *Manager) Session() *tasklib.Profile {
	s := m.Snapshot().Session
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

func (m *Manager) setSession(p *tasklib.Profile) error {
	m.mu.Lock()
	if err := m.store.SaveProfile(p); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("persist profile: %w", err)
	}
	m.snap = Snapshot{
		Version: m.snap.Version + 1,
		Tasks:   m.snap.Tasks,
		Ringing: m.snap.Ringing,
		Session: p,
	}
	m.enqueue(dispatch{subs: m.subscribers(true), snap: m.snap})
	return nil
}

// Close releases the underlying store.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Close()
}

func appendTask(tasks []tasklib.Task, t tasklib.Task) []tasklib.Task {
	next := make([]tasklib.Task, len(tasks), len(tasks)+1)
	copy(next, tasks)
	return append(next, t)
}

func replaceTask(tasks []tasklib.Task, i int, t tasklib.Task) []tasklib.Task {
	next := make([]tasklib.Task, len(tasks))
	copy(next, tasks)
	next[i] = t
	return next
}
