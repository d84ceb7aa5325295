package alarm

import (
	"runtime/debug"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

// Effects is the capability through which alarms reach the outside world.
// Errors are logged by the Scheduler and otherwise ignored.
type Effects interface {
	// OnFire starts the audible alarm and raises a notification for t.
	OnFire(t tasklib.Task) error
	// OnAcknowledge stops the audible alarm and rewinds it.
	OnAcknowledge() error
}

// EffectKind identifies which Effects hook a transition asks for.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectFire
	EffectSilence
)

func (k EffectKind) String() string {
	switch k {
	case EffectFire:
		return "fire"
	case EffectSilence:
		return "silence"
	default:
		return "none"
	}
}

// Effect describes the side effect owed after a committed transition.
type Effect struct {
	Kind EffectKind
	// Task is set for EffectFire.
	Task tasklib.Task
}

// Scheduler holds the ringing slot and applies the transition functions to
// snapshots handed in by the owner of the task collection.
//
// A Scheduler is not safe for concurrent use; its owner serializes calls
// together with the task mutations they belong to.
type Scheduler struct {
	window  time.Duration
	ringing string
	effects Effects
	log     logger.Logger
}

// NewScheduler returns a Scheduler firing within window of a due date.
// A non-positive window selects DefaultWindow. A nil effects discards effects.
func NewScheduler(window time.Duration, effects Effects, l logger.Logger) *Scheduler {
	if window <= 0 {
		window = DefaultWindow
	}
	if effects == nil {
		effects = nopEffects{}
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Scheduler{
		window:  window,
		effects: effects,
		log:     l,
	}
}

// Window returns the firing window.
func (s *Scheduler) Window() time.Duration {
	return s.window
}

// Ringing returns the ID in the ringing slot, or "".
func (s *Scheduler) Ringing() string {
	return s.ringing
}

// Scan runs one scan over tasks. When nothing fires the returned slice is
// tasks itself and the effect is EffectNone.
func (s *Scheduler) Scan(now time.Time, tasks []tasklib.Task) ([]tasklib.Task, Effect) {
	res := Scan(now, tasks, s.ringing, s.window)
	if !res.Changed() {
		return tasks, Effect{}
	}
	s.ringing = res.Ringing
	return res.Tasks, Effect{Kind: EffectFire, Task: *res.Fired}
}

// Acknowledge answers the ringing alarm and clears the slot. Calling it with
// nothing ringing changes nothing.
func (s *Scheduler) Acknowledge(tasks []tasklib.Task, action Action) ([]tasklib.Task, Effect, error) {
	next, err := Acknowledge(tasks, s.ringing, action)
	if err != nil {
		return tasks, Effect{}, err
	}
	if s.ringing == "" {
		return next, Effect{}, nil
	}
	s.ringing = ""
	return next, Effect{Kind: EffectSilence}, nil
}

// Release clears the slot if it holds id. The owner calls it when the
// ringing task is deleted or completed outside of Acknowledge.
func (s *Scheduler) Release(id string) Effect {
	if id == "" || s.ringing != id {
		return Effect{}
	}
	s.ringing = ""
	return Effect{Kind: EffectSilence}
}

// Dispatch invokes the Effects hook for e. Failures and panics are logged and
// swallowed. Call it after the transition that produced e is committed.
func (s *Scheduler) Dispatch(e Effect) {
	if e.Kind == EffectNone {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("PANIC [alarm %s]: %v\n%s", e.Kind, r, debug.Stack())
		}
	}()
	var err error
	switch e.Kind {
	case EffectFire:
		err = s.effects.OnFire(e.Task)
	case EffectSilence:
		err = s.effects.OnAcknowledge()
	}
	if err != nil {
		s.log.Warning("alarm %s effect failed: %v", e.Kind, err)
	}
}

type nopEffects struct{}

func (nopEffects) OnFire(tasklib.Task) error { return nil }
func (nopEffects) OnAcknowledge() error      { return nil }
