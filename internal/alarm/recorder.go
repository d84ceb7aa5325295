package alarm

import (
	"sync"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

// Recorder is an Effects implementation that records every call.
// FireErr and AckErr are returned from the respective hooks.
type Recorder struct {
	mu      sync.Mutex
	fired   []tasklib.Task
	acks    int
	FireErr error
	AckErr  error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnFire(t tasklib.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, t)
	return r.FireErr
}

func (r *Recorder) OnAcknowledge() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.acks++
	return r.AckErr
}

// Fired returns the tasks passed to OnFire, oldest first.
func (r *Recorder) Fired() []tasklib.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]tasklib.Task, len(r.fired))
	copy(out, r.fired)
	return out
}

// Acks returns how many times OnAcknowledge was called.
func (r *Recorder) Acks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.acks
}

var _ Effects = (*Recorder)(nil)
