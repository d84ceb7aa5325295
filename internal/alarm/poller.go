package alarm

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

// DefaultPollInterval is the time between two scans.
const DefaultPollInterval = 5 * time.Second

var ErrPollerRunning = errors.New("poller is already running")

// TickFunc performs one scan at now. It must not block for long: the next
// tick is not delivered until it returns.
type TickFunc func(now time.Time)

// Poller calls a TickFunc at a fixed interval from a single goroutine, so two
// ticks never overlap. Stopping the poller is the only way to cancel it.
type Poller struct {
	interval time.Duration
	clock    Clock
	tick     TickFunc
	log      logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller creates a stopped Poller. A non-positive interval selects
// DefaultPollInterval and a nil clock selects RealClock.
func NewPoller(interval time.Duration, clock Clock, tick TickFunc, l logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if clock == nil {
		clock = RealClock{}
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Poller{
		interval: interval,
		clock:    clock,
		tick:     tick,
		log:      l,
	}
}

// Interval returns the configured tick interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run ticks once immediately and then every interval until ctx is cancelled
// or Stop is called. An already cancelled ctx returns without ticking.
func (p *Poller) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return ErrPollerRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	defer func() {
		cancel()
		p.mu.Lock()
		p.cancel = nil
		p.done = nil
		p.mu.Unlock()
		close(done)
	}()

	if ctx.Err() != nil {
		return nil
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runTick()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.runTick()
		}
	}
}

// Stop cancels a running poller and waits for the current tick to finish.
// It is a no-op when the poller is not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether Run is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) runTick() {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("PANIC [alarm tick]: %v\n%s", r, debug.Stack())
		}
	}()
	p.tick(p.clock.Now())
}
