// Package ringer implements the side effects of a firing alarm: a looping
// sound, a permission-gated notification and event pushes to connected
// clients.
package ringer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

// DefaultInterval is the pause between two repetitions of the alarm sound.
const DefaultInterval = time.Second

// Player plays one repetition of the alarm sound.
type Player interface {
	Play(ctx context.Context) error
}

// BellPlayer writes the terminal bell character to W.
type BellPlayer struct {
	W io.Writer
}

func (b BellPlayer) Play(context.Context) error {
	_, err := io.WriteString(b.W, "\a")
	return err
}

// CommandPlayer runs an external command, e.g. ["paplay", "alarm.oga"].
type CommandPlayer struct {
	Argv []string
}

var errEmptyCommand = errors.New("empty sound command")

func (c CommandPlayer) Play(ctx context.Context) error {
	if len(c.Argv) == 0 {
		return errEmptyCommand
	}
	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("%s: %w", c.Argv[0], err)
	}
	return nil
}

// NewPlayer returns a CommandPlayer for argv, or a BellPlayer on w when argv
// is empty.
func NewPlayer(argv []string, w io.Writer) Player {
	if len(argv) == 0 {
		return BellPlayer{W: w}
	}
	return CommandPlayer{Argv: argv}
}

// Alarm loops a Player until stopped.
type Alarm struct {
	player   Player
	interval time.Duration
	log      logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewAlarm(p Player, interval time.Duration, l logger.Logger) *Alarm {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Alarm{player: p, interval: interval, log: l}
}

// Start begins the loop. It does nothing if the alarm is already sounding.
func (a *Alarm) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.done = make(chan struct{})
	go a.loop(ctx, a.done)
}

// Stop silences the alarm and waits for the loop to exit. The next Start
// begins again from the first repetition.
func (a *Alarm) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Sounding reports whether the loop is running.
func (a *Alarm) Sounding() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}

func (a *Alarm) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if err := a.play(ctx); err != nil {
			a.log.Warning("alarm sound failed: %v", err)
		}
		timer.Reset(a.interval)
	}
}

func (a *Alarm) play(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return a.player.Play(ctx)
}
