// Package daemon runs the taskpro daemon: it builds the components, serves
// the socket and JSON-RPC endpoints, drives the alarm poller and shuts all of
// it down gracefully.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/alarm"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/config"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/ringer"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

// Sentinel errors for the daemon runner.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running daemon.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Shutdown() is called on a stopped daemon.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrShutdownTimeout is returned when shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timed out")
)

// DefaultShutdownTimeout bounds the graceful stop of the HTTP endpoint.
const DefaultShutdownTimeout = 5 * time.Second

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildType string
}

// Config holds the configuration for the daemon runner.
type Config struct {
	// App is the loaded taskpro configuration. Nil selects the defaults
	// with storage in tasklib.ConfigDir.
	App   *config.Config
	Build BuildInfo

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// A zero value selects DefaultShutdownTimeout.
	ShutdownTimeout time.Duration
}

// Dependencies holds the external dependencies for the daemon runner.
// This enables dependency injection for testing.
type Dependencies struct {
	// OpenStore opens the task store. If nil, tasklib.OpenStore is used.
	OpenStore func(backend, dir string) (tasklib.Store, error)

	// Clock drives alarm scans. If nil, the system clock is used.
	Clock alarm.Clock

	// Player sounds the alarm. If nil, the configured command or the
	// terminal bell is used.
	Player ringer.Player

	// Logger receives daemon logs. If nil, logs are discarded.
	Logger logger.Logger

	// ListenerFactory creates network listeners. If nil, the socket server
	// uses its platform transport and the JSON-RPC endpoint uses net.Listen.
	ListenerFactory func(network, address string) (net.Listener, error)

	// ShutdownFunc is called during shutdown to clean up resources.
	// If nil, no cleanup function is called.
	ShutdownFunc func() error
}

// Runner manages the daemon lifecycle.
type Runner struct {
	config  *Config
	deps    *Dependencies
	running bool
	mu      sync.Mutex
	cancel  context.CancelFunc
	comps   *Components
	stopped chan struct{}
}

// New creates a new daemon runner with the given configuration and dependencies.
// Nil arguments select the defaults.
func New(cfg *Config, deps *Dependencies) *Runner {
	return &Runner{
		config: applyConfigDefaults(cfg),
		deps:   applyDependencyDefaults(deps, cfg),
	}
}

func applyConfigDefaults(cfg *Config) *Config {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.App == nil {
		cfg.App = config.DefaultConfig()
	}
	if cfg.App.Storage.Dir == "" {
		cfg.App.Storage.Dir = tasklib.ConfigDir
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return cfg
}

func applyDependencyDefaults(deps *Dependencies, cfg *Config) *Dependencies {
	if deps == nil {
		deps = &Dependencies{}
	}
	if deps.OpenStore == nil {
		deps.OpenStore = tasklib.OpenStore
	}
	if deps.Clock == nil {
		deps.Clock = alarm.RealClock{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	if deps.Player == nil {
		var command []string
		if cfg != nil && cfg.App != nil {
			command = cfg.App.Sound.Command
		}
		deps.Player = ringer.NewPlayer(command, os.Stdout)
	}
	return deps
}

// Config returns the runner's configuration.
func (r *Runner) Config() *Config {
	return r.config
}

// Components returns the components of the running daemon, or nil.
func (r *Runner) Components() *Components {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.comps
}

// Start builds the components and serves until the context is canceled,
// Shutdown is called or a listener fails.
// Returns ErrAlreadyRunning if the daemon is already started.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}

	comps, err := NewComponents(r.config, r.deps)
	if err != nil {
		r.mu.Unlock()
		return err
	}

	// Listeners are created before running is set so that a failed bind
	// leaves the runner stopped.
	sockListener, rpcListener, err := r.listen(comps)
	if err != nil {
		comps.Close()
		r.mu.Unlock()
		return err
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.comps = comps
	r.running = true
	r.stopped = make(chan struct{})
	stopped := r.stopped
	r.mu.Unlock()
	defer close(stopped)

	log := r.deps.Logger
	errCh := make(chan error, 2)

	go func() {
		if err := comps.Poller.Run(ctx); err != nil {
			log.Error("alarm poller: %v", err)
		}
	}()
	go func() {
		var err error
		if sockListener != nil {
			err = comps.Server.Serve(ctx, sockListener)
		} else {
			err = comps.Server.Start(ctx)
		}
		errCh <- err
	}()
	if comps.Web != nil {
		go func() {
			errCh <- comps.Web.Serve(rpcListener)
		}()
	}
	log.Info("daemon started (window %v, poll %v)", r.config.App.Alarm.Window, r.config.App.Alarm.PollInterval)

	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-errCh:
		if err == nil {
			err = ctx.Err()
		}
	}

	r.cleanupOnStop()
	return err
}

// listen opens the listeners that Start needs. A nil socket listener means
// the socket server opens its own.
func (r *Runner) listen(comps *Components) (sock, rpc net.Listener, err error) {
	if f := r.deps.ListenerFactory; f != nil {
		sock, err = f("tcp", fmt.Sprintf("%s:%d", common.TCPHost, r.config.App.Server.Port))
		if err != nil {
			return nil, nil, err
		}
	}
	if comps.Web == nil {
		return sock, nil, nil
	}
	listen := r.deps.ListenerFactory
	if listen == nil {
		listen = net.Listen
	}
	rpc, err = listen("tcp", comps.Web.Addr())
	if err != nil {
		if sock != nil {
			_ = sock.Close()
		}
		return nil, nil, fmt.Errorf("rpc listener: %w", err)
	}
	return sock, rpc, nil
}

// cleanupOnStop stops the listeners and releases the components.
func (r *Runner) cleanupOnStop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.running = false
	if r.cancel != nil {
		r.cancel()
	}
	if r.comps == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
	defer cancel()
	if r.comps.Web != nil {
		if err := r.comps.Web.Shutdown(ctx); err != nil {
			r.deps.Logger.Warning("rpc shutdown: %v", err)
		}
	}
	_ = r.comps.Server.Shutdown()
	r.comps.Close()
	r.comps = nil
	r.deps.Logger.Info("daemon stopped")
}

// Shutdown gracefully stops the daemon and waits for Start to return.
// Returns ErrNotRunning if the daemon is not running.
// Returns ErrShutdownTimeout if the shutdown function exceeds the configured timeout.
func (r *Runner) Shutdown() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return ErrNotRunning
	}
	stopped := r.stopped
	r.mu.Unlock()

	if err := r.executeShutdownFunc(); err != nil {
		return err
	}

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()
	<-stopped
	return nil
}

// executeShutdownFunc runs the shutdown function within the configured timeout.
func (r *Runner) executeShutdownFunc() error {
	if r.deps.ShutdownFunc == nil {
		return nil
	}
	return r.executeWithTimeout(r.deps.ShutdownFunc, r.config.ShutdownTimeout)
}

// executeWithTimeout runs a function with a timeout.
// Returns ErrShutdownTimeout if the function exceeds the timeout, after
// forcing the daemon to stop.
func (r *Runner) executeWithTimeout(fn func() error, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		if err != nil {
			r.deps.Logger.Warning("shutdown hook: %v", err)
		}
		return nil
	case <-time.After(timeout):
		r.forceStop()
		return ErrShutdownTimeout
	}
}

// forceStop cancels the daemon without waiting for it to finish.
func (r *Runner) forceStop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
}

// IsRunning returns true if the daemon is currently running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
