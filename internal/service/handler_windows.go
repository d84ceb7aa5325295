//go:build windows

// Package service runs the taskpro daemon under the Windows Service Control
// Manager and installs or removes that service.
package service

import (
	"context"
	"time"

	"golang.org/x/sys/windows/svc"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

const (
	Name        = "taskprod"
	DisplayName = "Taskpro Alarm Daemon"
	Description = "Rings alarms for due taskpro tasks."
)

const acceptedCommands = svc.AcceptStop | svc.AcceptShutdown

// startGrace is how long Execute waits for an immediate Start failure
// before reporting Running.
const startGrace = 50 * time.Millisecond

// Runner is the part of the daemon runner the handler drives.
type Runner interface {
	Start(ctx context.Context) error
	Shutdown() error
}

// Handler implements svc.Handler for the daemon.
type Handler struct {
	runner Runner
	log    logger.Logger
}

func NewHandler(r Runner, l logger.Logger) *Handler {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Handler{runner: r, log: l}
}

// Execute walks StartPending, Running, StopPending and Stopped. Service
// arguments are ignored; settings come from config.yaml.
func (h *Handler) Execute(_ []string, requests <-chan svc.ChangeRequest, status chan<- svc.Status) (bool, uint32) {
	status <- svc.Status{State: svc.StartPending}
	h.log.Info("service %s starting", Name)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startErr := make(chan error, 1)
	go func() {
		startErr <- h.runner.Start(ctx)
	}()

	select {
	case err := <-startErr:
		if err != nil {
			h.log.Error("service %s failed to start: %v", Name, err)
			status <- svc.Status{State: svc.Stopped}
			return false, 1
		}
	case <-time.After(startGrace):
	}

	status <- svc.Status{State: svc.Running, Accepts: acceptedCommands}
	h.log.Info("service %s running", Name)

	for req := range requests {
		switch req.Cmd {
		case svc.Interrogate:
			status <- req.CurrentStatus
		case svc.Stop, svc.Shutdown:
			return h.stop(status, cancel)
		default:
			h.log.Warning("unexpected service control request #%d", req.Cmd)
		}
	}
	return false, 0
}

func (h *Handler) stop(status chan<- svc.Status, cancel context.CancelFunc) (bool, uint32) {
	status <- svc.Status{State: svc.StopPending}
	h.log.Info("service %s stopping", Name)
	cancel()

	if err := h.runner.Shutdown(); err != nil {
		h.log.Error("service %s shutdown: %v", Name, err)
		status <- svc.Status{State: svc.Stopped}
		return false, 1
	}
	status <- svc.Status{State: svc.Stopped}
	return false, 0
}

// IsService reports whether the process was started by the SCM.
func IsService() (bool, error) {
	return svc.IsWindowsService()
}

// Run blocks until the SCM stops the service.
func Run(h *Handler) error {
	return svc.Run(Name, h)
}
