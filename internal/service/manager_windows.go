//go:build windows

package service

import (
	"errors"
	"fmt"
)

var (
	ErrServiceExists     = errors.New("service already exists")
	ErrServiceNotFound   = errors.New("service not found")
	ErrServiceRunning    = errors.New("service is already running")
	ErrServiceNotRunning = errors.New("service is not running")
)

// Windows SERVICE_START_TYPE values.
const (
	StartAutomatic uint32 = 2
	StartManual    uint32 = 3
)

// Status mirrors the dwCurrentState values of SERVICE_STATUS.
type Status uint32

const (
	StatusStopped         Status = 1
	StatusStartPending    Status = 2
	StatusStopPending     Status = 3
	StatusRunning         Status = 4
	StatusContinuePending Status = 5
	StatusPausePending    Status = 6
	StatusPaused          Status = 7
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusStartPending:
		return "starting"
	case StatusStopPending:
		return "stopping"
	case StatusRunning:
		return "running"
	case StatusContinuePending:
		return "resuming"
	case StatusPausePending:
		return "pausing"
	case StatusPaused:
		return "paused"
	default:
		return fmt.Sprintf("unknown (%d)", uint32(s))
	}
}

type Config struct {
	DisplayName string
	Description string
	StartType   uint32
	Args        []string
}

// SCM is the subset of the Service Control Manager the Manager uses.
type SCM interface {
	OpenService(name string) (Service, error)
	CreateService(name, exePath string, cfg Config) (Service, error)
	Close() error
}

type Service interface {
	Start() error
	Stop() error
	Delete() error
	Status() (Status, error)
	Close() error
}

// Manager installs and controls the daemon service.
type Manager struct {
	scm SCM
}

func NewManager(scm SCM) *Manager {
	return &Manager{scm: scm}
}

// Install registers exePath as the service binary. args are passed to the
// binary on every start, e.g. []string{"daemon"}.
func (m *Manager) Install(exePath string, args ...string) error {
	s, err := m.scm.CreateService(Name, exePath, Config{
		DisplayName: DisplayName,
		Description: Description,
		StartType:   StartAutomatic,
		Args:        args,
	})
	if err != nil {
		return err
	}
	return s.Close()
}

// Uninstall stops the service when it runs and removes it.
func (m *Manager) Uninstall() error {
	s, err := m.scm.OpenService(Name)
	if err != nil {
		return err
	}
	defer s.Close()

	st, err := s.Status()
	if err != nil {
		return err
	}
	if st == StatusRunning {
		if err := s.Stop(); err != nil {
			return err
		}
	}
	return s.Delete()
}

func (m *Manager) Start() error {
	s, err := m.scm.OpenService(Name)
	if err != nil {
		return err
	}
	defer s.Close()

	st, err := s.Status()
	if err != nil {
		return err
	}
	if st == StatusRunning {
		return ErrServiceRunning
	}
	return s.Start()
}

func (m *Manager) Stop() error {
	s, err := m.scm.OpenService(Name)
	if err != nil {
		return err
	}
	defer s.Close()

	st, err := s.Status()
	if err != nil {
		return err
	}
	if st == StatusStopped {
		return ErrServiceNotRunning
	}
	return s.Stop()
}

func (m *Manager) Status() (Status, error) {
	s, err := m.scm.OpenService(Name)
	if err != nil {
		return 0, err
	}
	defer s.Close()
	return s.Status()
}
