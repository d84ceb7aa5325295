//go:build windows

package service

import (
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"
)

type scm struct {
	m *mgr.Mgr
}

type scmService struct {
	s *mgr.Service
}

// ConnectSCM opens the local Service Control Manager. Close it when done.
func ConnectSCM() (SCM, error) {
	m, err := mgr.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to service control manager: %w", err)
	}
	return &scm{m: m}, nil
}

func (c *scm) OpenService(name string) (Service, error) {
	s, err := c.m.OpenService(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrServiceNotFound, name, err)
	}
	return &scmService{s: s}, nil
}

func (c *scm) CreateService(name, exePath string, cfg Config) (Service, error) {
	if existing, err := c.m.OpenService(name); err == nil {
		existing.Close()
		return nil, ErrServiceExists
	}
	s, err := c.m.CreateService(name, exePath, mgr.Config{
		DisplayName:  cfg.DisplayName,
		Description:  cfg.Description,
		StartType:    cfg.StartType,
		ServiceType:  windows.SERVICE_WIN32_OWN_PROCESS,
		ErrorControl: windows.SERVICE_ERROR_NORMAL,
	}, cfg.Args...)
	if err != nil {
		return nil, fmt.Errorf("create service %s: %w", name, err)
	}
	return &scmService{s: s}, nil
}

func (c *scm) Close() error {
	return c.m.Disconnect()
}

func (s *scmService) Start() error {
	if err := s.s.Start(); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	return nil
}

func (s *scmService) Stop() error {
	if _, err := s.s.Control(svc.Stop); err != nil {
		return fmt.Errorf("stop service: %w", err)
	}
	return nil
}

func (s *scmService) Delete() error {
	if err := s.s.Delete(); err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}

func (s *scmService) Status() (Status, error) {
	q, err := s.s.Query()
	if err != nil {
		return 0, fmt.Errorf("query service: %w", err)
	}
	return Status(q.State), nil
}

func (s *scmService) Close() error {
	return s.s.Close()
}
