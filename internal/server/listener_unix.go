//go:build !windows

package server

import (
	"fmt"
	"net"
	"os"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
)

// createListener creates a Unix socket listener with TCP fallback.
// Transport priority: Unix socket > TCP
func (s *Server) createListener() (net.Listener, error) {
	if common.ForceTCP() {
		s.log.Info("force TCP mode enabled, using TCP listener")
		return s.listenTCP()
	}
	path := socketPath()
	_ = os.Remove(path)
	l, err := net.ListenUnix("unix", &net.UnixAddr{
		Name: path,
		Net:  "unix",
	})
	if err != nil {
		s.log.Warning("unix socket unavailable: %v; trying tcp", err)
		return s.listenTCP()
	}
	_ = os.Chmod(path, 0700)
	s.mu.Lock()
	s.sockFile = path
	s.mu.Unlock()
	return l, nil
}

func (s *Server) listenTCP() (net.Listener, error) {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	if err != nil {
		return nil, fmt.Errorf("error listening: %w", err)
	}
	return l, nil
}

// cleanupSocket removes the Unix socket file.
func cleanupSocket(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
