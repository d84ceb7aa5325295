//go:build windows

package server

import (
	"fmt"
	"net"

	"github.com/Microsoft/go-winio"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
)

// pipeSecurityDescriptor grants access to SYSTEM, Administrators and the
// creator owner only.
const pipeSecurityDescriptor = "D:(A;;GA;;;SY)(A;;GA;;;BA)(A;;GA;;;CO)"

// createListener creates a named pipe listener with TCP fallback.
// Transport priority: Named pipe > TCP
func (s *Server) createListener() (net.Listener, error) {
	if common.ForceTCP() {
		s.log.Info("force TCP mode enabled, using TCP listener")
		return s.listenTCP()
	}
	l, err := winio.ListenPipe(common.PipePath(), &winio.PipeConfig{
		SecurityDescriptor: pipeSecurityDescriptor,
	})
	if err != nil {
		s.log.Warning("named pipe creation failed: %v; falling back to TCP", err)
		return s.listenTCP()
	}
	return l, nil
}

func (s *Server) listenTCP() (net.Listener, error) {
	l, err := net.Listen("tcp", fmt.Sprintf("%s:%d", common.TCPHost, s.port))
	if err != nil {
		return nil, fmt.Errorf("error listening: %w", err)
	}
	return l, nil
}

// cleanupSocket is a no-op; the OS removes a named pipe with its last handle.
func cleanupSocket(string) error {
	return nil
}
