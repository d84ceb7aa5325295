// Package common provides shared types and constants used across the taskpro
// client-server communication layer.
package common

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Environment variable names for configuration.
const (
	// SocketPathEnv is the environment variable for custom socket path.
	SocketPathEnv = "TASKPRO_SOCKET_PATH"

	// TCPPortEnv is the environment variable for custom TCP port.
	TCPPortEnv = "TASKPRO_TCP_PORT"

	// ForceTCPEnv is the environment variable to force TCP connections.
	ForceTCPEnv = "TASKPRO_FORCE_TCP"

	// PipeNameEnv overrides the Windows named pipe name.
	PipeNameEnv = "TASKPRO_PIPE_NAME"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "TASKPRO_DEBUG"
)

const (
	// TCPHost is the loopback address used for the TCP fallback.
	TCPHost = "127.0.0.1"

	// DefaultTCPPort is the TCP fallback port of the daemon socket.
	DefaultTCPPort = 4040

	// MaxMessageSize bounds a single framed message.
	MaxMessageSize = 4 << 20

	// DefaultDialTimeout bounds a single connection attempt by the client.
	DefaultDialTimeout = 3 * time.Second
)

// SocketPath returns the Unix socket path of the daemon.
func SocketPath() string {
	if path := os.Getenv(SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "taskpro.sock")
}

// TCPPort returns the TCP fallback port, honouring TASKPRO_TCP_PORT.
func TCPPort() int {
	if s := os.Getenv(TCPPortEnv); s != "" {
		if p, err := strconv.Atoi(s); err == nil && p > 0 && p <= 65535 {
			return p
		}
	}
	return DefaultTCPPort
}

// ForceTCP reports whether TASKPRO_FORCE_TCP asks for TCP only.
func ForceTCP() bool {
	v, _ := strconv.ParseBool(os.Getenv(ForceTCPEnv))
	return v
}
