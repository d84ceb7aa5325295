//go:build !windows

package taskcli

import (
	"fmt"
	"net"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
)

// dial connects to the daemon.
// Transport priority: Unix socket > TCP
func dial() (net.Conn, error) {
	if common.ForceTCP() {
		return dialFunc("tcp", tcpAddress())
	}
	path := common.SocketPath()
	debugLog("Attempting connection via Unix socket at %s", path)
	conn, unixErr := dialFunc("unix", path)
	if unixErr == nil {
		return conn, nil
	}
	debugLog("Unix socket connection failed: %v, falling back to TCP", unixErr)
	conn, err := dialFunc("tcp", tcpAddress())
	if err != nil {
		return nil, fmt.Errorf("failed to connect: unix socket error: %v; tcp error: %w", unixErr, err)
	}
	return conn, nil
}

// dialURI connects to the daemon named by uri.
func dialURI(uri *DaemonURI) (net.Conn, error) {
	switch uri.Scheme {
	case SchemeUnix, SchemeTCP:
		debugLog("Connecting via %s to %s", uri.Scheme, uri.Address)
		conn, err := dialFunc(uri.Scheme, uri.Address)
		if err != nil {
			return nil, fmt.Errorf("%s connection failed: %w", uri.Scheme, err)
		}
		return conn, nil
	case SchemePipe:
		return nil, ErrPipeNotSupported
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, uri.Scheme)
	}
}
