//go:build windows

package taskcli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
)

// dialPipeFunc is replaced in tests.
var dialPipeFunc = dialPipeImpl

func dialPipeImpl(path string, timeout time.Duration) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return winio.DialPipeContext(ctx, path)
}

// dial connects to the daemon.
// Transport priority: Named Pipe > TCP
func dial() (net.Conn, error) {
	if common.ForceTCP() {
		return dialFunc("tcp", tcpAddress())
	}
	pipePath := common.PipePath()
	debugLog("Attempting connection via named pipe at %s", pipePath)
	conn, pipeErr := dialPipeFunc(pipePath, common.DefaultDialTimeout)
	if pipeErr == nil {
		return conn, nil
	}
	debugLog("Named pipe connection failed: %v, falling back to TCP", pipeErr)
	conn, err := dialFunc("tcp", tcpAddress())
	if err != nil {
		return nil, fmt.Errorf("failed to connect: named pipe error: %v; tcp error: %w", pipeErr, err)
	}
	return conn, nil
}

// dialURI connects to the daemon named by uri.
func dialURI(uri *DaemonURI) (net.Conn, error) {
	switch uri.Scheme {
	case SchemePipe:
		return dialPipeFunc(uri.Address, common.DefaultDialTimeout)
	case SchemeTCP:
		conn, err := dialFunc("tcp", uri.Address)
		if err != nil {
			return nil, fmt.Errorf("tcp connection failed: %w", err)
		}
		return conn, nil
	case SchemeUnix:
		return nil, ErrUnixNotSupported
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, uri.Scheme)
	}
}
