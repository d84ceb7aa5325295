package taskcli

import (
	"fmt"
	"log"
	"net"
	"os"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
)

// DaemonURIEnv points the client at a specific daemon, e.g.
// tcp://127.0.0.1:4040 or unix:///run/taskpro.sock.
const DaemonURIEnv = "TASKPRO_DAEMON_URI"

var dialFunc = func(network, address string) (net.Conn, error) {
	return net.DialTimeout(network, address, common.DefaultDialTimeout)
}

func daemonURIFromEnv() string {
	return os.Getenv(DaemonURIEnv)
}

// debugMode returns true if TASKPRO_DEBUG=1
func debugMode() bool {
	return os.Getenv(common.DebugEnv) == "1"
}

func tcpAddress() string {
	return fmt.Sprintf("%s:%d", common.TCPHost, common.TCPPort())
}

// debugLog logs only if debugMode() is true
func debugLog(format string, args ...any) {
	if debugMode() {
		log.Printf(format, args...)
	}
}
