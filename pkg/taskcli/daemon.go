package taskcli

import (
	"fmt"
	"time"
)

const (
	daemonStartTimeout = 3 * time.Second
	socketPollInterval = 50 * time.Millisecond
)

// Replaced in tests.
var (
	ensureDaemonFunc = ensureDaemon
	spawnFunc        = spawnDaemon
)

// ensureDaemon checks if the daemon is running and spawns it if not.
func ensureDaemon() error {
	if isDaemonRunning() {
		return nil
	}
	debugLog("daemon not running, starting it")
	if err := spawnFunc(); err != nil {
		return err
	}
	return waitForDaemon(daemonStartTimeout)
}

// waitForDaemon polls until the daemon answers or timeout expires.
func waitForDaemon(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if isDaemonRunning() {
			return nil
		}
		time.Sleep(socketPollInterval)
	}
	return fmt.Errorf("daemon failed to start within %v", timeout)
}

func isDaemonRunning() bool {
	conn, err := dial()
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
