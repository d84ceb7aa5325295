package taskcli

import (
	"fmt"
	"io"
	"os"
)

// VersionCheckEnv suppresses version mismatch warnings when set to any
// non-empty value.
const VersionCheckEnv = "TASKPRO_SUPPRESS_VERSION_CHECK"

// CheckVersionMismatch warns on stderr when the daemon runs another version
// than the CLI. It never blocks execution.
func (c *Client) CheckVersionMismatch(expectedVersion string) {
	c.checkVersionMismatch(os.Stderr, expectedVersion)
}

func (c *Client) checkVersionMismatch(w io.Writer, expectedVersion string) {
	if expectedVersion == "" || os.Getenv(VersionCheckEnv) != "" {
		return
	}
	daemonVersion, err := c.GetDaemonVersion()
	if err != nil {
		fmt.Fprintf(w, "Warning: could not verify daemon version: %v\n", err)
		return
	}
	if daemonVersion.Version != expectedVersion {
		fmt.Fprintf(w, "Warning: CLI version (%s) differs from daemon version (%s)\n",
			expectedVersion, daemonVersion.Version)
		fmt.Fprintf(w, "Run 'taskpro stop-daemon' to restart the daemon with the new version.\n")
	}
}
