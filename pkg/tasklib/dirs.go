package tasklib

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigDirEnv overrides the default configuration directory.
const ConfigDirEnv = "TASKPRO_CONFIG_DIR"

// ConfigDir is the absolute path of the taskpro configuration directory.
// It holds config.yaml, the data store, the daemon PID file and the
// fallback secret file.
var ConfigDir string

func init() {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		dir = defaultConfigDir()
	}
	// an unusable directory surfaces later when the store is opened
	_ = SetConfigDir(dir)
}

func defaultConfigDir() string {
	cdr, err := os.UserConfigDir()
	if err != nil {
		cdr = os.TempDir()
	}
	return filepath.Join(cdr, "taskpro")
}

// SetConfigDir points ConfigDir at dir, creating it when missing.
func SetConfigDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("config dir is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	ConfigDir = abs
	if err := os.MkdirAll(abs, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return nil
}
