//go:build !windows

package cmd

import (
	"errors"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

func openEventLogger() (logger.Logger, error) {
	return nil, errors.New("the event log is only available on Windows")
}
