//go:build windows

package cmd

import (
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/service"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

// The event source is registered by "taskpro service install".
func openEventLogger() (logger.Logger, error) {
	return logger.NewEventLogger(service.Name)
}
