//go:build windows

package cmd

import (
	"log"
	"os"

	"github.com/urfave/cli"

	"github.com/Awoyelevictor/Ai-task-manager-pros/cmd/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/service"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

var isServiceFunc = service.IsService

func daemonAction() cli.ActionFunc {
	return daemonWindows
}

func platformCommands() []cli.Command {
	return []cli.Command{serviceCommand()}
}

// daemonWindows runs under the SCM when started as a service and falls
// back to the console daemon otherwise.
func daemonWindows(ctx *cli.Context) error {
	isService, err := isServiceFunc()
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "service_check", err)
		return nil
	}
	if !isService {
		return daemon(ctx)
	}

	var l logger.Logger = logger.NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags))
	if el, err := openEventLogger(); err == nil {
		l = logger.NewMultiLogger(l, el)
	}
	defer l.Close()

	runner, release := prepareDaemon(ctx, l)
	if runner == nil {
		return nil
	}
	defer release()

	if err := service.Run(service.NewHandler(runner, l)); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "service", err)
	}
	return nil
}
