package cmd

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/Awoyelevictor/Ai-task-manager-pros/cmd/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/config"
	taskd "github.com/Awoyelevictor/Ai-task-manager-pros/internal/daemon"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/credman/keyring"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

var daemonFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "log-file",
		Usage: "also appends the daemon log to this file",
	},
	cli.BoolFlag{
		Name:  "event-log",
		Usage: "also writes the daemon log to the Windows Event Log (default: false)",
	},
}

// Replaced in tests.
var (
	shutdownHandlerFunc = setupShutdownHandler
	resolveSecretFunc   = resolveSecret
	daemonDepsFunc      = func(l logger.Logger) *taskd.Dependencies {
		return &taskd.Dependencies{Logger: l}
	}
)

func daemon(ctx *cli.Context) error {
	l, err := daemonLogger(ctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "logger", err)
		return nil
	}
	defer l.Close()

	runner, release := prepareDaemon(ctx, l)
	if runner == nil {
		return nil
	}
	defer release()

	sctx, cancel := shutdownHandlerFunc()
	defer cancel()

	err = runner.Start(sctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		common.PrintRuntimeErr(ctx, "daemon", "run", err)
	}
	return nil
}

// prepareDaemon loads the configuration, claims the PID file and builds the
// runner. It reports failures itself and returns a nil runner after one.
// release removes the PID file.
func prepareDaemon(ctx *cli.Context, l logger.Logger) (*taskd.Runner, func()) {
	cfg, err := config.Load(tasklib.ConfigDir)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "load_config", err)
		return nil, nil
	}
	if cfg.RPC.Enabled && cfg.RPC.Secret == "" {
		cfg.RPC.Secret, err = resolveSecretFunc(l)
		if err != nil {
			common.PrintRuntimeErr(ctx, "daemon", "rpc_secret", err)
			return nil, nil
		}
	}

	if err := checkPidFile(); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "pid_file", err)
		return nil, nil
	}
	if err := WritePidFile(); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "pid_file", err)
		return nil, nil
	}
	release := func() {
		if err := RemovePidFile(); err != nil {
			l.Warning("removing PID file: %v", err)
		}
	}

	runner := taskd.New(&taskd.Config{
		App: cfg,
		Build: taskd.BuildInfo{
			Version:   currentBuildArgs.Version,
			Commit:    currentBuildArgs.Commit,
			BuildType: currentBuildArgs.BuildType,
		},
	}, daemonDepsFunc(l))

	l.Info("taskpro daemon %s starting, data in %s (%s)", currentBuildArgs.Version, cfg.Storage.Dir, cfg.Storage.Backend)
	return runner, release
}

// daemonLogger logs to stderr and to the sinks selected by the flags.
func daemonLogger(ctx *cli.Context) (logger.Logger, error) {
	loggers := []logger.Logger{
		logger.NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags)),
	}
	if path := ctx.String("log-file"); path != "" {
		fl, err := logger.OpenFileLogger(path)
		if err != nil {
			return nil, err
		}
		loggers = append(loggers, fl)
	}
	if ctx.Bool("event-log") {
		el, err := openEventLogger()
		if err != nil {
			logger.NewMultiLogger(loggers...).Close()
			return nil, err
		}
		loggers = append(loggers, el)
	}
	if len(loggers) == 1 {
		return loggers[0], nil
	}
	return logger.NewMultiLogger(loggers...), nil
}

// resolveSecret returns the RPC secret from the OS keyring, creating it on
// first use. Without a usable keyring the secret lives in the config dir.
func resolveSecret(l logger.Logger) (string, error) {
	return keyring.Ensure(keyring.New(afero.NewOsFs(), tasklib.ConfigDir, l))
}
