package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/Awoyelevictor/Ai-task-manager-pros/cmd/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/config"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

var configInitFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "force, f",
		Usage: "overwrites an existing config.yaml (default: false)",
	},
}

func configInit(ctx *cli.Context) error {
	path := config.Path(tasklib.ConfigDir)
	err := config.WriteDefault(path, ctx.Bool("force"))
	if errors.Is(err, config.ErrConfigExists) {
		fmt.Printf("%s already exists, use --force to overwrite it\n", path)
		return nil
	}
	if err != nil {
		common.PrintRuntimeErr(ctx, "config", "write_default", err)
		return nil
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

// configShow prints the configuration the daemon would run with, including
// environment overrides. The RPC secret is masked.
func configShow(ctx *cli.Context) error {
	cfg, err := config.Load(tasklib.ConfigDir)
	if err != nil {
		common.PrintRuntimeErr(ctx, "config", "load", err)
		return nil
	}
	if cfg.RPC.Secret != "" {
		cfg.RPC.Secret = "********"
	}
	b, err := config.Marshal(cfg)
	if err != nil {
		common.PrintRuntimeErr(ctx, "config", "marshal", err)
		return nil
	}
	fmt.Printf("# %s\n%s", config.Path(tasklib.ConfigDir), b)
	return nil
}
