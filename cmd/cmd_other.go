//go:build !windows

package cmd

import "github.com/urfave/cli"

func daemonAction() cli.ActionFunc {
	return daemon
}

func platformCommands() []cli.Command {
	return nil
}
