// Package cmd implements the taskpro command line interface.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli"

	"github.com/Awoyelevictor/Ai-task-manager-pros/cmd/common"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

// currentBuildArgs is set by Execute for the daemon and the version check.
var currentBuildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "taskpro",
		HelpName:              "taskpro",
		Usage:                 "A to-do list with due-date alarms.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "taskpro <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:               "daemon",
				Usage:              "runs the alarm daemon in the foreground",
				Action:             daemonAction(),
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Flags:              daemonFlags,
			},
			{
				Name:               "stop-daemon",
				Usage:              "stops the running daemon",
				Action:             stopDaemon,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:                   "add",
				Aliases:                []string{"a"},
				Usage:                  "adds a task",
				Description:            AddDescription,
				Action:                 add,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				UseShortOptionHandling: true,
				Flags:                  addFlags,
			},
			{
				Name:                   "list",
				Aliases:                []string{"l", "ls"},
				Usage:                  "lists tasks",
				Description:            ListDescription,
				Action:                 list,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				UseShortOptionHandling: true,
				Flags:                  lsFlags,
			},
			{
				Name:               "edit",
				Aliases:            []string{"e"},
				Usage:              "changes a task",
				Description:        EditDescription,
				Action:             edit,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Flags:              editFlags,
			},
			{
				Name:               "done",
				Aliases:            []string{"d"},
				Usage:              "toggles a task between pending and completed",
				UsageText:          "taskpro done <task id>",
				Action:             done,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:               "rm",
				Usage:              "deletes a task",
				UsageText:          "taskpro rm <task id>",
				Action:             remove,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:               "ack",
				Usage:              "answers the ringing alarm",
				Description:        AckDescription,
				Action:             ack,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Flags:              ackFlags,
			},
			{
				Name:               "status",
				Aliases:            []string{"s"},
				Usage:              "shows the alarm state",
				Action:             status,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:               "watch",
				Aliases:            []string{"w"},
				Usage:              "counts down to armed tasks and rings with the daemon",
				Description:        WatchDescription,
				Action:             watch,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:               "login",
				Usage:              "starts a local session",
				UsageText:          "taskpro login --name <name> [--email <email>] [--birthday <yyyy-mm-dd>]",
				Action:             login,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Flags:              loginFlags,
			},
			{
				Name:               "logout",
				Usage:              "ends the local session",
				Action:             logout,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:  "config",
				Usage: "manages config.yaml",
				Subcommands: []cli.Command{
					{
						Name:   "init",
						Usage:  "writes the default configuration",
						Action: configInit,
						Flags:  configInitFlags,
					},
					{
						Name:   "show",
						Usage:  "prints the effective configuration",
						Action: configShow,
					},
				},
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of taskpro",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      list,
		Flags:       lsFlags,
		HideHelp:    true,
		HideVersion: true,
	}
	app.Commands = append(app.Commands, platformCommands()...)
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
