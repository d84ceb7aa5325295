package cmd

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const DESCRIPTION = `
taskpro keeps a to-do list and rings an alarm when a task falls due.
The list lives in a background daemon that the client starts on demand.
`

const AddDescription = `The add command creates a task. A due date arms its alarm.

Due dates are accepted as "2006-01-02 15:04", "2006-01-02T15:04:05Z07:00",
"15:04" (today) or a relative offset such as "+90m".

`

const ListDescription = `The list command displays pending tasks; use the flags to include
completed ones. Armed tasks show their remaining time, the ringing
task is marked RINGING.

`

const EditDescription = `The edit command changes the given fields of a task. Changing the due
date rearms the alarm.

`

const AckDescription = `The ack command silences the ringing alarm. With --complete the ringing
task is also marked as completed.

`

const WatchDescription = `The watch command shows a countdown bar for every armed task and rings
the terminal bell while the daemon's alarm is ringing. Press Ctrl+C to stop.

`
