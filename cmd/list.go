package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/urfave/cli"

	"github.com/Awoyelevictor/Ai-task-manager-pros/cmd/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/alarm"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/taskcli"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

var lsFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "show-completed, c",
		Usage: "use this flag to list completed tasks only (default: false)",
	},
	cli.BoolFlag{
		Name:  "show-all, a",
		Usage: "use this flag to list pending and completed tasks (default: false)",
	},
	cli.StringFlag{
		Name:  "priority, p",
		Usage: "only list tasks of this priority (low, medium, high)",
	},
}

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	showAll := ctx.Bool("show-all")
	client, ok := getClient(ctx, "list")
	if !ok {
		return nil
	}
	defer client.Disconnect()

	l, err := client.List(&taskcli.ListOpts{
		ShowCompleted: ctx.Bool("show-completed") || showAll,
		ShowPending:   !ctx.Bool("show-completed") || showAll,
		Priority:      ctx.String("priority"),
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "list", "get_list", err)
		return nil
	}
	if len(l.Tasks) == 0 {
		fmt.Println("taskpro: no tasks found")
		return nil
	}
	fmt.Println(renderTasks(l.Tasks, l.Ringing, nowFunc()))
	return nil
}

// sortTasks orders pending tasks before completed ones, then by due date
// with undated tasks last, then by creation time.
func sortTasks(tasks []tasklib.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		switch {
		case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		case (a.DueDate == nil) != (b.DueDate == nil):
			return a.DueDate != nil
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// stateLabel describes the alarm side of a task for the list table.
func stateLabel(t tasklib.Task, ringing string, now time.Time) string {
	if t.Completed {
		return "done"
	}
	switch alarm.StateOf(t, ringing) {
	case alarm.StateRinging:
		return common.RingingLabel
	case alarm.StateFired:
		return "fired"
	case alarm.StateArmed:
		if t.DueDate.After(now) {
			return "in " + common.FormatRemaining(t.DueDate.Sub(now))
		}
		return "armed"
	}
	if t.IsOverdue(now) {
		return "overdue"
	}
	return "-"
}

func renderTasks(tasks []tasklib.Task, ringing string, now time.Time) string {
	tasks = tasklib.CloneTasks(tasks)
	sortTasks(tasks)

	txt := "Here are your tasks:"
	txt += "\n\n--------------------------------------------------------------------------------------"
	txt += "\n|Num|    ID    |            Task            | Priority |       Due        |   State    |"
	txt += "\n|---|----------|----------------------------|----------|------------------|------------|"
	for i, t := range tasks {
		txt += fmt.Sprintf("\n|%s| %s | %s | %s | %s | %s |",
			common.Beaut(fmt.Sprint(i+1), 3),
			common.Beaut(shortId(t.ID), 8),
			common.Beaut(common.Truncate(t.Text, 26), 26),
			common.Beaut(string(t.Priority), 8),
			common.Beaut(formatDue(t.DueDate, now), 16),
			common.Beaut(stateLabel(t, ringing, now), 10),
		)
	}
	txt += "\n--------------------------------------------------------------------------------------"
	return txt
}
