package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/Awoyelevictor/Ai-task-manager-pros/cmd/common"
	apitypes "github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/taskcli"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

var nowFunc = time.Now

var (
	errNoText       = errors.New("no task text provided")
	errNothingToSet = errors.New("nothing to change, see the supported flags")
	errEmptyDue     = errors.New("empty due date, use --clear-due to remove it")
)

var (
	addFlags = []cli.Flag{
		cli.StringFlag{
			Name:  "priority, p",
			Usage: "low, medium or high (default: medium)",
		},
		cli.StringFlag{
			Name:  "due, d",
			Usage: "due date; arms the alarm",
		},
		cli.StringFlag{
			Name:  "recur, r",
			Usage: "cron expression adding the next instance once the task is completed",
		},
	}

	editFlags = []cli.Flag{
		cli.StringFlag{
			Name:  "text, t",
			Usage: "new task text",
		},
		cli.StringFlag{
			Name:  "priority, p",
			Usage: "low, medium or high",
		},
		cli.StringFlag{
			Name:  "due, d",
			Usage: "new due date; rearms the alarm",
		},
		cli.BoolFlag{
			Name:  "clear-due",
			Usage: "removes the due date",
		},
		cli.StringFlag{
			Name:  "alarm",
			Usage: "on or off",
		},
		cli.StringFlag{
			Name:  "recur, r",
			Usage: "cron expression, empty to stop repeating",
		},
	}
)

func add(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	text := strings.TrimSpace(strings.Join(ctx.Args(), " "))
	if text == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoText)
	}
	now := nowFunc()
	due, err := parseDue(ctx.String("due"), now)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	client, ok := getClient(ctx, "add")
	if !ok {
		return nil
	}
	defer client.Disconnect()

	res, err := client.Add(text, &taskcli.AddOpts{
		Priority:   ctx.String("priority"),
		DueDate:    due,
		Recurrence: ctx.String("recur"),
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "add", "add_task", err)
		return nil
	}
	printTask("Added", res.Task, now)
	return nil
}

func edit(ctx *cli.Context) error {
	id := ctx.Args().First()
	switch id {
	case "help":
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	case "":
		return common.PrintErrWithCmdHelp(ctx, errNoTaskId)
	}
	now := nowFunc()
	params, err := editParams(ctx, now)
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	client, ok := getClient(ctx, "edit")
	if !ok {
		return nil
	}
	defer client.Disconnect()

	params.TaskId, err = resolveTaskId(client, id)
	if err != nil {
		common.PrintRuntimeErr(ctx, "edit", "resolve_id", err)
		return nil
	}
	res, err := client.Edit(params)
	if err != nil {
		common.PrintRuntimeErr(ctx, "edit", "edit_task", err)
		return nil
	}
	printTask("Updated", res.Task, now)
	return nil
}

// editParams collects the flags that were given on the command line.
func editParams(ctx *cli.Context, now time.Time) (*apitypes.EditParams, error) {
	params := &apitypes.EditParams{}
	changed := false
	if ctx.IsSet("text") {
		v := ctx.String("text")
		params.Text = &v
		changed = true
	}
	if ctx.IsSet("priority") {
		v := ctx.String("priority")
		params.Priority = &v
		changed = true
	}
	if ctx.IsSet("due") {
		due, err := parseDue(ctx.String("due"), now)
		if err != nil {
			return nil, err
		}
		if due == nil {
			return nil, errEmptyDue
		}
		params.DueDate = due
		changed = true
	}
	if ctx.Bool("clear-due") {
		params.ClearDueDate = true
		changed = true
	}
	if ctx.IsSet("alarm") {
		on, err := parseSwitch(ctx.String("alarm"))
		if err != nil {
			return nil, err
		}
		params.AlarmEnabled = &on
		changed = true
	}
	if ctx.IsSet("recur") {
		v := ctx.String("recur")
		params.Recurrence = &v
		changed = true
	}
	if !changed {
		return nil, errNothingToSet
	}
	return params, nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return b, nil
}

func done(ctx *cli.Context) error {
	id := ctx.Args().First()
	switch id {
	case "help":
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	case "":
		return common.PrintErrWithCmdHelp(ctx, errNoTaskId)
	}
	client, ok := getClient(ctx, "done")
	if !ok {
		return nil
	}
	defer client.Disconnect()

	full, err := resolveTaskId(client, id)
	if err != nil {
		common.PrintRuntimeErr(ctx, "done", "resolve_id", err)
		return nil
	}
	res, err := client.Toggle(full)
	if err != nil {
		common.PrintRuntimeErr(ctx, "done", "toggle_task", err)
		return nil
	}
	if res.Task.Completed {
		printTask("Completed", res.Task, nowFunc())
	} else {
		printTask("Reopened", res.Task, nowFunc())
	}
	return nil
}

func remove(ctx *cli.Context) error {
	id := ctx.Args().First()
	switch id {
	case "help":
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	case "":
		return common.PrintErrWithCmdHelp(ctx, errNoTaskId)
	}
	client, ok := getClient(ctx, "rm")
	if !ok {
		return nil
	}
	defer client.Disconnect()

	full, err := resolveTaskId(client, id)
	if err != nil {
		common.PrintRuntimeErr(ctx, "rm", "resolve_id", err)
		return nil
	}
	if err := client.Delete(full); err != nil {
		common.PrintRuntimeErr(ctx, "rm", "delete_task", err)
		return nil
	}
	fmt.Printf("Deleted task %s\n", shortId(full))
	return nil
}

func shortId(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printTask(verb string, t tasklib.Task, now time.Time) {
	fmt.Printf("%s task %s: %s\n", verb, shortId(t.ID), t.Text)
	if t.DueDate != nil {
		alarm := "off"
		if t.AlarmEnabled && !t.Completed {
			alarm = "on"
		}
		fmt.Printf("Due: %s (alarm %s)\n", formatDue(t.DueDate, now), alarm)
	}
	if t.Recurrence != "" {
		fmt.Printf("Repeats: %s\n", t.Recurrence)
	}
}
