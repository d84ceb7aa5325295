package cmd

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/Awoyelevictor/Ai-task-manager-pros/cmd/common"
	apitypes "github.com/Awoyelevictor/Ai-task-manager-pros/common"
	internalalarm "github.com/Awoyelevictor/Ai-task-manager-pros/internal/alarm"
)

var ackFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "complete, c",
		Usage: "also marks the ringing task as completed (default: false)",
	},
}

func ack(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	action := internalalarm.ActionDismiss
	if ctx.Bool("complete") {
		action = internalalarm.ActionComplete
	}
	client, ok := getClient(ctx, "ack")
	if !ok {
		return nil
	}
	defer client.Disconnect()

	before, err := client.Status()
	if err != nil {
		common.PrintRuntimeErr(ctx, "ack", "get_status", err)
		return nil
	}
	if before.Ringing == nil {
		fmt.Println("taskpro: no alarm is ringing")
		return nil
	}
	if _, err := client.Ack(string(action)); err != nil {
		common.PrintRuntimeErr(ctx, "ack", "acknowledge", err)
		return nil
	}
	if action == internalalarm.ActionComplete {
		fmt.Printf("Alarm silenced, task %s completed: %s\n", shortId(before.Ringing.ID), before.Ringing.Text)
	} else {
		fmt.Printf("Alarm silenced: %s\n", before.Ringing.Text)
	}
	return nil
}

func status(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, ok := getClient(ctx, "status")
	if !ok {
		return nil
	}
	defer client.Disconnect()

	st, err := client.Status()
	if err != nil {
		common.PrintRuntimeErr(ctx, "status", "get_status", err)
		return nil
	}
	printStatus(st)
	return nil
}

func printStatus(st *apitypes.StatusResponse) {
	if st.Ringing != nil {
		fmt.Printf("Alarm: %s %s (%s)\n", common.RingingLabel, st.Ringing.Text, shortId(st.Ringing.ID))
	} else {
		fmt.Println("Alarm: silent")
	}
	fmt.Printf("Armed tasks: %d (window %s)\n", st.Armed, st.Window)
	if st.Next != nil && st.Next.DueDate != nil {
		fmt.Printf("Next: %s at %s (in %s)\n",
			st.Next.Text,
			formatDue(st.Next.DueDate, st.Now),
			common.FormatRemaining(st.Next.DueDate.Sub(st.Now)),
		)
	}
	if st.Session != nil {
		fmt.Printf("Session: %s\n", st.Session.Name)
	}
	fmt.Printf("Watchers: %d\n", st.Watchers)
}
