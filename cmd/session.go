package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli"

	"github.com/Awoyelevictor/Ai-task-manager-pros/cmd/common"
	apitypes "github.com/Awoyelevictor/Ai-task-manager-pros/common"
)

var loginFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "name, n",
		Usage: "display name (required)",
	},
	cli.StringFlag{
		Name:  "email, e",
		Usage: "email address",
	},
	cli.StringFlag{
		Name:  "birthday, b",
		Usage: "birthday as yyyy-mm-dd",
	},
}

func login(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	name := ctx.String("name")
	if name == "" {
		name = ctx.Args().First()
	}
	if name == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no name provided"))
	}
	client, ok := getClient(ctx, "login")
	if !ok {
		return nil
	}
	defer client.Disconnect()

	res, err := client.Login(&apitypes.LoginParams{
		Name:     name,
		Email:    ctx.String("email"),
		Birthday: ctx.String("birthday"),
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "login", "login", err)
		return nil
	}
	fmt.Printf("Logged in as %s\n", res.Profile.Name)
	return nil
}

func logout(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, ok := getClient(ctx, "logout")
	if !ok {
		return nil
	}
	defer client.Disconnect()

	if err := client.Logout(); err != nil {
		common.PrintRuntimeErr(ctx, "logout", "logout", err)
		return nil
	}
	fmt.Println("Logged out")
	return nil
}
