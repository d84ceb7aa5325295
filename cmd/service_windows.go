//go:build windows

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc/eventlog"

	"github.com/Awoyelevictor/Ai-task-manager-pros/cmd/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/service"
)

var errRequiresAdmin = errors.New("this operation requires administrator privileges")

// Replaced in tests.
var (
	isAdminFunc    = isAdmin
	connectSCMFunc = service.ConnectSCM
	executableFunc = os.Executable
)

func isAdmin() bool {
	var sid *windows.SID
	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	member, err := windows.Token(0).IsMember(sid)
	return err == nil && member
}

func serviceCommand() cli.Command {
	return cli.Command{
		Name:               "service",
		Usage:              "manages the taskprod Windows service",
		CustomHelpTemplate: CMD_HELP_TEMPL,
		Subcommands: []cli.Command{
			{Name: "install", Usage: "installs the daemon as a Windows service", Action: serviceAction("install", true, serviceInstall)},
			{Name: "uninstall", Usage: "removes the Windows service", Action: serviceAction("uninstall", true, serviceUninstall)},
			{Name: "start", Usage: "starts the Windows service", Action: serviceAction("start", true, serviceStart)},
			{Name: "stop", Usage: "stops the Windows service", Action: serviceAction("stop", true, serviceStop)},
			{Name: "status", Usage: "prints the Windows service state", Action: serviceAction("status", false, serviceStatus)},
		},
	}
}

// serviceAction connects to the SCM and reports errors the way the other
// commands do.
func serviceAction(name string, admin bool, f func(*service.Manager) error) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if admin && !isAdminFunc() {
			common.PrintRuntimeErr(ctx, "service", name, errRequiresAdmin)
			return nil
		}
		scm, err := connectSCMFunc()
		if err != nil {
			common.PrintRuntimeErr(ctx, "service", name, err)
			return nil
		}
		defer scm.Close()

		if err := f(service.NewManager(scm)); err != nil {
			common.PrintRuntimeErr(ctx, "service", name, err)
		}
		return nil
	}
}

func serviceInstall(m *service.Manager) error {
	exe, err := executableFunc()
	if err != nil {
		return err
	}
	if err := m.Install(exe, "daemon"); err != nil {
		return err
	}
	err = eventlog.InstallAsEventCreate(service.Name, eventlog.Info|eventlog.Warning|eventlog.Error)
	if err != nil {
		_ = m.Uninstall()
		return fmt.Errorf("register event source: %w", err)
	}
	fmt.Printf("Service %s installed\n", service.Name)
	return nil
}

func serviceUninstall(m *service.Manager) error {
	if err := m.Uninstall(); err != nil {
		return err
	}
	_ = eventlog.Remove(service.Name)
	fmt.Printf("Service %s removed\n", service.Name)
	return nil
}

func serviceStart(m *service.Manager) error {
	if err := m.Start(); err != nil {
		return err
	}
	fmt.Printf("Service %s started\n", service.Name)
	return nil
}

func serviceStop(m *service.Manager) error {
	if err := m.Stop(); err != nil {
		return err
	}
	fmt.Printf("Service %s stopped\n", service.Name)
	return nil
}

func serviceStatus(m *service.Manager) error {
	st, err := m.Status()
	if err != nil {
		return err
	}
	fmt.Printf("Service %s: %s\n", service.Name, st)
	return nil
}
