package cmd

import (
	"bytes"
	"flag"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/urfave/cli"
)

// captureOutput captures stdout while f runs.
func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	f()

	w.Close()
	os.Stdout = old
	out := <-done
	r.Close()
	return out
}

// assertContains checks if output contains the expected substring.
func assertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

// assertErrorFormat checks that error output follows the standard format:
// taskpro: cmd[action]: msg
func assertErrorFormat(t *testing.T, output, cmd, action string) {
	t.Helper()
	pattern := "taskpro: " + cmd + "[" + action + "]:"
	if !strings.Contains(output, pattern) {
		t.Errorf("expected error format %q, got:\n%s", pattern, output)
	}
}

// newContext creates a CLI context for testing commands. flags are applied
// to the flag set before args are parsed.
func newContext(app *cli.App, args []string, name string, flags ...cli.Flag) *cli.Context {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	for _, f := range flags {
		f.Apply(set)
	}
	_ = set.Parse(args)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: name}
	return ctx
}

func newTestApp() *cli.App {
	app := cli.NewApp()
	app.Name = "taskpro"
	app.HelpName = "taskpro"
	return app
}

// runAction runs a command action and returns what it printed.
func runAction(t *testing.T, action func(*cli.Context) error, name string, flags []cli.Flag, args ...string) string {
	t.Helper()
	var err error
	out := captureOutput(func() {
		err = action(newContext(newTestApp(), args, name, flags...))
	})
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return out
}
