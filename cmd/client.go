package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli"

	"github.com/Awoyelevictor/Ai-task-manager-pros/cmd/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/taskcli"
)

// newClientFunc connects to the daemon, spawning it when needed.
var newClientFunc = taskcli.NewClient

var (
	errNoTaskId       = errors.New("no task id provided")
	errAmbiguousId    = errors.New("task id prefix matches several tasks")
	errUnknownTaskId  = errors.New("no task matches the id")
	minIdPrefix      = 4
)

// getClient connects to the daemon and warns about a version mismatch.
// Failures are printed; ok is false when the command should stop.
func getClient(ctx *cli.Context, cmd string) (client *taskcli.Client, ok bool) {
	client, err := newClientFunc()
	if err != nil {
		common.PrintRuntimeErr(ctx, cmd, "new_client", err)
		return nil, false
	}
	client.CheckVersionMismatch(currentBuildArgs.Version)
	return client, true
}

// resolveTaskId expands a unique ID prefix of at least four characters,
// as printed by the list command, into the full task ID.
func resolveTaskId(client *taskcli.Client, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", errNoTaskId
	}
	if len(prefix) < minIdPrefix {
		return prefix, nil
	}
	l, err := client.List(&taskcli.ListOpts{ShowCompleted: true, ShowPending: true})
	if err != nil {
		return "", err
	}
	var match string
	for _, t := range l.Tasks {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", errAmbiguousId, prefix)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", errUnknownTaskId, prefix)
	}
	return match, nil
}
