// Command taskprod runs the taskpro daemon in the foreground. It accepts the
// flags of "taskpro daemon".
package main

import (
	"fmt"
	"os"

	"github.com/Awoyelevictor/Ai-task-manager-pros/cmd"
)

var (
	version   string
	commit    string
	date      string
	buildType string = "unclassified"
)

func main() {
	args := append([]string{os.Args[0], "daemon"}, os.Args[1:]...)
	err := cmd.Execute(args, cmd.BuildArgs{
		Version:   version,
		Commit:    commit,
		Date:      date,
		BuildType: buildType,
	})
	if err != nil {
		fmt.Println("taskprod:", err.Error())
		os.Exit(1)
	}
}
