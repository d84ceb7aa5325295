package server

import "github.com/Awoyelevictor/Ai-task-manager-pros/common"

func socketPath() string {
	return common.SocketPath()
}
