package server

import (
	"encoding/json"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
)

// HandlerFunc defines the signature for socket request handlers.
// It receives the caller's connection, the watcher pool and the raw JSON body,
// and returns the update type and payload of the response.
type HandlerFunc func(
	conn *SyncConn,
	pool *Pool,
	body json.RawMessage,
) (
	common.UpdateType,
	any,
	error,
)
