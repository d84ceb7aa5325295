// Package api implements the socket handlers of the taskpro daemon.
package api

import (
	"encoding/json"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/server"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/todo"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

type Api struct {
	log       logger.Logger
	manager   *todo.Manager
	version   string
	commit    string
	buildType string
}

func NewApi(l logger.Logger, m *todo.Manager, version, commit, buildType string) (*Api, error) {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Api{
		log:       l,
		manager:   m,
		version:   version,
		commit:    commit,
		buildType: buildType,
	}, nil
}

func (s *Api) RegisterHandlers(server *server.Server) {
	// task methods
	server.RegisterHandler(common.UPDATE_ADD, s.addHandler)
	server.RegisterHandler(common.UPDATE_EDIT, s.editHandler)
	server.RegisterHandler(common.UPDATE_TOGGLE, s.toggleHandler)
	server.RegisterHandler(common.UPDATE_DELETE, s.deleteHandler)
	server.RegisterHandler(common.UPDATE_LIST, s.listHandler)

	// alarm methods
	server.RegisterHandler(common.UPDATE_ACK, s.ackHandler)
	server.RegisterHandler(common.UPDATE_STATUS, s.statusHandler)
	server.RegisterHandler(common.UPDATE_WATCH, s.watchHandler)

	// session methods
	server.RegisterHandler(common.UPDATE_LOGIN, s.loginHandler)
	server.RegisterHandler(common.UPDATE_LOGOUT, s.logoutHandler)

	server.RegisterHandler(common.UPDATE_VERSION, s.versionHandler)
}

func (s *Api) Close() error {
	return s.manager.Close()
}

// decode unmarshals body into v. An absent body leaves v untouched.
func decode(body json.RawMessage, v any) error {
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}
