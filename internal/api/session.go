package api

import (
	"encoding/json"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/server"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

func (s *Api) loginHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.LoginParams
	if err := decode(body, &m); err != nil {
		return common.UPDATE_LOGIN, nil, err
	}
	profile, err := s.manager.Login(tasklib.Profile{
		Name:     m.Name,
		Email:    m.Email,
		Birthday: m.Birthday,
	})
	if err != nil {
		return common.UPDATE_LOGIN, nil, err
	}
	return common.UPDATE_LOGIN, &common.SessionResponse{Profile: profile}, nil
}

func (s *Api) logoutHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	if err := s.manager.Logout(); err != nil {
		return common.UPDATE_LOGOUT, nil, err
	}
	return common.UPDATE_LOGOUT, &common.EmptyResponse{}, nil
}
