package api

import (
	"encoding/json"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/alarm"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/server"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/todo"
)

// ackHandler answers the ringing alarm. An empty action dismisses it.
func (s *Api) ackHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.AckParams
	if err := decode(body, &m); err != nil {
		return common.UPDATE_ACK, nil, err
	}
	action, err := alarm.ParseAction(m.Action)
	if err != nil {
		return common.UPDATE_ACK, nil, err
	}
	snap, err := s.manager.Acknowledge(action)
	if err != nil {
		return common.UPDATE_ACK, nil, err
	}
	return common.UPDATE_ACK, s.status(snap, pool), nil
}

func (s *Api) statusHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	return common.UPDATE_STATUS, s.status(s.manager.Snapshot(), pool), nil
}

// watchHandler subscribes the connection to alarm and task pushes. The
// connection stays subscribed until it is closed.
func (s *Api) watchHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	pool.AddWatcher(sconn)
	return common.UPDATE_WATCH, s.status(s.manager.Snapshot(), pool), nil
}

func (s *Api) status(snap todo.Snapshot, pool *server.Pool) *common.StatusResponse {
	res := &common.StatusResponse{
		Now:     s.manager.Now(),
		Window:  s.manager.Window().String(),
		Version: snap.Version,
		Ringing: snap.RingingTask(),
		Next:    snap.NextArmed(),
		Armed:   snap.Armed(),
		Session: snap.Session,
	}
	if pool != nil {
		res.Watchers = pool.Watchers()
	}
	return res
}
