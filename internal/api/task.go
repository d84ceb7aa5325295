package api

import (
	"encoding/json"
	"errors"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/server"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/todo"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

var errTaskIdRequired = errors.New("task_id is required")

func (s *Api) addHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.AddParams
	if err := decode(body, &m); err != nil {
		return common.UPDATE_ADD, nil, err
	}
	t, err := s.manager.AddTask(tasklib.NewTaskOpts{
		Text:       m.Text,
		Priority:   tasklib.Priority(m.Priority),
		DueDate:    m.DueDate,
		Recurrence: m.Recurrence,
	})
	if err != nil {
		return common.UPDATE_ADD, nil, err
	}
	return common.UPDATE_ADD, &common.TaskResponse{Task: t}, nil
}

func (s *Api) editHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.EditParams
	if err := decode(body, &m); err != nil {
		return common.UPDATE_EDIT, nil, err
	}
	if m.TaskId == "" {
		return common.UPDATE_EDIT, nil, errTaskIdRequired
	}
	patch := todo.Patch{
		Text:         m.Text,
		DueDate:      m.DueDate,
		ClearDueDate: m.ClearDueDate,
		AlarmEnabled: m.AlarmEnabled,
		Recurrence:   m.Recurrence,
	}
	if m.Priority != nil {
		prio := tasklib.Priority(*m.Priority)
		patch.Priority = &prio
	}
	t, err := s.manager.EditTask(m.TaskId, patch)
	if err != nil {
		return common.UPDATE_EDIT, nil, err
	}
	return common.UPDATE_EDIT, &common.TaskResponse{Task: t}, nil
}

func (s *Api) toggleHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.InputTaskId
	if err := decode(body, &m); err != nil {
		return common.UPDATE_TOGGLE, nil, err
	}
	if m.TaskId == "" {
		return common.UPDATE_TOGGLE, nil, errTaskIdRequired
	}
	t, err := s.manager.ToggleCompleted(m.TaskId)
	if err != nil {
		return common.UPDATE_TOGGLE, nil, err
	}
	return common.UPDATE_TOGGLE, &common.TaskResponse{Task: t}, nil
}

func (s *Api) deleteHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.InputTaskId
	if err := decode(body, &m); err != nil {
		return common.UPDATE_DELETE, nil, err
	}
	if m.TaskId == "" {
		return common.UPDATE_DELETE, nil, errTaskIdRequired
	}
	if err := s.manager.DeleteTask(m.TaskId); err != nil {
		return common.UPDATE_DELETE, nil, err
	}
	return common.UPDATE_DELETE, &common.EmptyResponse{}, nil
}

// listHandler returns pending tasks unless ShowCompleted is set. Setting
// both flags returns every task. A non-empty Priority narrows the result.
func (s *Api) listHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	var m common.ListParams
	if err := decode(body, &m); err != nil {
		return common.UPDATE_LIST, nil, err
	}
	prio, err := tasklib.ParsePriorityFilter(m.Priority)
	if err != nil {
		return common.UPDATE_LIST, nil, err
	}
	snap := s.manager.Snapshot()
	tasks := make([]tasklib.Task, 0, len(snap.Tasks))
	for _, t := range snap.Tasks {
		if !t.MatchesPriority(prio) {
			continue
		}
		switch {
		case m.ShowCompleted && m.ShowPending:
		case m.ShowCompleted:
			if !t.Completed {
				continue
			}
		default:
			if t.Completed {
				continue
			}
		}
		tasks = append(tasks, t.Clone())
	}
	return common.UPDATE_LIST, &common.ListResponse{
		Tasks:   tasks,
		Ringing: snap.Ringing,
	}, nil
}
