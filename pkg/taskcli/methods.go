package taskcli

import (
	"encoding/json"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
)

func invoke[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	resp, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var d T
	return &d, json.Unmarshal(resp, &d)
}

type AddOpts struct {
	Priority   string
	DueDate    *time.Time
	Recurrence string
}

func (c *Client) Add(text string, opts *AddOpts) (*common.TaskResponse, error) {
	if opts == nil {
		opts = &AddOpts{}
	}
	return invoke[common.TaskResponse](c, common.UPDATE_ADD, &common.AddParams{
		Text:       text,
		Priority:   opts.Priority,
		DueDate:    opts.DueDate,
		Recurrence: opts.Recurrence,
	})
}

func (c *Client) Edit(params *common.EditParams) (*common.TaskResponse, error) {
	return invoke[common.TaskResponse](c, common.UPDATE_EDIT, params)
}

func (c *Client) Toggle(taskId string) (*common.TaskResponse, error) {
	return invoke[common.TaskResponse](c, common.UPDATE_TOGGLE, &common.InputTaskId{TaskId: taskId})
}

func (c *Client) Delete(taskId string) error {
	_, err := c.invoke(common.UPDATE_DELETE, &common.InputTaskId{TaskId: taskId})
	return err
}

type ListOpts common.ListParams

func (c *Client) List(opts *ListOpts) (*common.ListResponse, error) {
	if opts == nil {
		opts = &ListOpts{ShowPending: true}
	}
	return invoke[common.ListResponse](c, common.UPDATE_LIST, opts)
}

// Ack answers the ringing alarm with "dismiss" or "complete".
func (c *Client) Ack(action string) (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_ACK, &common.AckParams{Action: action})
}

func (c *Client) Status() (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_STATUS, nil)
}

// Watch subscribes this connection to pushes. Call Listen afterwards to
// receive them.
func (c *Client) Watch() (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_WATCH, nil)
}

func (c *Client) Login(params *common.LoginParams) (*common.SessionResponse, error) {
	return invoke[common.SessionResponse](c, common.UPDATE_LOGIN, params)
}

func (c *Client) Logout() error {
	_, err := c.invoke(common.UPDATE_LOGOUT, nil)
	return err
}

// GetDaemonVersion returns the version information of the running daemon.
func (c *Client) GetDaemonVersion() (*common.VersionResponse, error) {
	return invoke[common.VersionResponse](c, common.UPDATE_VERSION, nil)
}
