// Package taskcli is the client of the taskpro daemon socket.
package taskcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
)

type Client struct {
	mu   *sync.RWMutex
	d    *Dispatcher
	conn net.Conn
}

// NewClient connects to the daemon named by TASKPRO_DAEMON_URI, or to the
// local daemon when it is unset.
func NewClient() (*Client, error) {
	return NewClientWithURI(daemonURIFromEnv())
}

// NewClientWithURI connects to the daemon at rawURI. An empty URI means the
// local daemon, which is started first when nothing answers.
func NewClientWithURI(rawURI string) (*Client, error) {
	var (
		conn net.Conn
		err  error
	)
	if rawURI != "" {
		uri, perr := ParseDaemonURI(rawURI)
		if perr != nil {
			return nil, perr
		}
		conn, err = dialURI(uri)
	} else {
		if err = ensureDaemonFunc(); err != nil {
			return nil, err
		}
		conn, err = dial()
	}
	if err != nil {
		return nil, fmt.Errorf("error connecting to server: %w", err)
	}
	return newClient(conn), nil
}

func newClient(conn net.Conn) *Client {
	return &Client{
		conn: conn,
		mu:   &sync.RWMutex{},
		d:    &Dispatcher{Handlers: make(map[common.UpdateType][]Handler)},
	}
}

// AddHandler registers h for pushes of type utype.
func (c *Client) AddHandler(utype common.UpdateType, h Handler) {
	c.d.AddHandler(utype, h)
}

// Listen dispatches pushes until the connection fails or a handler returns
// ErrDisconnect.
func (c *Client) Listen() (err error) {
	defer c.conn.Close()
	for {
		var buf []byte
		buf, err = read(c.conn)
		if err != nil {
			return fmt.Errorf("error reading: %w", err)
		}
		c.mu.RLock()
		err = c.d.process(buf)
		c.mu.RUnlock()
		if err != nil {
			if errors.Is(err, ErrDisconnect) {
				return nil
			}
			return fmt.Errorf("error processing: %w", err)
		}
	}
}

// Disconnect closes the connection to the daemon.
func (c *Client) Disconnect() error {
	return c.conn.Close()
}

func (c *Client) invoke(method common.UpdateType, message any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, err := json.Marshal(&Request{
		Method:  method,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	if err = write(c.conn, buf); err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	buf, err = read(c.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s: %w", method, err)
	}
	var res Response
	if err = json.Unmarshal(buf, &res); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", method, err)
	}
	if !res.Ok {
		return nil, errors.New(res.Error)
	}
	if res.Update == nil {
		return nil, fmt.Errorf("failed to read %s: empty update", method)
	}
	return res.Update.Message, nil
}
