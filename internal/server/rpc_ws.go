package server

import (
	"context"
	"net/http"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
)

// wsChannel adapts a coder/websocket.Conn to the jrpc2 Channel interface.
type wsChannel struct {
	conn *cws.Conn
	ctx  context.Context
}

// Send writes a JSON-RPC message to the WebSocket connection. A client that
// stops reading has the connection closed once pushTimeout expires.
func (c *wsChannel) Send(data []byte) error {
	ctx, cancel := context.WithTimeout(c.ctx, pushTimeout)
	defer cancel()
	return c.conn.Write(ctx, cws.MessageText, data)
}

// Recv reads a JSON-RPC message from the WebSocket connection.
func (c *wsChannel) Recv() ([]byte, error) {
	_, data, err := c.conn.Read(c.ctx)
	return data, err
}

// Close shuts down the WebSocket connection with a normal closure status.
func (c *wsChannel) Close() error {
	return c.conn.Close(cws.StatusNormalClosure, "")
}

// handleWebSocket serves one JSON-RPC session per WebSocket connection and
// subscribes it to push notifications until the client disconnects.
func (rs *RPCServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, &cws.AcceptOptions{
		OriginPatterns: rs.originPatterns,
	})
	if err != nil {
		rs.log.Warning("websocket accept failed: %v", err)
		return
	}
	conn.SetReadLimit(maxWSMessage)

	srv := jrpc2.NewServer(rs.methods, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(&wsChannel{conn: conn, ctx: r.Context()})
	rs.notifier.Register(srv)
	defer rs.notifier.Unregister(srv)
	_ = srv.Wait()
}
