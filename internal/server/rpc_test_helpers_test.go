package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cws "github.com/coder/websocket"
	"github.com/spf13/afero"

	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/alarm"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/ringer"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/todo"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

const testSecret = "rpc-test-secret"

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type rpcEnv struct {
	url      string
	manager  *todo.Manager
	clock    *alarm.FakeClock
	rpc      *RPCServer
	notify   *ringer.Notifier
	notifier *RPCNotifier
}

// newRPCEnv starts an authenticated JSON-RPC server over an in-memory store.
func newRPCEnv(t *testing.T) *rpcEnv {
	t.Helper()
	store, err := tasklib.NewFileStore(afero.NewMemMapFs(), "/data")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	clock := alarm.NewFakeClock(testNow)
	notifier := NewRPCNotifier(nil)
	n := ringer.NewNotifier(notifier, ringer.PermissionDefault)
	effects := &ringer.Effects{Notifier: n, Events: notifier}
	m, err := todo.NewManager(store, alarm.NewScheduler(time.Minute, effects, nil), clock, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	rs := NewRPCServer(&RPCConfig{
		Secret:    testSecret,
		Version:   "1.0.0",
		Commit:    "abc123",
		BuildType: "test",
	}, m, n, notifier, nil)
	ws := NewWebServer(nil, 0, rs, false)
	srv := httptest.NewServer(ws.handler())
	t.Cleanup(func() {
		srv.Close()
		rs.Close()
		_ = m.Close()
	})
	return &rpcEnv{url: srv.URL, manager: m, clock: clock, rpc: rs, notify: n, notifier: notifier}
}

// call sends a JSON-RPC request via HTTP POST with auth and returns the
// decoded response.
func (e *rpcEnv) call(t *testing.T, method string, params any) map[string]any {
	t.Helper()
	reqBody := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"id":      1,
	}
	if params != nil {
		reqBody["params"] = params
	}
	data, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest("POST", e.url+"/jsonrpc", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+testSecret)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("HTTP request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("unmarshal: %v (body: %s)", err, string(body))
	}
	return result
}

func resultOf(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	if resp["error"] != nil {
		t.Fatalf("unexpected error: %v", resp["error"])
	}
	result, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("expected result object, got %v", resp["result"])
	}
	return result
}

func errorCode(t *testing.T, resp map[string]any) int {
	t.Helper()
	e, ok := resp["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error, got %v", resp)
	}
	return int(e["code"].(float64))
}

func (e *rpcEnv) dialWS(t *testing.T) *cws.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(e.url, "http") + "/jsonrpc/ws"
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := cws.Dial(ctx, wsURL, &cws.DialOptions{
		HTTPHeader: http.Header{
			"Authorization": []string{"Bearer " + testSecret},
		},
	})
	if err != nil {
		t.Fatalf("WebSocket dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close(cws.StatusNormalClosure, "") })
	return conn
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
