package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

func callWrapper(t *testing.T, s *Server, req Request) Response {
	t.Helper()
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()
	b, _ := json.Marshal(req)
	go func() {
		_ = s.handlerWrapper(NewSyncConn(c1), b)
	}()
	respBytes, err := NewSyncConn(c2).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	var resp Response
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return resp
}

func TestHandlerWrapperUnknownMethod(t *testing.T) {
	s := NewServer(nil, nil, 0, 0)
	resp := callWrapper(t, s, Request{Method: common.UpdateType("nope")})
	if resp.Ok || resp.Error != "unknown method: nope" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandlerWrapperError(t *testing.T) {
	s := NewServer(nil, nil, 0, 0)
	s.RegisterHandler(common.UPDATE_LIST, func(conn *SyncConn, pool *Pool, body json.RawMessage) (common.UpdateType, any, error) {
		return common.UPDATE_LIST, nil, errors.New("boom")
	})
	resp := callWrapper(t, s, Request{Method: common.UPDATE_LIST})
	if resp.Ok || resp.Error != "boom" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandlerWrapperSuccess(t *testing.T) {
	s := NewServer(nil, nil, 0, 0)
	s.RegisterHandler(common.UPDATE_LIST, func(conn *SyncConn, pool *Pool, body json.RawMessage) (common.UpdateType, any, error) {
		return common.UPDATE_LIST, map[string]string{"ok": "1"}, nil
	})
	resp := callWrapper(t, s, Request{Method: common.UPDATE_LIST})
	if !resp.Ok || resp.Update == nil || resp.Update.Type != common.UPDATE_LIST {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandlerWrapperRecoversPanic(t *testing.T) {
	log := logger.NewMockLogger()
	s := NewServer(log, nil, 0, 0)
	s.RegisterHandler(common.UPDATE_STATUS, func(conn *SyncConn, pool *Pool, body json.RawMessage) (common.UpdateType, any, error) {
		panic("nil map")
	})
	resp := callWrapper(t, s, Request{Method: common.UPDATE_STATUS})
	if resp.Ok {
		t.Fatal("expected error response")
	}
	if len(log.Errors()) != 1 {
		t.Fatalf("expected panic to be logged, got %v", log.Errors())
	}
}

func TestHandlerWrapperBadJSON(t *testing.T) {
	s := NewServer(nil, nil, 0, 0)
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()
	if err := s.handlerWrapper(NewSyncConn(c1), []byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestResponseHelpers(t *testing.T) {
	var resp Response
	if err := json.Unmarshal(MakeResult(common.UPDATE_LIST, []int{1}), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !resp.Ok || resp.Update.Type != common.UPDATE_LIST {
		t.Fatalf("unexpected response: %+v", resp)
	}
	resp = Response{}
	if err := json.Unmarshal(InitError(nil), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.Ok || resp.Error != "Unknown" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestServerServeAndWatch(t *testing.T) {
	s := NewServer(nil, nil, 0, 4)
	s.RegisterHandler(common.UPDATE_WATCH, func(conn *SyncConn, pool *Pool, body json.RawMessage) (common.UpdateType, any, error) {
		pool.AddWatcher(conn)
		return common.UPDATE_WATCH, nil, nil
	})

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, l) }()

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	sc := NewSyncConn(conn)
	req, _ := json.Marshal(Request{Method: common.UPDATE_WATCH})
	if err := sc.Write(req); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := sc.Read(); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if s.Pool().Watchers() != 1 {
		t.Fatalf("expected 1 watcher, got %d", s.Pool().Watchers())
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for s.Pool().Watchers() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("watcher not removed after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServerShutdownIdempotent(t *testing.T) {
	s := NewServer(nil, nil, 0, 0)
	if err := s.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := s.Shutdown(); err != nil {
		t.Fatal(err)
	}
}
