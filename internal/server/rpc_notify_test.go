package server

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"

	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/ringer"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

// newTestServer creates a jrpc2 server with push support backed by an
// io.Pipe-based channel. The client channel must be drained or closed to
// avoid blocking the server's push operations.
func newTestServer(t *testing.T) (channel.Channel, *jrpc2.Server, func()) {
	t.Helper()
	cr, sw := io.Pipe()
	sr, cw := io.Pipe()
	cli := channel.Line(cr, cw)
	srvCh := channel.Line(sr, sw)

	srv := jrpc2.NewServer(handler.Map{}, &jrpc2.ServerOptions{AllowPush: true})
	srv.Start(srvCh)

	cleanup := func() {
		cli.Close()
		_ = srv.Wait()
	}
	return cli, srv, cleanup
}

func TestNewRPCNotifier(t *testing.T) {
	n := NewRPCNotifier(nil)
	if n.Count() != 0 {
		t.Fatalf("expected 0 servers, got %d", n.Count())
	}
}

func TestRPCNotifier_RegisterUnregister(t *testing.T) {
	n := NewRPCNotifier(nil)
	_, srv, cleanup := newTestServer(t)
	defer cleanup()

	n.Register(srv)
	n.Register(srv)
	if n.Count() != 1 {
		t.Fatalf("expected 1 server after register, got %d", n.Count())
	}
	n.Unregister(srv)
	if n.Count() != 0 {
		t.Fatalf("expected 0 servers after unregister, got %d", n.Count())
	}
}

func TestRPCNotifier_Broadcast(t *testing.T) {
	n := NewRPCNotifier(nil)
	cli, srv, cleanup := newTestServer(t)
	defer cleanup()
	n.Register(srv)

	got := make(chan string, 1)
	go func() {
		msg, err := cli.Recv()
		if err == nil {
			got <- string(msg)
		}
	}()

	n.Broadcast(ringer.MethodAlarmSilenced, struct{}{})

	select {
	case msg := <-got:
		if !strings.Contains(msg, `"method":"alarm.silenced"`) {
			t.Fatalf("unexpected push: %s", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("push not received")
	}
	if n.Count() != 1 {
		t.Fatalf("expected server to stay registered, got %d", n.Count())
	}
}

func TestRPCNotifier_BroadcastDropsDisconnected(t *testing.T) {
	log := logger.NewMockLogger()
	n := NewRPCNotifier(log)
	cli, srv, cleanup := newTestServer(t)
	defer cleanup()
	n.Register(srv)

	cli.Close()
	_ = srv.Wait()

	n.Broadcast(ringer.MethodTasksChanged, nil)
	if n.Count() != 0 {
		t.Fatalf("expected disconnected server to be dropped, got %d", n.Count())
	}
	if len(log.Warnings()) == 0 {
		t.Fatal("expected failed push to be logged")
	}
}

func TestRPCNotifier_BroadcastNoServers(t *testing.T) {
	n := NewRPCNotifier(nil)
	n.Broadcast(ringer.MethodAlarmFired, nil)
}
