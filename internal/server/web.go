package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

// WebServer exposes the JSON-RPC endpoints over HTTP:
//
//	POST /jsonrpc       one request per call
//	GET  /jsonrpc/ws    WebSocket session with push notifications
type WebServer struct {
	port      int
	listenAll bool
	log       logger.Logger
	rpc       *RPCServer
	server    *http.Server
	mu        sync.Mutex
}

func NewWebServer(l logger.Logger, port int, rs *RPCServer, listenAll bool) *WebServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &WebServer{port: port, listenAll: listenAll, log: l, rpc: rs}
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", requireToken(s.rpc.secret, s.rpc.bridge))
	mux.Handle("/jsonrpc/ws", requireToken(s.rpc.secret, http.HandlerFunc(s.rpc.handleWebSocket)))
	return mux
}

// Addr returns the address Start listens on.
func (s *WebServer) Addr() string {
	return s.addr()
}

func (s *WebServer) addr() string {
	if s.listenAll {
		return fmt.Sprintf(":%d", s.port)
	}
	return fmt.Sprintf("127.0.0.1:%d", s.port)
}

// Start listens on the configured port and serves until Shutdown.
func (s *WebServer) Start() error {
	l, err := net.Listen("tcp", s.addr())
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve serves on l until Shutdown.
func (s *WebServer) Serve(l net.Listener) error {
	s.mu.Lock()
	s.server = &http.Server{
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.ToStdLogger(s.log),
	}
	srv := s.server
	s.mu.Unlock()

	s.log.Info("JSON-RPC listening on %s", l.Addr())
	err := srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the web server.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
