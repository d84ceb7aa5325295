package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"golang.org/x/net/netutil"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

// DefaultMaxConns caps concurrently served socket clients.
const DefaultMaxConns = 64

// Server accepts CLI clients on a Unix socket (a named pipe on Windows)
// and dispatches their requests to registered handlers.
type Server struct {
	log      logger.Logger
	pool     *Pool
	handler  map[common.UpdateType]HandlerFunc
	port     int
	maxConns int
	listener net.Listener
	sockFile string
	mu       sync.Mutex
}

// NewServer creates a Server. port is used for the TCP fallback when the
// socket cannot be created.
func NewServer(l logger.Logger, pool *Pool, port, maxConns int) *Server {
	if l == nil {
		l = logger.NewNopLogger()
	}
	if pool == nil {
		pool = NewPool(l)
	}
	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}
	return &Server{
		log:      l,
		pool:     pool,
		handler:  make(map[common.UpdateType]HandlerFunc),
		port:     port,
		maxConns: maxConns,
	}
}

// RegisterHandler associates a handler function with a request method.
func (s *Server) RegisterHandler(method common.UpdateType, handler HandlerFunc) {
	s.handler[method] = handler
}

// Pool returns the watcher pool.
func (s *Server) Pool() *Pool {
	return s.pool
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start listens and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	l, err := s.createListener()
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve accepts connections on l until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	l = netutil.LimitListener(l, s.maxConns)
	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	for {
		conn, err := l.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warning("error accepting: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// Shutdown closes the listener and removes the socket file.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.log.Warning("error closing listener: %v", err)
		}
		s.listener = nil
	}
	if s.sockFile != "" {
		if err := cleanupSocket(s.sockFile); err != nil {
			s.log.Warning("error removing socket file: %v", err)
		}
		s.sockFile = ""
	}
	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	sconn := NewSyncConn(conn)
	defer conn.Close()
	defer s.pool.RemoveWatcher(sconn)
	for {
		buf, err := sconn.Read()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.log.Warning("error reading: %v", err)
			}
			return
		}
		if err := s.handlerWrapper(sconn, buf); err != nil {
			s.log.Warning("error handling: %v", err)
			return
		}
	}
}

func (s *Server) handlerWrapper(sconn *SyncConn, b []byte) error {
	req, err := ParseRequest(b)
	if err != nil {
		return fmt.Errorf("error parsing request: %w", err)
	}
	rHandler, ok := s.handler[req.Method]
	if !ok {
		if err := sconn.Write(CreateError("unknown method: " + string(req.Method))); err != nil {
			return fmt.Errorf("error writing response: %w", err)
		}
		return nil
	}
	utype, msg, err := s.call(rHandler, sconn, req)
	if err != nil {
		if err := sconn.Write(InitError(err)); err != nil {
			return fmt.Errorf("error writing response: %w", err)
		}
		return nil
	}
	if err := sconn.Write(MakeResult(utype, msg)); err != nil {
		return fmt.Errorf("error writing response: %w", err)
	}
	return nil
}

func (s *Server) call(h HandlerFunc, sconn *SyncConn, req *Request) (utype common.UpdateType, msg any, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("PANIC [handler %s]: %v", req.Method, r)
			err = fmt.Errorf("internal error in %s", req.Method)
		}
	}()
	return h(sconn, s.pool, req.Message)
}
