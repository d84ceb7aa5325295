package server

import (
	"sync"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

// pushTimeout bounds a single push to a watcher.
const pushTimeout = 2 * time.Second

// Pool holds the connections that asked to watch alarm events.
type Pool struct {
	mu       sync.RWMutex
	watchers map[*SyncConn]struct{}
	log      logger.Logger
}

func NewPool(l logger.Logger) *Pool {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Pool{
		watchers: make(map[*SyncConn]struct{}),
		log:      l,
	}
}

func (p *Pool) AddWatcher(c *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.watchers[c] = struct{}{}
}

func (p *Pool) RemoveWatcher(c *SyncConn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.watchers, c)
}

// Watchers returns the number of watching connections.
func (p *Pool) Watchers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.watchers)
}

// Broadcast pushes an update to every watcher. Watchers that cannot be
// written to are closed and dropped.
func (p *Pool) Broadcast(method string, params any) {
	data := MakeResult(common.UpdateType(method), params)

	p.mu.RLock()
	conns := make([]*SyncConn, 0, len(p.watchers))
	for c := range p.watchers {
		conns = append(conns, c)
	}
	p.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteTimeout(data, pushTimeout); err != nil {
			p.log.Warning("dropping watcher %s: %v", c.Conn.RemoteAddr(), err)
			p.RemoveWatcher(c)
			_ = c.Conn.Close()
		}
	}
}
