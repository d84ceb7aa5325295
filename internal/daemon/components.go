package daemon

import (
	"errors"
	"fmt"
	"time"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/alarm"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/api"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/ringer"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/server"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/todo"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/logger"
)

// ErrMissingSecret is returned when the JSON-RPC endpoint is enabled without
// an auth secret.
var ErrMissingSecret = errors.New("rpc enabled but no secret configured")

// Components holds every initialized part of a running daemon.
type Components struct {
	Manager  *todo.Manager
	Poller   *alarm.Poller
	Sound    *ringer.Alarm
	Notifier *ringer.Notifier
	Pool     *server.Pool
	Server   *server.Server
	Api      *api.Api
	RPC      *server.RPCServer
	Web      *server.WebServer

	unsubscribe func()
	log         logger.Logger
}

// NewComponents wires storage, the alarm scheduler and its effects, the
// socket API and, when enabled, the JSON-RPC endpoint. Partially built
// components are released on error.
func NewComponents(cfg *Config, deps *Dependencies) (*Components, error) {
	app := cfg.App
	l := deps.Logger

	store, err := deps.OpenStore(app.Storage.Backend, app.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", app.Storage.Backend, err)
	}
	perm, err := ringer.ParsePermission(app.Notify.Permission)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	pool := server.NewPool(l)
	events := ringer.Broadcasters{pool}
	var rpcNotifier *server.RPCNotifier
	if app.RPC.Enabled {
		if app.RPC.Secret == "" {
			_ = store.Close()
			return nil, ErrMissingSecret
		}
		rpcNotifier = server.NewRPCNotifier(l)
		events = append(events, rpcNotifier)
	}

	sound := ringer.NewAlarm(deps.Player, app.Sound.Interval, l)
	notifier := ringer.NewNotifier(events, perm)
	effects := &ringer.Effects{Alarm: sound, Notifier: notifier, Events: events}
	sched := alarm.NewScheduler(app.Alarm.Window, effects, l)

	m, err := todo.NewManager(store, sched, deps.Clock, l)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	unsubscribe := m.Subscribe(func(s todo.Snapshot) {
		events.Broadcast(ringer.MethodTasksChanged, &common.TasksChanged{
			Version: s.Version,
			Ringing: s.Ringing,
		})
	})

	a, err := api.NewApi(l, m, cfg.Build.Version, cfg.Build.Commit, cfg.Build.BuildType)
	if err != nil {
		unsubscribe()
		_ = m.Close()
		return nil, err
	}
	srv := server.NewServer(l, pool, app.Server.Port, app.Server.MaxConns)
	a.RegisterHandlers(srv)

	c := &Components{
		Manager:     m,
		Poller:      alarm.NewPoller(app.Alarm.PollInterval, deps.Clock, func(now time.Time) { m.Tick(now) }, l),
		Sound:       sound,
		Notifier:    notifier,
		Pool:        pool,
		Server:      srv,
		Api:         a,
		unsubscribe: unsubscribe,
		log:         l,
	}
	if app.RPC.Enabled {
		c.RPC = server.NewRPCServer(&server.RPCConfig{
			Secret:         app.RPC.Secret,
			ListenAll:      app.RPC.ListenAll,
			OriginPatterns: app.RPC.Origins,
			Version:        cfg.Build.Version,
			Commit:         cfg.Build.Commit,
			BuildType:      cfg.Build.BuildType,
		}, m, notifier, rpcNotifier, l)
		c.Web = server.NewWebServer(l, app.RPC.Port, c.RPC, app.RPC.ListenAll)
	}
	return c, nil
}

// Close releases the components in reverse order of initialization. The
// listeners are shut down by the Runner before Close is called.
func (c *Components) Close() {
	c.Poller.Stop()
	c.unsubscribe()
	c.Sound.Stop()
	if c.RPC != nil {
		c.RPC.Close()
	}
	if err := c.Api.Close(); err != nil {
		c.log.Warning("closing task store: %v", err)
	}
}
