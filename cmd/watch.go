package cmd

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"

	"github.com/Awoyelevictor/Ai-task-manager-pros/cmd/common"
	apitypes "github.com/Awoyelevictor/Ai-task-manager-pros/common"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/alarm"
	"github.com/Awoyelevictor/Ai-task-manager-pros/internal/ringer"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/taskcli"
	"github.com/Awoyelevictor/Ai-task-manager-pros/pkg/tasklib"
)

type countdownBar struct {
	bar   *mpb.Bar
	start time.Time
	due   time.Time
}

// countdown keeps one bar per armed or ringing task.
type countdown struct {
	mu   sync.Mutex
	p    *mpb.Progress
	bars map[string]*countdownBar
}

func newCountdown(w io.Writer) *countdown {
	return &countdown{
		p:    mpb.New(mpb.WithOutput(w), mpb.WithWidth(40)),
		bars: make(map[string]*countdownBar),
	}
}

// sync reconciles the bars with tasks. Tasks that are no longer armed or
// ringing lose their bar; a changed due date restarts the countdown.
func (c *countdown) sync(tasks []tasklib.Task, ringing string, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keep := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		state := alarm.StateOf(t, ringing)
		if state != alarm.StateArmed && state != alarm.StateRinging {
			continue
		}
		keep[t.ID] = true
		cb, ok := c.bars[t.ID]
		// a ringing task may have lost its due date; its bar stays full
		due := now
		switch {
		case t.DueDate != nil:
			due = *t.DueDate
		case ok:
			due = cb.due
		}
		if ok && !cb.due.Equal(due) {
			cb.bar.Abort(true)
			ok = false
		}
		if !ok {
			cb = &countdownBar{
				bar:   common.InitCountdown(c.p, common.Truncate(t.Text, 24), now, due),
				start: now,
				due:   due,
			}
			c.bars[t.ID] = cb
		}
		if state == alarm.StateRinging {
			cb.bar.SetCurrent(cb.total())
		}
	}
	for id, cb := range c.bars {
		if !keep[id] {
			cb.bar.Abort(true)
			delete(c.bars, id)
		}
	}
}

func (cb *countdownBar) total() int64 {
	total := int64(cb.due.Sub(cb.start) / time.Second)
	if total < 1 {
		total = 1
	}
	return total
}

// tick advances every bar to now. A bar stops one step short of its total
// until the daemon reports the task as ringing.
func (c *countdown) tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cb := range c.bars {
		if cb.bar.Completed() {
			continue
		}
		cur := int64(now.Sub(cb.start) / time.Second)
		if limit := cb.total() - 1; cur > limit {
			cur = limit
		}
		cb.bar.SetCurrent(cur)
	}
}

func (c *countdown) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.bars)
}

// stop removes the bars and waits for the last render.
func (c *countdown) stop() {
	c.mu.Lock()
	for id, cb := range c.bars {
		cb.bar.Abort(false)
		delete(c.bars, id)
	}
	c.mu.Unlock()
	c.p.Wait()
}

func watch(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	client, ok := getClient(ctx, "watch")
	if !ok {
		return nil
	}
	defer client.Disconnect()

	listener, err := newClientFunc()
	if err != nil {
		common.PrintRuntimeErr(ctx, "watch", "new_client", err)
		return nil
	}
	st, err := listener.Watch()
	if err != nil {
		listener.Disconnect()
		common.PrintRuntimeErr(ctx, "watch", "watch", err)
		return nil
	}
	if st.Ringing != nil {
		fmt.Printf("%s: %s\n", common.RingingLabel, st.Ringing.Text)
	}

	sctx, cancel := setupShutdownHandler()
	defer cancel()

	cd := newCountdown(os.Stdout)
	bell := ringer.NewAlarm(ringer.BellPlayer{W: os.Stdout}, ringer.DefaultInterval, nil)
	defer bell.Stop()

	refresh := func() error {
		l, err := client.List(&taskcli.ListOpts{ShowPending: true})
		if err != nil {
			return err
		}
		cd.sync(l.Tasks, l.Ringing, nowFunc())
		if l.Ringing != "" {
			bell.Start()
		} else {
			bell.Stop()
		}
		return nil
	}
	if err := refresh(); err != nil {
		listener.Disconnect()
		common.PrintRuntimeErr(ctx, "watch", "get_list", err)
		return nil
	}

	listener.AddHandler(apitypes.UPDATE_ALARM_FIRED, taskcli.NewAlarmFiredHandler(func(*ringer.FiredEvent) error {
		bell.Start()
		return nil
	}))
	listener.AddHandler(apitypes.UPDATE_ALARM_SILENCED, taskcli.NewAlarmSilencedHandler(func() error {
		bell.Stop()
		return nil
	}))
	listener.AddHandler(apitypes.UPDATE_TASKS_CHANGED, taskcli.NewTasksChangedHandler(func(*apitypes.TasksChanged) error {
		return refresh()
	}))

	listenErr := make(chan error, 1)
	go func() { listenErr <- listener.Listen() }()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-sctx.Done():
			listener.Disconnect()
			<-listenErr
			cd.stop()
			return nil
		case err := <-listenErr:
			cd.stop()
			if err != nil {
				common.PrintRuntimeErr(ctx, "watch", "listen", err)
			}
			return nil
		case now := <-ticker.C:
			cd.tick(now)
		}
	}
}
