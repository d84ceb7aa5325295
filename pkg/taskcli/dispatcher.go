package taskcli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Awoyelevictor/Ai-task-manager-pros/common"
)

type Dispatcher struct {
	Handlers map[common.UpdateType][]Handler
}

// ErrDisconnect stops Listen without an error when returned by a handler.
var ErrDisconnect = errors.New("disconnect")

func (d *Dispatcher) AddHandler(utype common.UpdateType, h Handler) {
	d.Handlers[utype] = append(d.Handlers[utype], h)
}

func (d *Dispatcher) process(buf []byte) error {
	var res Response
	if err := json.Unmarshal(buf, &res); err != nil {
		return fmt.Errorf("failed to parse (%s): '%s'", err.Error(), string(buf))
	}
	if !res.Ok {
		return errors.New(res.Error)
	}
	if res.Update == nil {
		return nil
	}
	hs, ok := d.Handlers[res.Update.Type]
	if !ok {
		return nil
	}
	for _, h := range hs {
		if err := h.Handle(res.Update.Message); err != nil {
			return err
		}
	}
	return nil
}
