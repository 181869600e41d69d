package anim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type Command int

const (
	CmdUp Command = iota
	CmdDown
	CmdMode
	CmdStop
)

func (c Command) String() string {
	switch c {
	case CmdUp:
		return "up"
	case CmdDown:
		return "down"
	case CmdMode:
		return "mode"
	case CmdStop:
		return "stop"
	}
	return fmt.Sprintf("command(%d)", int(c))
}

func ParseCommand(s string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "u", "up", "+":
		return CmdUp, nil
	case "d", "down", "-":
		return CmdDown, nil
	case "m", "mode":
		return CmdMode, nil
	case "q", "quit", "stop", "exit":
		return CmdStop, nil
	}
	return 0, fmt.Errorf("unknown command %q", s)
}

var ErrStopped = errors.New("controller stopped")

// Controller runs one app at a time in a single worker. Button commands are
// queued and applied between frames, never during one.
type Controller struct {
	reg    *Registry
	names  []string
	cmds   chan Command
	done   chan struct{}
	active atomic.Int32

	StopOnError bool
	Log         zerolog.Logger
}

func NewController(reg *Registry, start string, log zerolog.Logger) (*Controller, error) {
	c := &Controller{
		reg:   reg,
		names: reg.Names(),
		cmds:  make(chan Command, 8),
		done:  make(chan struct{}),
		Log:   log,
	}
	if len(c.names) == 0 {
		return nil, errors.New("controller: no apps registered")
	}
	if start != "" {
		i := indexOf(c.names, start)
		if i < 0 {
			return nil, fmt.Errorf("controller: unknown app %q (have %s)", start, strings.Join(c.names, ", "))
		}
		c.active.Store(int32(i))
	}
	return c, nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// Active is the name of the running app.
func (c *Controller) Active() string { return c.names[c.active.Load()] }

// Send queues a command. It fails once the worker has exited.
func (c *Controller) Send(ctx context.Context, cmd Command) error {
	select {
	case <-c.done:
		return ErrStopped
	default:
	}
	select {
	case c.cmds <- cmd:
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) app() App {
	a, _ := c.reg.Get(c.Active())
	return a
}

// Run is the worker loop. It returns nil on stop or cancellation.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)

	app := c.app()
	c.Log.Info().Str("app", c.Active()).Msg("app started")
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case cmd := <-c.cmds:
			c.Log.Debug().Stringer("cmd", cmd).Str("app", c.Active()).Msg("button")
			switch cmd {
			case CmdUp:
				app.Up()
			case CmdDown:
				app.Down()
			case CmdMode:
				next := (int(c.active.Load()) + 1) % len(c.names)
				c.active.Store(int32(next))
				app = c.app()
				c.Log.Info().Str("app", c.Active()).Msg("app switched")
			case CmdStop:
				c.Log.Info().Msg("stop requested")
				return nil
			}

		case <-timer.C:
			if err := app.Step(ctx); err != nil {
				if errors.Is(err, ErrDone) || ctx.Err() != nil {
					return nil
				}
				if c.StopOnError {
					return err
				}
				c.Log.Warn().Err(err).Str("app", c.Active()).Msg("render failed")
			}
			d := app.Interval()
			if d <= 0 {
				d = Interval(DefaultFPS)
			}
			timer.Reset(d)
		}
	}
}
