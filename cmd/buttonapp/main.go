// Command buttonapp runs the button driven apps. Each line on stdin is a
// button press: up, down, mode or quit.
package main

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/coreman2200/funtimes-holiday/internal/anim"
	"github.com/coreman2200/funtimes-holiday/internal/cli"
)

func main() {
	app := cli.New("buttonapp", "Run phloston and twinkle, switched by button presses on stdin.")
	start := app.Flags.String("app", "", "app to start with (phloston, twinkle)")
	app.ParseOrExit(os.Args[1:])

	if err := run(app, *start); err != nil {
		log.Fatal().Err(err).Msg("buttonapp")
	}
}

func run(app *cli.App, start string) error {
	logger := app.Logger()

	ctx, stop := cli.SignalContext()
	defer stop()

	devs, err := app.Devices()
	if err != nil {
		return err
	}
	defer cli.CloseAll(devs)

	reg := anim.NewRegistry()
	ph := anim.NewPhloston(devs, anim.PhlostonAppColor)
	ph.Delay = anim.PhlostonAppInterval
	reg.Register(ph.Name(), ph)
	tw, err := anim.NewTwinkleApp(devs, uint64(time.Now().UnixNano()))
	if err != nil {
		return err
	}
	tw.Log = logger
	reg.Register(tw.Name(), tw)

	c, err := anim.NewController(reg, start, logger)
	if err != nil {
		return err
	}
	c.StopOnError = app.Cfg.StopOnError

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return c.Run(ctx)
	})
	go readButtons(ctx, c, logger)
	return g.Wait()
}

// readButtons feeds stdin lines to the controller. It is not part of the
// errgroup since a blocked stdin read cannot be interrupted.
func readButtons(ctx context.Context, c *anim.Controller, log zerolog.Logger) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if sc.Text() == "" {
			continue
		}
		cmd, err := anim.ParseCommand(sc.Text())
		if err != nil {
			log.Warn().Err(err).Msg("button")
			continue
		}
		if err := c.Send(ctx, cmd); err != nil {
			return
		}
	}
	// stdin closed: stop as if quit was pressed
	_ = c.Send(ctx, anim.CmdStop)
}
