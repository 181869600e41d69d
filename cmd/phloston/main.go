// Command phloston fills each string one globe at a time, then starts over.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-holiday/internal/anim"
	"github.com/coreman2200/funtimes-holiday/internal/cli"
	"github.com/coreman2200/funtimes-holiday/internal/model"
)

func main() {
	app := cli.New("phloston", "Light the string progressively in one color.")
	color := app.Flags.String("color", anim.PhlostonColor.Hex(), "fill color as #rrggbb")
	app.ParseOrExit(os.Args[1:])
	if !app.Flags.Changed("fps") && !app.Flags.Changed("sleeptime") {
		app.Cfg.FPS = float64(time.Second / anim.PhlostonInterval)
	}

	if err := run(app, *color); err != nil {
		log.Fatal().Err(err).Msg("phloston")
	}
}

func run(app *cli.App, color string) error {
	logger := app.Logger()

	c, err := model.ParseHex(color)
	if err != nil {
		return err
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	devs, err := app.Devices()
	if err != nil {
		return err
	}
	defer cli.CloseAll(devs)

	return app.Runner(anim.NewPhloston(devs, c), logger).Run(ctx)
}
