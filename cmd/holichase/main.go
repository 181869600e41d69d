// Command holichase rotates a pattern along every string.
package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-holiday/internal/anim"
	"github.com/coreman2200/funtimes-holiday/internal/cli"
	"github.com/coreman2200/funtimes-holiday/internal/model"
)

func main() {
	app := cli.New("holichase", "Chase a pattern along every string.")
	dir := app.Flags.StringP("direction", "d", "backward", "forward | backward")
	pattern := app.Flags.String("pattern", "", "built-in pattern ("+strings.Join(anim.Patterns(), ", ")+") or JSON pattern file")
	app.ParseOrExit(os.Args[1:])

	if err := run(app, *dir, *pattern); err != nil {
		log.Fatal().Err(err).Msg("holichase")
	}
}

func run(app *cli.App, dir, pattern string) error {
	logger := app.Logger()

	d, err := model.ParseDirection(dir)
	if err != nil {
		return err
	}
	p, err := cli.Pattern(pattern, app.Cfg.Globes)
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

	c, err := anim.NewChase(devs, p, d)
	if err != nil {
		return err
	}
	return app.Runner(c, logger).Run(ctx)
}
