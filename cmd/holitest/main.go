// Command holitest runs wiring checks: a globe index sweep, solid color
// channels, or a line sweep that follows the switchback layout.
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-holiday/internal/anim"
	"github.com/coreman2200/funtimes-holiday/internal/cli"
)

func main() {
	app := cli.New("holitest", "Check string wiring and layout.")
	kind := app.Flags.String("test", string(anim.TestLineSweep), "index_sweep | rgb_channels | line_sweep")
	cycles := app.Flags.Int("cycles", 1, "times to repeat, 0 forever")
	app.ParseOrExit(os.Args[1:])

	if err := run(app, *kind, *cycles); err != nil {
		log.Fatal().Err(err).Msg("holitest")
	}
}

func run(app *cli.App, kind string, cycles int) error {
	logger := app.Logger()

	k, err := anim.ParseTestKind(kind)
	if err != nil {
		return err
	}
	m, err := app.Mapper()
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

	tp, err := anim.NewTestPattern(devs, m, k)
	if err != nil {
		return err
	}
	tp.Cycles = cycles
	logger.Info().Str("test", kind).Int("steps", tp.Len()).Msg("running")
	return app.Runner(tp, logger).Run(ctx)
}
