// Command holibeats turns PCM audio into a bar spectrum. Input is
// interleaved signed 16 bit little endian samples at 44.1 kHz, from --input
// or stdin, e.g. `arecord -f cd -t raw | holibeats`.
package main

import (
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-holiday/internal/anim"
	"github.com/coreman2200/funtimes-holiday/internal/cli"
)

func main() {
	app := cli.New("holibeats", "Show a live audio spectrum on the strings.")
	input := app.Flags.StringP("input", "i", "-", "raw s16le PCM file, - for stdin")
	channels := app.Flags.Int("channels", anim.Channels, "interleaved channels in the input")
	buckets := app.Flags.Int("buckets", 0, "spectrum bands, 0 for one per line")
	mode := app.Flags.String("mode", string(anim.ModeAmp), "amp | power")
	maxval := app.Flags.Float64("maxval", 0, "fixed full-scale value, 0 to autorange")
	app.ParseOrExit(os.Args[1:])
	if !app.Flags.Changed("fps") && !app.Flags.Changed("sleeptime") {
		// one frame per window of input
		app.Cfg.FPS = float64(anim.SampleRate) / anim.FrameSize
	}

	if err := run(app, *input, *channels, *buckets, *mode, *maxval); err != nil {
		log.Fatal().Err(err).Msg("holibeats")
	}
}

func run(app *cli.App, input string, channels, buckets int, modeName string, maxval float64) error {
	logger := app.Logger()

	mode, err := anim.ParseSpectrumMode(modeName)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if input != "-" && input != "" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
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

	b, err := anim.NewBeats(devs, m, in, channels, buckets, mode)
	if err != nil {
		return err
	}
	b.MaxVal = maxval
	return app.Runner(b, logger).Run(ctx)
}
