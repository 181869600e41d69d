// Command holiscreen shows a picture, or plays an animated GIF, across the
// strings treated as one low resolution screen.
package main

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-holiday/internal/anim"
	"github.com/coreman2200/funtimes-holiday/internal/cli"
	"github.com/coreman2200/funtimes-holiday/internal/layout"
)

func main() {
	app := cli.New("holiscreen", "Display an image or animated GIF on the strings.")
	img := app.Flags.StringP("image", "i", "", "png, jpeg or gif file to show (required)")
	animate := app.Flags.Bool("animate", true, "play every frame of an animated GIF")
	app.ParseOrExit(os.Args[1:])

	if err := run(app, *img, *animate); err != nil {
		log.Fatal().Err(err).Msg("holiscreen")
	}
}

func run(app *cli.App, img string, animate bool) error {
	logger := app.Logger()
	if img == "" {
		return errors.New("--image is required")
	}
	m, err := app.Mapper()
	if err != nil {
		return err
	}
	w, h, pieces := layout.Geometry(len(app.Targets()), app.Cfg.Globes, m.Orientation, m.Switchback)
	logger.Info().Int("width", w).Int("height", h).Int("pieces", pieces).Msg("screen")

	frames, err := anim.LoadFrames(img, w, h, m.Orientation, animate)
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

	s, err := anim.NewScreen(devs, m, frames)
	if err != nil {
		return err
	}
	r := app.Runner(s, logger)
	if s.Loop && !app.Flags.Changed("fps") && !app.Flags.Changed("sleeptime") {
		r.Interval = frameDelay(frames)
	}
	return r.Run(ctx)
}

// frameDelay is the shortest delay in the animation.
func frameDelay(frames []anim.Frame) time.Duration {
	d := frames[0].Delay
	for _, f := range frames[1:] {
		d = min(d, f.Delay)
	}
	return d
}
