// Package anim holds the animation drivers and the loops that run them.
package anim

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-holiday/internal/layout"
)

const DefaultFPS = 10

// ErrDone is returned by a driver that has nothing more to show.
var ErrDone = errors.New("animation done")

// Driver advances an animation by one frame and renders it.
type Driver interface {
	Name() string
	Step(ctx context.Context) error
}

// Interval converts a frame rate to a tick period. fps <= 0 means DefaultFPS.
func Interval(fps float64) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Duration(float64(time.Second) / fps)
}

// Runner steps a driver on a fixed tick until the context is cancelled.
type Runner struct {
	Driver   Driver
	Interval time.Duration
	// StopOnError makes the first render failure end the loop. Otherwise it
	// is logged and the next frame is attempted. A layout.ConfigError always
	// ends the loop.
	StopOnError bool
	Log         zerolog.Logger

	Frames uint64
	Errors uint64
}

func (r *Runner) Run(ctx context.Context) error {
	delta := r.Interval
	if delta <= 0 {
		delta = Interval(DefaultFPS)
	}
	log := r.Log.With().Str("driver", r.Driver.Name()).Logger()
	log.Info().Dur("interval", delta).Msg("animation started")

	ticker := time.NewTicker(delta)
	defer ticker.Stop()

	for {
		if err := r.step(ctx, log); err != nil {
			if errors.Is(err, ErrDone) || ctx.Err() != nil {
				log.Info().Uint64("frames", r.Frames).Msg("animation finished")
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			log.Info().Uint64("frames", r.Frames).Msg("animation stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (r *Runner) step(ctx context.Context, log zerolog.Logger) error {
	t := time.Now()
	err := r.Driver.Step(ctx)
	r.Frames++
	if err == nil {
		log.Trace().Dur("took", time.Since(t)).Uint64("frame", r.Frames).Msg("frame")
		return nil
	}
	if errors.Is(err, ErrDone) || ctx.Err() != nil {
		return err
	}
	r.Errors++
	var ce *layout.ConfigError
	if r.StopOnError || errors.As(err, &ce) {
		return err
	}
	log.Warn().Err(err).Uint64("frame", r.Frames).Msg("render failed")
	return nil
}
