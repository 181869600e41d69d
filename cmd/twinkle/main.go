// Command twinkle makes the globes shimmer around a base pattern.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/coreman2200/funtimes-holiday/internal/anim"
	"github.com/coreman2200/funtimes-holiday/internal/cli"
	"github.com/coreman2200/funtimes-holiday/internal/model"
)

type flags struct {
	algo, base, pattern, chaseDir string
	seed                          uint64
	opts                          anim.TwinkleOptions
}

func register(fs *pflag.FlagSet) *flags {
	f := &flags{opts: anim.DefaultTwinkleOptions()}
	o := &f.opts
	fs.StringVarP(&f.algo, "algo", "a", string(o.Algo), "random | simplex | throb | chase")
	fs.StringVarP(&f.base, "basecolor", "b", "", "base color #rrggbb; default is a random pattern")
	fs.StringVar(&f.pattern, "pattern", "", "built-in pattern name or JSON pattern file")
	fs.Float64Var(&o.ChangeChance, "chance", o.ChangeChance, "chance a globe changes each step (random)")
	fs.Float64Var(&o.HueStep, "huestep", o.HueStep, "largest hue change per step")
	fs.Float64Var(&o.SatStep, "satstep", o.SatStep, "largest saturation change per step")
	fs.Float64Var(&o.ValStep, "valstep", o.ValStep, "largest value change per step")
	fs.Float64Var(&o.HueDiff, "huediff", 0, "largest hue distance from the base, 0 for none")
	fs.Float64Var(&o.SatDiff, "satdiff", 0, "largest saturation distance from the base, 0 for none")
	fs.Float64Var(&o.ValDiff, "valdiff", 0, "largest value distance from the base, 0 for none")
	fs.Float64Var(&o.Damper, "damper", o.Damper, "simplex drift divisor")
	fs.Float64Var(&o.ThrobSpeed, "throbspeed", o.ThrobSpeed, "throb rate divisor")
	fs.BoolVar(&o.Chase, "chase", false, "rotate the string after every twinkle")
	fs.StringVar(&f.chaseDir, "chase-direction", o.ChaseDir.String(), "forward | backward")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed, 0 for the clock")
	return f
}

func (f *flags) options() (anim.TwinkleOptions, error) {
	o := f.opts
	var err error
	if o.Algo, err = anim.ParseAlgo(f.algo); err != nil {
		return o, err
	}
	if o.ChaseDir, err = model.ParseDirection(f.chaseDir); err != nil {
		return o, err
	}
	if f.base != "" {
		c, err := model.ParseHex(f.base)
		if err != nil {
			return o, err
		}
		o.Base = &c
	}
	return o, nil
}

func main() {
	app := cli.New("twinkle", "Twinkle every string around a base color or pattern.")
	f := register(app.Flags)
	app.ParseOrExit(os.Args[1:])

	if err := run(app, f); err != nil {
		log.Fatal().Err(err).Msg("twinkle")
	}
}

func run(app *cli.App, f *flags) error {
	logger := app.Logger()

	opts, err := f.options()
	if err != nil {
		return err
	}
	opts.Interval = app.Interval()
	initial, err := cli.Pattern(f.pattern, app.Cfg.Globes)
	if err != nil {
		return err
	}
	seed := f.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	devs, err := app.Devices()
	if err != nil {
		return err
	}
	defer cli.CloseAll(devs)

	t, err := anim.NewTwinkle(devs, initial, opts, seed)
	if err != nil {
		return err
	}
	logger.Debug().Str("algo", string(opts.Algo)).Uint64("seed", seed).Msg("twinkle")
	return app.Runner(t, logger).Run(ctx)
}
