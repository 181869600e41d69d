package anim

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

// TwinkleMode is one preset of the twinkle app.
type TwinkleMode struct {
	Name    string
	Opts    TwinkleOptions
	Pattern func(r *rand.Rand, n int) ([]model.Color, error)
}

func builtin(name string) func(*rand.Rand, int) ([]model.Color, error) {
	return func(_ *rand.Rand, n int) ([]model.Color, error) { return BuiltinPattern(name, n) }
}

func randomInit(r *rand.Rand, n int) ([]model.Color, error) { return RandomPattern(r, n), nil }

func simplexMode(name string, pattern func(*rand.Rand, int) ([]model.Color, error)) TwinkleMode {
	o := DefaultTwinkleOptions()
	o.Damper = 4.0
	o.Interval = 40 * time.Millisecond
	return TwinkleMode{Name: name, Opts: o, Pattern: pattern}
}

func chaseMode(name string, pattern func(*rand.Rand, int) ([]model.Color, error), d time.Duration) TwinkleMode {
	o := DefaultTwinkleOptions()
	o.Algo = AlgoChase
	o.ChaseDir = model.Forward
	o.Interval = d
	return TwinkleMode{Name: name, Opts: o, Pattern: pattern}
}

// TwinkleModes are cycled with the up and down buttons.
func TwinkleModes() []TwinkleMode {
	shift := DefaultTwinkleOptions()
	shift.Algo = AlgoRandom
	shift.ChangeChance = 0.5
	shift.HueStep, shift.SatStep, shift.ValStep = 0.1, 0.1, 0.1

	limits := DefaultTwinkleOptions()
	limits.Algo = AlgoRandom
	limits.ChangeChance = 0.2
	limits.HueStep, limits.SatStep, limits.ValStep = 0.05, 0.05, 0.05
	limits.HueDiff, limits.SatDiff, limits.ValDiff = 0.3, 0.3, 0.3

	return []TwinkleMode{
		simplexMode("candle", func(_ *rand.Rand, n int) ([]model.Color, error) {
			return Solid(model.RGB(176, 119, 31), n), nil
		}),
		simplexMode("xmas", builtin("xmas")),
		chaseMode("xmas-chase", builtin("xmas2"), 500*time.Millisecond),
		simplexMode("green-and-gold", builtin("greenandgold")),
		chaseMode("green-and-gold-chase", builtin("greenandgold"), 100*time.Millisecond),
		{Name: "random-shift", Opts: shift, Pattern: randomInit},
		{Name: "random-limits", Opts: limits, Pattern: randomInit},
	}
}

// TwinkleApp steps through TwinkleModes on a set of devices.
type TwinkleApp struct {
	*Twinkle
	devices []*model.Device
	modes   []TwinkleMode
	mode    int

	Log zerolog.Logger
}

func NewTwinkleApp(devices []*model.Device, seed uint64) (*TwinkleApp, error) {
	a := &TwinkleApp{devices: devices, modes: TwinkleModes()}
	t, err := NewTwinkle(devices, Solid(model.Black, 1), a.modes[0].Opts, seed)
	if err != nil {
		return nil, err
	}
	a.Twinkle = t
	return a, a.SetMode(0)
}

func (a *TwinkleApp) Name() string { return "twinkle" }

func (a *TwinkleApp) Mode() string { return a.modes[a.mode].Name }

func (a *TwinkleApp) SetMode(i int) error {
	n := len(a.modes)
	a.mode = ((i % n) + n) % n
	m := a.modes[a.mode]
	numGlobes := model.DefaultNumGlobes
	if len(a.devices) > 0 {
		numGlobes = a.devices[0].NumGlobes()
	}
	p, err := m.Pattern(a.rng, numGlobes)
	if err != nil {
		return err
	}
	return a.Reset(p, m.Opts)
}

func (a *TwinkleApp) Up()   { a.step(1) }
func (a *TwinkleApp) Down() { a.step(-1) }

func (a *TwinkleApp) step(d int) {
	if err := a.SetMode(a.mode + d); err != nil {
		a.Log.Warn().Err(err).Str("mode", a.Mode()).Msg("twinkle mode switch failed")
	}
}
