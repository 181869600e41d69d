package anim

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/ojrac/opensimplex-go"

	"github.com/coreman2200/funtimes-holiday/internal/layout"
	"github.com/coreman2200/funtimes-holiday/internal/model"
)

type Algo string

const (
	AlgoRandom  Algo = "random"
	AlgoSimplex Algo = "simplex"
	AlgoThrob   Algo = "throb"
	AlgoChase   Algo = "chase"
)

func ParseAlgo(s string) (Algo, error) {
	switch a := Algo(s); a {
	case AlgoRandom, AlgoSimplex, AlgoThrob, AlgoChase:
		return a, nil
	}
	return "", fmt.Errorf("unknown twinkle algorithm %q", s)
}

const (
	throbTop    = 0.91
	throbBottom = 0.02
	throbTurn   = 0.6
	minValue    = 0.2
)

type TwinkleOptions struct {
	Algo Algo
	// Base is the reference color for the random walk limits and simplex
	// scaling. Nil uses each globe's initial color.
	Base *model.Color

	ChangeChance              float64
	HueStep, SatStep, ValStep float64
	// Diff limits bound how far the random walk strays from the reference.
	// Zero leaves a component unbounded.
	HueDiff, SatDiff, ValDiff float64

	Damper     float64
	ThrobSpeed float64
	ThrobUp    bool

	// Chase rotates the string after every twinkle. AlgoChase always does.
	Chase    bool
	ChaseDir model.Direction

	Interval time.Duration
}

func DefaultTwinkleOptions() TwinkleOptions {
	return TwinkleOptions{
		Algo:         AlgoSimplex,
		ChangeChance: 1.0,
		HueStep:      0.1,
		SatStep:      0.01,
		ValStep:      0.2,
		Damper:       2.0,
		ThrobSpeed:   2.0,
		ThrobUp:      true,
		ChaseDir:     model.Forward,
		Interval:     100 * time.Millisecond,
	}
}

type twinkleString struct {
	dev   *model.Device
	init  []model.Color
	noise []float64
}

// Twinkle perturbs every globe a little each step.
type Twinkle struct {
	opts    TwinkleOptions
	rng     *rand.Rand
	simplex opensimplex.Noise
	strings []*twinkleString
}

// NewTwinkle loads init into every device and remembers it as the baseline.
// A nil init gives each device its own random pattern.
func NewTwinkle(devices []*model.Device, init []model.Color, opts TwinkleOptions, seed uint64) (*Twinkle, error) {
	t := &Twinkle{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		simplex: opensimplex.New(int64(seed)),
	}
	for _, d := range devices {
		t.strings = append(t.strings, &twinkleString{dev: d})
	}
	if err := t.Reset(init, opts); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Twinkle) Name() string { return "twinkle/" + string(t.opts.Algo) }

func (t *Twinkle) Options() TwinkleOptions { return t.opts }

func (t *Twinkle) Interval() time.Duration { return t.opts.Interval }

// Reset switches options and reloads the baseline pattern.
func (t *Twinkle) Reset(init []model.Color, opts TwinkleOptions) error {
	if opts.Damper <= 0 {
		opts.Damper = 1
	}
	if opts.ThrobSpeed <= 0 {
		opts.ThrobSpeed = 1
	}
	for _, s := range t.strings {
		n := s.dev.NumGlobes()
		p := init
		switch {
		case p == nil && opts.Base != nil:
			p = Solid(*opts.Base, n)
		case p == nil:
			p = RandomPattern(t.rng, n)
		default:
			p = Fit(p, n)
		}
		if err := s.dev.SetPattern(p); err != nil {
			return err
		}
		s.init = p
		s.noise = make([]float64, n)
	}
	t.opts = opts
	return nil
}

func (t *Twinkle) Step(ctx context.Context) error {
	devices := make([]*model.Device, len(t.strings))
	for i, s := range t.strings {
		switch t.opts.Algo {
		case AlgoThrob:
			t.throb(s)
		case AlgoSimplex:
			t.simplexStep(s)
		case AlgoRandom:
			t.randomStep(s)
		}
		if t.opts.Chase || t.opts.Algo == AlgoChase {
			s.dev.Chase(t.opts.ChaseDir)
		}
		devices[i] = s.dev
	}
	return layout.RenderAll(ctx, devices)
}

func (t *Twinkle) reference(s *twinkleString, i int) model.Color {
	if t.opts.Base != nil {
		return *t.opts.Base
	}
	return s.init[i]
}

// The first globe decides the direction for the whole string.
func (t *Twinkle) throb(s *twinkleString) {
	first, _ := s.dev.Globe(0)
	if _, _, v := first.HSV(); v > throbTurn {
		t.opts.ThrobUp = false
	} else if v < throbBottom {
		t.opts.ThrobUp = true
	}
	amount := t.opts.Interval.Seconds() / t.opts.ThrobSpeed

	for i := 0; i < s.dev.NumGlobes(); i++ {
		c, _ := s.dev.Globe(i)
		h, sat, v := c.HSV()
		if t.opts.ThrobUp {
			v = math.Min(v+amount, throbTop)
		} else {
			v = math.Max(v-amount, throbBottom)
		}
		_ = s.dev.SetGlobe(i, model.FromHSV(h, sat, v))
	}
}

func (t *Twinkle) simplexStep(s *twinkleString) {
	for i := range s.noise {
		nv := t.simplex.Eval2(s.noise[i], t.rng.Float64()) / t.opts.Damper
		s.noise[i] = math.Max(-1, math.Min(1, s.noise[i]+nv))
		ranger := (s.noise[i] + 1.0) / 2.0
		_ = s.dev.SetGlobe(i, t.reference(s, i).Scale(ranger))
	}
}

func (t *Twinkle) randomStep(s *twinkleString) {
	for i := 0; i < s.dev.NumGlobes(); i++ {
		if t.rng.Float64() >= t.opts.ChangeChance {
			continue
		}
		c, _ := s.dev.Globe(i)
		h, sat, v := c.HSV()
		bh, bs, bv := t.reference(s, i).HSV()

		h = t.walk(h, t.opts.HueStep, bh, t.opts.HueDiff)
		if h > 1 {
			h--
		} else if h < 0 {
			h++
		}
		sat = math.Max(0, math.Min(1, t.walk(sat, t.opts.SatStep, bs, t.opts.SatDiff)))
		v = math.Max(minValue, math.Min(1, t.walk(v, t.opts.ValStep, bv, t.opts.ValDiff)))
		_ = s.dev.SetGlobe(i, model.FromHSV(h, sat, v))
	}
}

// walk moves val a random amount up to step in a random direction, pinned to
// within diff of base when diff is set.
func (t *Twinkle) walk(val, step, base, diff float64) float64 {
	d := t.rng.Float64() * step
	if t.rng.IntN(2) == 1 {
		val += d
		if diff > 0 && val-base > diff {
			val = base + diff
		}
	} else {
		val -= d
		if diff > 0 && base-val > diff {
			val = base - diff
		}
	}
	return val
}
