package anim

import (
	"context"
	"sync"
	"time"

	"github.com/coreman2200/funtimes-holiday/internal/layout"
	"github.com/coreman2200/funtimes-holiday/internal/model"
)

const (
	HueStep = 0.05

	PhlostonInterval    = 20 * time.Millisecond
	PhlostonAppInterval = 50 * time.Millisecond
)

var (
	PhlostonColor    = model.RGB(0x33, 0x88, 0x33)
	PhlostonAppColor = model.RGB(100, 0, 0)
)

// Phloston lights the string one more globe per step, then starts again from
// black once every globe is lit.
type Phloston struct {
	devices []*model.Device
	step    int
	Delay   time.Duration

	mu    sync.Mutex
	color model.Color
}

func NewPhloston(devices []*model.Device, c model.Color) *Phloston {
	return &Phloston{devices: devices, color: c, Delay: PhlostonInterval}
}

func (p *Phloston) Name() string { return "phloston" }

func (p *Phloston) Color() model.Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.color
}

func (p *Phloston) SetColor(c model.Color) {
	p.mu.Lock()
	p.color = c
	p.mu.Unlock()
}

// ShiftHue moves the fill color around the hue circle.
func (p *Phloston) ShiftHue(delta float64) {
	p.mu.Lock()
	p.color = p.color.ShiftHue(delta)
	p.mu.Unlock()
}

func (p *Phloston) Up()   { p.ShiftHue(HueStep) }
func (p *Phloston) Down() { p.ShiftHue(-HueStep) }

func (p *Phloston) Interval() time.Duration { return p.Delay }

func (p *Phloston) Step(ctx context.Context) error {
	c := p.Color()
	for _, d := range p.devices {
		if p.step == 0 {
			d.Fill(model.Black)
			continue
		}
		for i := 0; i < p.step && i < d.NumGlobes(); i++ {
			_ = d.SetGlobe(i, c)
		}
	}
	p.step++
	if p.step >= p.length() {
		p.step = 0
	}
	return layout.RenderAll(ctx, p.devices)
}

func (p *Phloston) length() int {
	n := 0
	for _, d := range p.devices {
		n = max(n, d.NumGlobes())
	}
	return n
}
