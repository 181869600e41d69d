package anim

import (
	"context"

	"github.com/coreman2200/funtimes-holiday/internal/layout"
	"github.com/coreman2200/funtimes-holiday/internal/model"
)

// DemoPattern is black with white, red, green, blue and yellow markers every
// ten globes.
func DemoPattern(n int) []model.Color {
	p := make([]model.Color, n)
	for i, c := range []model.Color{model.White, model.Red, model.Green, model.Blue, model.Yellow} {
		if i*10 < n {
			p[i*10] = c
		}
	}
	return p
}

// Chase rotates a fixed pattern around every device.
type Chase struct {
	devices []*model.Device
	Dir     model.Direction
}

// NewChase loads pattern into every device. A nil pattern means DemoPattern.
func NewChase(devices []*model.Device, pattern []model.Color, dir model.Direction) (*Chase, error) {
	for _, d := range devices {
		p := pattern
		if p == nil {
			p = DemoPattern(d.NumGlobes())
		}
		if err := d.SetPattern(p); err != nil {
			return nil, err
		}
	}
	return &Chase{devices: devices, Dir: dir}, nil
}

func (c *Chase) Name() string { return "chase" }

func (c *Chase) Step(ctx context.Context) error {
	for _, d := range c.devices {
		d.Chase(c.Dir)
	}
	return layout.RenderAll(ctx, c.devices)
}
