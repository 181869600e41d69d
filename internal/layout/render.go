package layout

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

// Render applies every pattern to its device, then renders all devices
// together. Nothing is sent unless every pattern fits.
func Render(ctx context.Context, devices []*model.Device, patterns [][]model.Color) error {
	if len(patterns) > len(devices) {
		return &ConfigError{Need: len(patterns), Have: len(devices), Msg: "not enough devices"}
	}
	for i, p := range patterns {
		if len(p) != devices[i].NumGlobes() {
			return fmt.Errorf("device %d: %w: %d != %d", i, model.ErrPatternLength, len(p), devices[i].NumGlobes())
		}
	}
	for i, p := range patterns {
		if err := devices[i].SetPattern(p); err != nil {
			return fmt.Errorf("device %d: %w", i, err)
		}
	}
	return RenderAll(ctx, devices[:len(patterns)])
}

// RenderAll sends every device's current string concurrently and returns
// the first error.
func RenderAll(ctx context.Context, devices []*model.Device) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, d := range devices {
		g.Go(func() error {
			if err := d.Render(ctx); err != nil {
				return fmt.Errorf("device %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Show maps the grid and renders it across devices.
func (m Mapper) Show(ctx context.Context, g *Grid, devices []*model.Device) error {
	patterns, err := m.Map(g, len(devices))
	if err != nil {
		return err
	}
	return Render(ctx, devices, patterns)
}
