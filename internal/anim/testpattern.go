package anim

import (
	"context"
	"fmt"

	"github.com/coreman2200/funtimes-holiday/internal/layout"
	"github.com/coreman2200/funtimes-holiday/internal/model"
)

// TestKind selects a wiring check.
type TestKind string

const (
	// TestIndexSweep walks one white globe from index 0 to the end.
	TestIndexSweep TestKind = "index_sweep"
	// TestRGB shows all red, all green, then all blue.
	TestRGB TestKind = "rgb_channels"
	// TestLineSweep lights one mapped line at a time, following switchback
	// folds, so the physical layout can be checked against the mapper.
	TestLineSweep TestKind = "line_sweep"
)

func ParseTestKind(s string) (TestKind, error) {
	switch k := TestKind(s); k {
	case TestIndexSweep, TestRGB, TestLineSweep:
		return k, nil
	}
	return "", fmt.Errorf("unknown test %q (index_sweep|rgb_channels|line_sweep)", s)
}

var lineColor = model.RGB(0, 255, 255)

// TestPattern runs a test once per cycle and then reports ErrDone.
type TestPattern struct {
	devices []*model.Device
	mapper  layout.Mapper
	kind    TestKind
	step    int
	Cycles  int
}

func NewTestPattern(devices []*model.Device, m layout.Mapper, kind TestKind) (*TestPattern, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseTestKind(string(kind)); err != nil {
		return nil, err
	}
	return &TestPattern{devices: devices, mapper: m, kind: kind, Cycles: 1}, nil
}

func (t *TestPattern) Name() string { return "test/" + string(t.kind) }

// Len is the number of steps in one cycle.
func (t *TestPattern) Len() int {
	switch t.kind {
	case TestIndexSweep:
		return t.mapper.NumGlobes
	case TestRGB:
		return 3
	}
	return len(t.devices) * t.mapper.Pieces()
}

func (t *TestPattern) Step(ctx context.Context) error {
	n := t.Len()
	if t.Cycles > 0 && t.step >= n*t.Cycles {
		return ErrDone
	}
	i := t.step % n
	t.step++

	for _, d := range t.devices {
		d.Fill(model.Black)
	}
	switch t.kind {
	case TestIndexSweep:
		for _, d := range t.devices {
			if err := d.SetGlobe(i, model.White); err != nil {
				return err
			}
		}
	case TestRGB:
		c := []model.Color{model.Red, model.Green, model.Blue}[i]
		for _, d := range t.devices {
			d.Fill(c)
		}
	case TestLineSweep:
		for pos := 0; pos < t.mapper.Length(); pos++ {
			dev, globe, err := t.mapper.Index(i, pos)
			if err != nil {
				return err
			}
			if err := t.devices[dev].SetGlobe(globe, lineColor); err != nil {
				return err
			}
		}
	}
	return layout.RenderAll(ctx, t.devices)
}
