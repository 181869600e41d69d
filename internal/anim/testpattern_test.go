package anim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-holiday/internal/layout"
	"github.com/coreman2200/funtimes-holiday/internal/model"
)

func runToDone(t *testing.T, d Driver) int {
	t.Helper()
	steps := 0
	for {
		err := d.Step(context.Background())
		if err != nil {
			require.ErrorIs(t, err, ErrDone)
			return steps
		}
		steps++
	}
}

func TestIndexSweepPattern(t *testing.T) {
	ds, ss := newDevices(t, 1, 4)
	tp, err := NewTestPattern(ds, layout.Mapper{NumGlobes: 4}, TestIndexSweep)
	require.NoError(t, err)
	assert.Equal(t, 4, runToDone(t, tp))
	assert.Equal(t, []model.Color{model.Black, model.Black, model.White, model.Black}, ss[0].frames[2])
}

func TestRGBChannels(t *testing.T) {
	ds, ss := newDevices(t, 2, 3)
	tp, err := NewTestPattern(ds, layout.Mapper{NumGlobes: 3}, TestRGB)
	require.NoError(t, err)
	tp.Cycles = 2
	assert.Equal(t, 6, runToDone(t, tp))
	assert.Equal(t, Solid(model.Green, 3), ss[1].frames[4])
}

func TestLineSweepFollowsSwitchback(t *testing.T) {
	ds, ss := newDevices(t, 1, 6)
	tp, err := NewTestPattern(ds, layout.Mapper{NumGlobes: 6, Switchback: 3}, TestLineSweep)
	require.NoError(t, err)
	assert.Equal(t, 2, runToDone(t, tp))

	c := lineColor
	k := model.Black
	assert.Equal(t, []model.Color{c, c, c, k, k, k}, ss[0].frames[0])
	assert.Equal(t, []model.Color{k, k, k, c, c, c}, ss[0].frames[1])
}

func TestParseTestKind(t *testing.T) {
	_, err := ParseTestKind("line_sweep")
	assert.NoError(t, err)
	_, err = ParseTestKind("plane_z")
	assert.Error(t, err)
}
