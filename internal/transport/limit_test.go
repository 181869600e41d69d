package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

type capture struct {
	last   []model.Color
	closed bool
}

func (c *capture) Send(ctx context.Context, globes []model.Color) error {
	c.last = globes
	return nil
}

func (c *capture) Close() error {
	c.closed = true
	return nil
}

func white(n int) []model.Color {
	p := make([]model.Color, n)
	for i := range p {
		p[i] = model.White
	}
	return p
}

func TestLimitBudgetClamp(t *testing.T) {
	// 10 white globes draw 600mA
	l := NewLimit(&capture{}, 0, 300)
	assert.InDelta(t, 600, l.Estimate(white(10)), 0.001)
	assert.LessOrEqual(t, l.Estimate(l.Apply(white(10))), 300.0)
}

func TestLimitUnderKneeUntouched(t *testing.T) {
	l := NewLimit(&capture{}, 0, 1000)
	in := white(10)
	assert.Equal(t, in, l.Apply(in))
}

func TestLimitSoftKnee(t *testing.T) {
	// 570mA is 95% of the budget, inside the knee
	l := NewLimit(&capture{}, 0, 600)
	p := white(10)
	p[0] = model.RGB(255, 255, 0)
	out := l.Apply(p)
	assert.Less(t, l.Estimate(out), l.Estimate(p))
	assert.LessOrEqual(t, l.Estimate(out), 600.0)
}

func TestLimitWhiteCap(t *testing.T) {
	l := NewLimit(&capture{}, 0.5, 0)
	out := l.Apply([]model.Color{model.White, model.Red})
	assert.LessOrEqual(t, int(out[0].R)+int(out[0].G)+int(out[0].B), 382)
	assert.Equal(t, model.Red, out[1])
}

func TestLimitSendLeavesInputAlone(t *testing.T) {
	c := &capture{}
	l := NewLimit(c, 0, 60)
	in := white(2)
	require.NoError(t, l.Send(context.Background(), in))
	assert.Equal(t, white(2), in)
	assert.LessOrEqual(t, l.Estimate(c.last), 60.0)

	require.NoError(t, l.Close())
	assert.True(t, c.closed)
}
