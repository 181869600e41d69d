package layout

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

type sink struct {
	mu     sync.Mutex
	frames [][]model.Color
	err    error
}

func (s *sink) Send(ctx context.Context, globes []model.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.frames = append(s.frames, append([]model.Color(nil), globes...))
	return nil
}

func (s *sink) Close() error { return nil }

func devices(t *testing.T, count, n int) ([]*model.Device, []*sink) {
	var ds []*model.Device
	var ss []*sink
	for i := 0; i < count; i++ {
		s := &sink{}
		d, err := model.NewDevice(n, s)
		require.NoError(t, err)
		ds = append(ds, d)
		ss = append(ss, s)
	}
	return ds, ss
}

func TestSwitchbackFiftyByTwentyFive(t *testing.T) {
	m := Mapper{Switchback: 25, NumGlobes: 50}
	assert.Equal(t, 2, m.Pieces())

	cases := []struct {
		line, pos  int
		dev, globe int
	}{
		{0, 0, 0, 0},
		{0, 24, 0, 24},
		{1, 0, 0, 49},
		{1, 24, 0, 25},
		{2, 0, 1, 0},
		{3, 5, 1, 44},
	}
	for _, c := range cases {
		dev, globe, err := m.Index(c.line, c.pos)
		require.NoError(t, err)
		assert.Equal(t, c.dev, dev, "line %d pos %d", c.line, c.pos)
		assert.Equal(t, c.globe, globe, "line %d pos %d", c.line, c.pos)
	}
}

func TestSwitchbackCoversEveryGlobeOnce(t *testing.T) {
	for _, n := range []int{50, 48, 30} {
		for _, l := range []int{1, 5, 10, 25} {
			m := Mapper{Switchback: l, NumGlobes: n}
			seen := map[int]int{}
			for line := 0; line < m.Pieces(); line++ {
				for pos := 0; pos < l; pos++ {
					dev, globe, err := m.Index(line, pos)
					require.NoError(t, err)
					require.Equal(t, 0, dev)
					require.True(t, globe >= 0 && globe < n)
					seen[globe]++
				}
			}
			assert.Len(t, seen, m.Pieces()*l, "n=%d l=%d", n, l)
			for g, cnt := range seen {
				assert.Equal(t, 1, cnt, "globe %d", g)
			}
		}
	}
}

func TestSwitchbackSegmentsAreAdjacent(t *testing.T) {
	m := Mapper{Switchback: 10, NumGlobes: 50}
	for line := 0; line+1 < m.Pieces(); line++ {
		_, end, err := m.Index(line, m.Length()-1)
		require.NoError(t, err)
		_, start, err := m.Index(line+1, m.Length()-1)
		require.NoError(t, err)
		if line%2 == 0 {
			assert.Equal(t, end+1, start)
		}
		_, a, _ := m.Index(line, 0)
		_, b, _ := m.Index(line+1, 0)
		if line%2 == 1 {
			assert.Equal(t, a+1, b)
		}
	}
}

func TestNoSwitchbackIsIdentity(t *testing.T) {
	m := Mapper{NumGlobes: 50}
	dev, globe, err := m.Index(3, 17)
	require.NoError(t, err)
	assert.Equal(t, 3, dev)
	assert.Equal(t, 17, globe)
}

func TestOutOfRangeIsConfigError(t *testing.T) {
	m := Mapper{Switchback: 25, NumGlobes: 50}
	_, _, err := m.Index(0, 25)
	var ce *ConfigError
	assert.True(t, errors.As(err, &ce))

	_, _, err = Mapper{Switchback: 60, NumGlobes: 50}.Index(0, 0)
	assert.True(t, errors.As(err, &ce))
}

func TestMapNeedsEnoughDevices(t *testing.T) {
	m := Mapper{Switchback: 25, NumGlobes: 50}
	g := NewGrid(5, 25)
	_, err := m.Map(g, 2)
	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, 3, ce.Need)
	assert.Equal(t, 2, ce.Have)

	_, err = m.Map(g, 3)
	assert.NoError(t, err)
}

func TestMapHorizontal(t *testing.T) {
	m := Mapper{Orientation: Horizontal, NumGlobes: 4}
	g := NewGrid(4, 2)
	g.Set(1, 0, model.Red)
	g.Set(3, 1, model.Blue)

	p, err := m.Map(g, 2)
	require.NoError(t, err)
	assert.Equal(t, []model.Color{model.Black, model.Red, model.Black, model.Black}, p[0])
	assert.Equal(t, []model.Color{model.Black, model.Black, model.Black, model.Blue}, p[1])
}

func TestGeometry(t *testing.T) {
	w, h, p := Geometry(4, 50, Vertical, 25)
	assert.Equal(t, []int{8, 25, 2}, []int{w, h, p})

	w, h, p = Geometry(4, 50, Horizontal, 10)
	assert.Equal(t, []int{10, 20, 5}, []int{w, h, p})

	w, h, p = Geometry(3, 50, Vertical, 0)
	assert.Equal(t, []int{3, 50, 1}, []int{w, h, p})
}

func TestShowRendersAllDevices(t *testing.T) {
	ds, ss := devices(t, 2, 50)
	m := Mapper{Switchback: 25, NumGlobes: 50}
	g := NewGrid(4, 25)
	g.Set(1, 0, model.Green)
	g.Set(2, 3, model.Yellow)

	require.NoError(t, m.Show(context.Background(), g, ds))
	for _, s := range ss {
		require.Len(t, s.frames, 1)
	}
	assert.Equal(t, model.Green, ss[0].frames[0][49])
	assert.Equal(t, model.Yellow, ss[1].frames[0][3])
}

func TestRenderRejectsShortPatternBeforeSending(t *testing.T) {
	ds, ss := devices(t, 2, 5)
	err := Render(context.Background(), ds, [][]model.Color{make([]model.Color, 5), make([]model.Color, 4)})
	assert.ErrorIs(t, err, model.ErrPatternLength)
	assert.Empty(t, ss[0].frames)
}

func TestRenderSurfacesTransportError(t *testing.T) {
	ds, ss := devices(t, 2, 3)
	ss[1].err = errors.New("unreachable")
	err := Render(context.Background(), ds, [][]model.Color{make([]model.Color, 3), make([]model.Color, 3)})
	assert.ErrorContains(t, err, "unreachable")
}

func TestFromImageAndFlip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	src.SetNRGBA(1, 0, color.NRGBA{255, 0, 0, 255})
	src.SetNRGBA(0, 1, color.NRGBA{0, 0, 255, 255})
	src.SetNRGBA(1, 1, color.NRGBA{0, 0, 255, 255})

	g := FromImage(src, 2, 2)
	assert.Equal(t, model.Red, g.At(0, 0))
	assert.Equal(t, model.Blue, g.At(1, 1))

	g.FlipVertical()
	assert.Equal(t, model.Blue, g.At(0, 0))
	assert.Equal(t, model.Red, g.At(1, 1))
	assert.Equal(t, model.Black, g.At(5, 5))
}

func TestFromImageDownscalesSolidColor(t *testing.T) {
	src := image.NewUniform(color.NRGBA{10, 200, 30, 255})
	im := image.NewNRGBA(image.Rect(0, 0, 40, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 40; x++ {
			im.Set(x, y, src.C)
		}
	}
	g := FromImage(im, 4, 10)
	assert.Equal(t, 4, g.Width)
	assert.Equal(t, 10, g.Height)
	for _, c := range g.Cells {
		assert.InDelta(t, 200, int(c.G), 1)
		assert.InDelta(t, 10, int(c.R), 1)
	}
}
