package model_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/coreman2200/funtimes-holiday/internal/model"
)

var TestPackedIsExpectedColor = []struct {
	R, G, B uint8
	Expect  uint32
}{
	{0x11, 0x22, 0x33, 0x112233},
	{0x44, 0x2A, 0x34, 0x442A34},
	{0x88, 0x3B, 0x35, 0x883B35},
	{0xFF, 0xFF, 0xFF, 0xFFFFFF},
	{0x00, 0x00, 0x00, 0x000000},
}

var TestHexParses = []struct {
	In     string
	Expect Color
	Err    bool
}{
	{"#ff8000", Color{0xff, 0x80, 0x00}, false},
	{"0x338833", Color{0x33, 0x88, 0x33}, false},
	{"0X0000FF", Color{0, 0, 0xff}, false},
	{"b0771f", Color{0xb0, 0x77, 0x1f}, false},
	{"#fff", Black, true},
	{"#gggggg", Black, true},
}

type captureTransport struct {
	frames [][]Color
	err    error
	closed bool
}

func (c *captureTransport) Send(ctx context.Context, globes []Color) error {
	if c.err != nil {
		return c.err
	}
	f := make([]Color, len(globes))
	copy(f, globes)
	c.frames = append(c.frames, f)
	return nil
}

func (c *captureTransport) Close() error {
	c.closed = true
	return nil
}

func newDevice(t *testing.T, n int) (*Device, *captureTransport) {
	t.Helper()
	tr := &captureTransport{}
	d, err := NewDevice(n, tr)
	require.NoError(t, err)
	return d, tr
}

func numbered(n int) []Color {
	p := make([]Color, n)
	for i := range p {
		p[i] = Color{R: uint8(i), G: uint8(2 * i), B: uint8(255 - i)}
	}
	return p
}

func TestColorsPacked(t *testing.T) {
	for k, v := range TestPackedIsExpectedColor {
		t.Run("Given RGB"+strconv.Itoa(k), func(t *testing.T) {
			col := RGB(v.R, v.G, v.B)
			assert.Equal(t, v.Expect, col.Packed(), "should be same val")
			assert.Equal(t, col, FromPacked(v.Expect))
		})
	}
}

func TestColorsParseHex(t *testing.T) {
	for _, v := range TestHexParses {
		t.Run(v.In, func(t *testing.T) {
			c, err := ParseHex(v.In)
			if v.Err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, v.Expect, c)
			assert.Equal(t, c, mustParse(t, c.Hex()))
		})
	}
}

func mustParse(t *testing.T, s string) Color {
	c, err := ParseHex(s)
	require.NoError(t, err)
	return c
}

func TestColorsHSV(t *testing.T) {
	h, s, v := Red.HSV()
	assert.InDelta(t, 0.0, h, 1e-9)
	assert.InDelta(t, 1.0, s, 1e-9)
	assert.InDelta(t, 1.0, v, 1e-9)

	assert.Equal(t, Green, FromHSV(1.0/3.0, 1, 1))
	assert.Equal(t, Blue, FromHSV(2.0/3.0+1.0, 1, 1), "hue wraps")
	assert.Equal(t, Black, FromHSV(0.5, 1, 0))
}

func TestColorsScale(t *testing.T) {
	assert.Equal(t, Color{50, 100, 0}, Color{100, 200, 0}.Scale(0.5))
	assert.Equal(t, Color{255, 255, 0}, Color{200, 200, 0}.Scale(2))
}

func TestNewDeviceRejectsBadCount(t *testing.T) {
	_, err := NewDevice(0, nil)
	assert.Error(t, err)
	_, err = NewDevice(-3, nil)
	assert.Error(t, err)
}

func TestSetGetGlobe(t *testing.T) {
	d, _ := newDevice(t, DefaultNumGlobes)
	for i := 0; i < d.NumGlobes(); i++ {
		c := Color{R: uint8(i), G: 7, B: uint8(3 * i)}
		require.NoError(t, d.SetGlobe(i, c))
		got, err := d.Globe(i)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestGlobeOutOfRange(t *testing.T) {
	d, _ := newDevice(t, 5)
	before := d.Globes()

	for _, i := range []int{-1, 5, 100} {
		err := d.SetGlobe(i, White)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
		_, err = d.Globe(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}
	assert.Equal(t, before, d.Globes())
}

func TestFill(t *testing.T) {
	d, _ := newDevice(t, 10)
	d.Fill(Yellow)
	for _, c := range d.Globes() {
		assert.Equal(t, Yellow, c)
	}
}

func TestSetPattern(t *testing.T) {
	d, _ := newDevice(t, 8)
	p := numbered(8)
	require.NoError(t, d.SetPattern(p))
	assert.Equal(t, p, d.Globes())

	p[0] = White
	got, _ := d.Globe(0)
	assert.NotEqual(t, White, got, "device must not alias caller pattern")
}

func TestSetPatternWrongLength(t *testing.T) {
	d, _ := newDevice(t, 8)
	require.NoError(t, d.SetPattern(numbered(8)))
	before := d.Globes()

	for _, n := range []int{0, 7, 9} {
		err := d.SetPattern(make([]Color, n))
		assert.ErrorIs(t, err, ErrPatternLength)
		assert.Equal(t, before, d.Globes())
	}
}

func TestChaseFullCycle(t *testing.T) {
	for _, dir := range []Direction{Forward, Backward} {
		t.Run(dir.String(), func(t *testing.T) {
			d, _ := newDevice(t, DefaultNumGlobes)
			p := numbered(DefaultNumGlobes)
			require.NoError(t, d.SetPattern(p))
			for i := 0; i < DefaultNumGlobes; i++ {
				d.Chase(dir)
			}
			assert.Equal(t, p, d.Globes())
		})
	}
}

func TestChaseDirection(t *testing.T) {
	d, _ := newDevice(t, 4)
	require.NoError(t, d.SetPattern([]Color{Red, Green, Blue, White}))

	d.Chase(Forward)
	assert.Equal(t, []Color{Green, Blue, White, Red}, d.Globes())

	d.Chase(Backward)
	d.Chase(Backward)
	assert.Equal(t, []Color{White, Red, Green, Blue}, d.Globes())
}

func TestRotateReplacesVacatedEnd(t *testing.T) {
	d, _ := newDevice(t, 4)
	require.NoError(t, d.SetPattern([]Color{Red, Green, Blue, White}))

	d.Rotate(Forward, Yellow)
	assert.Equal(t, []Color{Green, Blue, White, Yellow}, d.Globes())

	d.Rotate(Backward, Black)
	assert.Equal(t, []Color{Black, Green, Blue, White}, d.Globes())
}

func TestRenderSendsWholeString(t *testing.T) {
	d, tr := newDevice(t, 6)
	d.Fill(Blue)
	require.NoError(t, d.SetGlobe(2, Red))
	require.NoError(t, d.Render(context.Background()))
	require.Len(t, tr.frames, 1)
	assert.Equal(t, d.Globes(), tr.frames[0])

	require.NoError(t, d.Close())
	assert.True(t, tr.closed)
}

func TestRenderSurfacesTransportError(t *testing.T) {
	boom := errors.New("socket gone")
	d, tr := newDevice(t, 6)
	tr.err = boom
	err := d.Render(context.Background())
	assert.ErrorIs(t, err, boom)

	d.SetTransport(nil)
	assert.ErrorIs(t, d.Render(context.Background()), ErrNoTransport)
}

func TestImage(t *testing.T) {
	d, _ := newDevice(t, 3)
	require.NoError(t, d.SetPattern([]Color{Red, Green, Blue}))
	im := d.Image()
	assert.Equal(t, 3, im.Bounds().Dx())
	assert.Equal(t, 1, im.Bounds().Dy())
	assert.Equal(t, Green.NRGBA(), im.NRGBAAt(1, 0))
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("Forward")
	require.NoError(t, err)
	assert.Equal(t, Forward, d)
	d, err = ParseDirection("b")
	require.NoError(t, err)
	assert.Equal(t, Backward, d)
	_, err = ParseDirection("up")
	assert.Error(t, err)
}
