package model

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	RedOffset   uint8 = 0x10
	GreenOffset uint8 = 0x08
	BlueOffset  uint8 = 0x0
)

// Color is the value of a single globe.
type Color struct {
	R, G, B uint8
}

var (
	Black  = Color{}
	White  = Color{0xff, 0xff, 0xff}
	Red    = Color{R: 0xff}
	Green  = Color{G: 0xff}
	Blue   = Color{B: 0xff}
	Yellow = Color{R: 0xff, G: 0xff}
)

func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

func setcolor(c uint32, n uint8, off uint8) uint32 {
	var val uint32 = uint32(n) << off
	var mask uint32 = 0xFF << off
	return (c & (^mask)) | val
}

func getcolor(c uint32, off uint8) uint8 {
	var mask uint32 = 0xFF << off
	return uint8((c & mask) >> off)
}

// FromPacked unpacks a 0xRRGGBB value. Bits above 24 are ignored.
func FromPacked(v uint32) Color {
	return Color{
		R: getcolor(v, RedOffset),
		G: getcolor(v, GreenOffset),
		B: getcolor(v, BlueOffset),
	}
}

// Packed returns the color as 0xRRGGBB.
func (c Color) Packed() uint32 {
	var v uint32
	v = setcolor(v, c.R, RedOffset)
	v = setcolor(v, c.G, GreenOffset)
	v = setcolor(v, c.B, BlueOffset)
	return v
}

// Hex returns the lowercase #rrggbb form used by the REST API.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return c.Hex()
}

// ParseHex accepts "#rrggbb", "0xrrggbb" and "rrggbb".
func ParseHex(s string) (Color, error) {
	h := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(h, "#"):
		h = h[1:]
	case strings.HasPrefix(h, "0x"), strings.HasPrefix(h, "0X"):
		h = h[2:]
	}
	if len(h) != 6 {
		return Black, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Black, fmt.Errorf("color %q: %w", s, err)
	}
	return FromPacked(uint32(v)), nil
}

// NRGBA converts to an opaque image color for display.Drawer sinks.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// FromImageColor drops alpha after compositing over black.
func FromImageColor(ic color.Color) Color {
	r, g, b, _ := ic.RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// HSV returns hue, saturation and value, each in [0,1].
func (c Color) HSV() (h, s, v float64) {
	h, s, v = c.colorful().Hsv()
	return h / 360.0, s, v
}

// FromHSV builds a color from hue, saturation and value in [0,1].
// Hue wraps around; saturation and value are clamped.
func FromHSV(h, s, v float64) Color {
	h = math.Mod(h, 1.0)
	if h < 0 {
		h += 1.0
	}
	cf := colorful.Hsv(h*360.0, clamp01(s), clamp01(v))
	return fromColorful(cf)
}

// Scale multiplies every channel by f, clamping to 0..255.
func (c Color) Scale(f float64) Color {
	return Color{
		R: clampByte(float64(c.R) * f),
		G: clampByte(float64(c.G) * f),
		B: clampByte(float64(c.B) * f),
	}
}

// ShiftHue rotates the hue by delta, wrapping at 1.0.
func (c Color) ShiftHue(delta float64) Color {
	h, s, v := c.HSV()
	return FromHSV(h+delta, s, v)
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func fromColorful(cf colorful.Color) Color {
	return Color{
		R: clampByte(cf.R * 255.0),
		G: clampByte(cf.G * 255.0),
		B: clampByte(cf.B * 255.0),
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func clampByte(x float64) uint8 {
	if x <= 0 {
		return 0
	}
	if x >= 255 {
		return 255
	}
	return uint8(x)
}
