package anim

import (
	"context"
	"image"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/coreman2200/funtimes-holiday/internal/layout"
	"github.com/coreman2200/funtimes-holiday/internal/model"
)

const (
	DefaultScrollText = "Holiday by MooresCloud. The world's most intelligent Christmas lights!"
	DefaultPadding    = 2
)

// RasterText draws text in a 7x13 bitmap font on black. The image is exactly
// as wide as the text.
func RasterText(text string, c model.Color) *image.NRGBA {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	h := face.Metrics().Height.Ceil()
	im := image.NewNRGBA(image.Rect(0, 0, max(w, 1), h))
	draw.Draw(im, im.Bounds(), image.NewUniform(model.Black.NRGBA()), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  im,
		Src:  image.NewUniform(c.NRGBA()),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return im
}

// Scroller moves text across strings laid out horizontally, one text row
// per line. Text narrower than a line is padded with black.
type Scroller struct {
	devices []*model.Device
	mapper  layout.Mapper
	text    *image.NRGBA
	width   int
	lines   int
	offset  int
}

func NewScroller(devices []*model.Device, m layout.Mapper, text string, c model.Color, padding int) (*Scroller, error) {
	m.Orientation = layout.Horizontal
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		text = DefaultScrollText
	}
	text += strings.Repeat(" ", max(padding, 0))
	im := RasterText(text, c)
	if w := m.Length(); im.Bounds().Dx() < w {
		wide := image.NewNRGBA(image.Rect(0, 0, w, im.Bounds().Dy()))
		draw.Draw(wide, wide.Bounds(), image.NewUniform(model.Black.NRGBA()), image.Point{}, draw.Src)
		draw.Draw(wide, im.Bounds(), im, image.Point{}, draw.Src)
		im = wide
	}
	return &Scroller{
		devices: devices,
		mapper:  m,
		text:    im,
		width:   m.Length(),
		lines:   len(devices) * m.Pieces(),
	}, nil
}

func (s *Scroller) Name() string { return "scroller" }

// Frame builds the current window of the text, wrapping around at the end.
func (s *Scroller) Frame() *layout.Grid {
	g := layout.NewGrid(s.width, s.lines)
	tw := s.text.Bounds().Dx()
	rows := min(s.lines, s.text.Bounds().Dy())
	for y := 0; y < rows; y++ {
		for x := 0; x < s.width; x++ {
			sx := (s.offset + x) % tw
			g.Set(x, y, model.FromImageColor(s.text.NRGBAAt(sx, y)))
		}
	}
	return g
}

func (s *Scroller) Step(ctx context.Context) error {
	err := s.mapper.Show(ctx, s.Frame(), s.devices)
	s.offset++
	if s.offset > s.text.Bounds().Dx() {
		s.offset = 0
	}
	return err
}
