package anim

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	"github.com/coreman2200/funtimes-holiday/internal/layout"
	"github.com/coreman2200/funtimes-holiday/internal/model"
)

// Frame is one image of a screen sequence with its display time.
type Frame struct {
	Grid  *layout.Grid
	Delay time.Duration
}

// LoadFrames decodes a still image or, with animate set, every frame of a
// GIF, scaled to w by h cells. Vertical layouts are flipped so the bottom of
// the picture sits on globe 0.
func LoadFrames(path string, w, h int, o layout.Orientation, animate bool) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeFrames(f, w, h, o, animate)
}

func DecodeFrames(r io.ReadSeeker, w, h int, o layout.Orientation, animate bool) ([]Frame, error) {
	if animate {
		if g, err := gif.DecodeAll(r); err == nil && len(g.Image) > 1 {
			return gifFrames(g, w, h, o), nil
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return []Frame{{Grid: toGrid(img, w, h, o)}}, nil
}

// gifFrames composites each frame over the previous one as browsers do for
// the common disposal modes.
func gifFrames(g *gif.GIF, w, h int, o layout.Orientation) []Frame {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewNRGBA(bounds)
	out := make([]Frame, 0, len(g.Image))
	for i, p := range g.Image {
		var saved *image.NRGBA
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			saved = image.NewNRGBA(bounds)
			draw.Draw(saved, bounds, canvas, bounds.Min, draw.Src)
		}
		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)

		delay := 100 * time.Millisecond
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		out = append(out, Frame{Grid: toGrid(canvas, w, h, o), Delay: delay})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			draw.Draw(canvas, bounds, saved, bounds.Min, draw.Src)
		}
	}
	return out
}

func toGrid(img image.Image, w, h int, o layout.Orientation) *layout.Grid {
	g := layout.FromImage(img, w, h)
	if o == layout.Vertical {
		g.FlipVertical()
	}
	return g
}

// Screen shows a still image once, or loops an animation.
type Screen struct {
	devices []*model.Device
	mapper  layout.Mapper
	frames  []Frame
	next    int
	// Loop replays the frames forever. A single frame is shown once.
	Loop bool
}

func NewScreen(devices []*model.Device, m layout.Mapper, frames []Frame) (*Screen, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("screen: no frames")
	}
	return &Screen{devices: devices, mapper: m, frames: frames, Loop: len(frames) > 1}, nil
}

func (s *Screen) Name() string { return "screen" }

func (s *Screen) Frames() []Frame { return s.frames }

func (s *Screen) Step(ctx context.Context) error {
	if s.next >= len(s.frames) {
		if !s.Loop {
			return ErrDone
		}
		s.next = 0
	}
	f := s.frames[s.next]
	s.next++
	return s.mapper.Show(ctx, f.Grid, s.devices)
}
