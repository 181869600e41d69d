package layout

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

// Grid is a small RGB raster, row major. (0, 0) is the top left cell.
type Grid struct {
	Width, Height int
	Cells         []model.Color
}

func NewGrid(w, h int) *Grid {
	return &Grid{Width: w, Height: h, Cells: make([]model.Color, w*h)}
}

// At returns black outside the grid.
func (g *Grid) At(x, y int) model.Color {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return model.Black
	}
	return g.Cells[y*g.Width+x]
}

func (g *Grid) Set(x, y int, c model.Color) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}
	g.Cells[y*g.Width+x] = c
}

// FlipVertical mirrors the grid top to bottom in place, so the bottom row
// lands on globe 0 of a vertical line.
func (g *Grid) FlipVertical() {
	for y := 0; y < g.Height/2; y++ {
		top := g.Cells[y*g.Width : (y+1)*g.Width]
		bot := g.Cells[(g.Height-1-y)*g.Width : (g.Height-y)*g.Width]
		for x := range top {
			top[x], bot[x] = bot[x], top[x]
		}
	}
}

// FromImage scales img down to w by h cells. CatmullRom averages the source
// pixels under each cell, close to an area resample.
func FromImage(img image.Image, w, h int) *Grid {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	g := NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Cells[y*w+x] = model.FromImageColor(dst.NRGBAAt(x, y))
		}
	}
	return g
}

func (g *Grid) Image() *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, c := range g.Cells {
		im.SetNRGBA(i%g.Width, i/g.Width, c.NRGBA())
	}
	return im
}
