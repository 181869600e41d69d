// Package layout projects 2D grids and 1D signals onto strings of globes.
//
// A grid is read as a set of lines. With vertical orientation each column
// is a line and the row is the position along it; horizontal swaps the two.
// A string can be folded back on itself every Switchback globes, so one
// physical string carries several lines.
package layout

import (
	"fmt"
	"strings"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "", "v", "vertical":
		return Vertical, nil
	case "h", "horizontal":
		return Horizontal, nil
	}
	return Vertical, fmt.Errorf("layout: unknown orientation %q", s)
}

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ConfigError reports a layout that cannot be satisfied by the available
// devices or globes.
type ConfigError struct {
	Need, Have int
	Msg        string
}

func (e *ConfigError) Error() string {
	if e.Need > 0 || e.Have > 0 {
		return fmt.Sprintf("layout: %s (need %d, have %d)", e.Msg, e.Need, e.Have)
	}
	return "layout: " + e.Msg
}

// Mapper maps (line, position) pairs to (device, globe) pairs.
type Mapper struct {
	Orientation Orientation
	// Switchback is the segment length. Zero disables folding.
	Switchback int
	NumGlobes  int
}

// Pieces is the number of whole segments a string carries. Trailing globes
// that do not make up a full segment stay unused.
func (m Mapper) Pieces() int {
	if m.Switchback <= 0 {
		return 1
	}
	return m.NumGlobes / m.Switchback
}

// Length is the number of positions along one line.
func (m Mapper) Length() int {
	if m.Switchback > 0 {
		return m.Switchback
	}
	return m.NumGlobes
}

func (m Mapper) Validate() error {
	if m.NumGlobes <= 0 {
		return &ConfigError{Msg: fmt.Sprintf("globe count %d must be positive", m.NumGlobes)}
	}
	if m.Switchback < 0 {
		return &ConfigError{Msg: fmt.Sprintf("negative switchback %d", m.Switchback)}
	}
	if m.Switchback > m.NumGlobes {
		return &ConfigError{Need: m.Switchback, Have: m.NumGlobes, Msg: "switchback longer than the string"}
	}
	return nil
}

// DevicesFor returns how many devices are needed to carry the given number
// of lines.
func (m Mapper) DevicesFor(lines int) int {
	p := m.Pieces()
	return (lines + p - 1) / p
}

// Index returns the device and globe that show position pos of line.
func (m Mapper) Index(line, pos int) (dev, globe int, err error) {
	if err := m.Validate(); err != nil {
		return 0, 0, err
	}
	if line < 0 || pos < 0 || pos >= m.Length() {
		return 0, 0, &ConfigError{Msg: fmt.Sprintf("position (%d, %d) outside a %d globe line", line, pos, m.Length())}
	}
	if m.Switchback == 0 {
		return line, pos, nil
	}

	pieces := m.Pieces()
	dev = line / pieces
	seg := line % pieces
	base := seg * m.Switchback
	if seg%2 == 0 {
		globe = base + pos
	} else {
		globe = base + (m.Switchback - pos) - 1
	}
	if globe < 0 || globe >= m.NumGlobes {
		return 0, 0, &ConfigError{Need: globe + 1, Have: m.NumGlobes, Msg: "globe index outside the string"}
	}
	return dev, globe, nil
}

// Map materialises one complete pattern per device from the grid. Globes not
// covered by any line stay black.
func (m Mapper) Map(g *Grid, devices int) ([][]model.Color, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	lines, length := g.Width, g.Height
	if m.Orientation == Horizontal {
		lines, length = g.Height, g.Width
	}
	if length > m.Length() {
		return nil, &ConfigError{Need: length, Have: m.Length(), Msg: "line longer than a segment"}
	}
	if need := m.DevicesFor(lines); need > devices {
		return nil, &ConfigError{Need: need, Have: devices, Msg: "not enough devices"}
	}

	out := make([][]model.Color, devices)
	for i := range out {
		out[i] = make([]model.Color, m.NumGlobes)
	}
	for line := 0; line < lines; line++ {
		for pos := 0; pos < length; pos++ {
			dev, globe, err := m.Index(line, pos)
			if err != nil {
				return nil, err
			}
			c := g.At(line, pos)
			if m.Orientation == Horizontal {
				c = g.At(pos, line)
			}
			out[dev][globe] = c
		}
	}
	return out, nil
}

// Geometry returns the grid size that exactly covers the given strings, and
// how many lines each string carries.
func Geometry(numStrings, numGlobes int, o Orientation, switchback int) (width, height, pieces int) {
	m := Mapper{Orientation: o, Switchback: switchback, NumGlobes: numGlobes}
	pieces = m.Pieces()
	lines, length := numStrings*pieces, m.Length()
	if o == Horizontal {
		return length, lines, pieces
	}
	return lines, length, pieces
}
