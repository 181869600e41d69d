package model

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
)

// DefaultNumGlobes is the globe count of a stock Holiday string.
const DefaultNumGlobes = 50

var (
	ErrIndexOutOfRange = errors.New("globe index out of range")
	ErrPatternLength   = errors.New("pattern length does not match globe count")
	ErrNoTransport     = errors.New("device has no transport")
)

// Transport pushes a complete string of globes to a physical or simulated
// device. Implementations always send the whole string, never a diff.
type Transport interface {
	Send(ctx context.Context, globes []Color) error
	Close() error
}

// Direction of a chase. Forward moves every globe one place towards index 0.
type Direction bool

const (
	Forward  Direction = true
	Backward Direction = false
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "f", "forward", "left":
		return Forward, nil
	case "b", "backward", "right":
		return Backward, nil
	}
	return Forward, fmt.Errorf("unknown direction %q (forward|backward)", s)
}

// Device is one string of globes plus the transport that renders it.
// A Device is owned by a single animation loop and is not safe for
// concurrent use.
type Device struct {
	globes    []Color
	transport Transport
}

// NewDevice creates a device with n black globes.
func NewDevice(n int, t Transport) (*Device, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid globe count: %d", n)
	}
	return &Device{
		globes:    make([]Color, n),
		transport: t,
	}, nil
}

func (d *Device) NumGlobes() int {
	return len(d.globes)
}

func (d *Device) Transport() Transport {
	return d.transport
}

// SetTransport swaps the render backend between frames.
func (d *Device) SetTransport(t Transport) {
	d.transport = t
}

func (d *Device) checkIndex(i int) error {
	if i < 0 || i >= len(d.globes) {
		return fmt.Errorf("globe %d of %d: %w", i, len(d.globes), ErrIndexOutOfRange)
	}
	return nil
}

func (d *Device) SetGlobe(i int, c Color) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.globes[i] = c
	return nil
}

func (d *Device) Globe(i int) (Color, error) {
	if err := d.checkIndex(i); err != nil {
		return Black, err
	}
	return d.globes[i], nil
}

// Fill sets the whole string to c.
func (d *Device) Fill(c Color) {
	for i := range d.globes {
		d.globes[i] = c
	}
}

// SetPattern replaces the whole string. The device keeps its own copy.
func (d *Device) SetPattern(p []Color) error {
	if len(p) != len(d.globes) {
		return fmt.Errorf("%w: %d != %d", ErrPatternLength, len(p), len(d.globes))
	}
	copy(d.globes, p)
	return nil
}

// Globes returns a copy of the current string.
func (d *Device) Globes() []Color {
	out := make([]Color, len(d.globes))
	copy(out, d.globes)
	return out
}

// Chase rotates every globe around by one place.
func (d *Device) Chase(dir Direction) {
	n := len(d.globes)
	if n < 2 {
		return
	}
	if dir == Forward {
		first := d.globes[0]
		copy(d.globes, d.globes[1:])
		d.globes[n-1] = first
		return
	}
	last := d.globes[n-1]
	copy(d.globes[1:], d.globes[:n-1])
	d.globes[0] = last
}

// Rotate chases by one place and writes c into the globe that was vacated:
// the last globe when moving forward, the first when moving backward.
func (d *Device) Rotate(dir Direction, c Color) {
	d.Chase(dir)
	if dir == Forward {
		d.globes[len(d.globes)-1] = c
		return
	}
	d.globes[0] = c
}

// Image returns the string as a 1xN image, index 0 leftmost.
func (d *Device) Image() *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, len(d.globes), 1))
	for x := 0; x < im.Rect.Max.X; x++ {
		im.SetNRGBA(x, 0, d.globes[x].NRGBA())
	}
	return im
}

// Render pushes the current string through the transport.
func (d *Device) Render(ctx context.Context) error {
	if d.transport == nil {
		return ErrNoTransport
	}
	if err := d.transport.Send(ctx, d.globes); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Close releases the transport.
func (d *Device) Close() error {
	if d.transport == nil {
		return nil
	}
	return d.transport.Close()
}
