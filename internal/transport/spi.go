package transport

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/devices/v3/screen1d"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

// SPIFreq drives WS281x style strips through the SPI encoder.
const SPIFreq = 2500 * physic.KiloHertz

// SPI renders to a strip wired to a local SPI port, or to the console when
// no port can be opened.
type SPI struct {
	mu      sync.Mutex
	drawer  display.Drawer
	port    io.Closer
	Console bool
}

// OpenSPI opens the named port ("" for the first one) and attaches an nrzled
// strip of n pixels. Without SPI hardware it falls back to a console strip.
func OpenSPI(name string, n int) (*SPI, error) {
	if n <= 0 {
		n = model.DefaultNumGlobes
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("spi: host init: %w", err)
	}
	p, err := spireg.Open(name)
	if err != nil {
		log.Warn().Err(err).Str("port", name).Msg("no SPI port, printing at the console")
		return NewSPI(screen1d.New(&screen1d.Opts{X: n}), nil, true), nil
	}

	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: n,
		Channels:  3,
		Freq:      SPIFreq,
	})
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("spi: nrzled: %w", err)
	}
	return NewSPI(d, p, false), nil
}

// NewSPI wraps an already constructed drawer. port may be nil.
func NewSPI(d display.Drawer, port io.Closer, console bool) *SPI {
	return &SPI{drawer: d, port: port, Console: console}
}

func (s *SPI) Send(ctx context.Context, globes []model.Color) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.drawer == nil {
		return fmt.Errorf("spi: closed")
	}
	im := image.NewNRGBA(image.Rect(0, 0, len(globes), 1))
	for x, g := range globes {
		im.SetNRGBA(x, 0, g.NRGBA())
	}
	if err := s.drawer.Draw(s.drawer.Bounds(), im, image.Point{}); err != nil {
		return fmt.Errorf("spi: draw: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the port.
func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawer == nil {
		return nil
	}
	err := s.drawer.Halt()
	s.drawer = nil
	if s.port != nil {
		if cerr := s.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (s *SPI) String() string {
	if s.drawer == nil {
		return "spi{closed}"
	}
	return fmt.Sprintf("spi{%s}", s.drawer)
}
