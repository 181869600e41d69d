package transport

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/coreman2200/funtimes-holiday/internal/model"
	"github.com/coreman2200/funtimes-holiday/internal/wire"
)

// DefaultPipePath is the compositor FIFO on a physical Holiday.
const DefaultPipePath = "/run/compose.fifo"

type flusher interface {
	Flush() error
}

// Pipe writes frames to the local compositor. Each frame goes out in one
// Write so readers never see a partial frame.
type Pipe struct {
	mu  sync.Mutex
	w   io.Writer
	c   io.Closer
	pid int
}

// OpenPipe opens the FIFO for writing. An empty path means DefaultPipePath.
func OpenPipe(path string) (*Pipe, error) {
	if path == "" {
		path = DefaultPipePath
	}
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("pipe: open %s: %w", path, err)
	}
	return &Pipe{w: f, c: f, pid: os.Getpid()}, nil
}

// NewPipe wraps any writer. The pid is stamped on every frame.
func NewPipe(w io.Writer, pid int) *Pipe {
	p := &Pipe{w: w, pid: pid}
	if c, ok := w.(io.Closer); ok {
		p.c = c
	}
	return p
}

func (p *Pipe) Send(ctx context.Context, globes []model.Color) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.w == nil {
		return fmt.Errorf("pipe: closed")
	}
	if _, err := p.w.Write(wire.EncodePipe(p.pid, globes)); err != nil {
		return fmt.Errorf("pipe: write: %w", err)
	}
	if f, ok := p.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("pipe: flush: %w", err)
		}
	}
	return nil
}

func (p *Pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.w = nil
	if p.c != nil {
		err := p.c.Close()
		p.c = nil
		return err
	}
	return nil
}
