// Package sim pretends to be one or more Holidays. Each simulated string
// accepts frames over the device protocols and a render loop displays the
// newest frame of every string on each tick.
package sim

import (
	"sync"
	"sync/atomic"

	"github.com/coreman2200/funtimes-holiday/internal/model"
)

// String is one simulated Holiday. Listeners offer frames; the render loop
// takes them. Only the newest unrendered frame is kept.
type String struct {
	Index int

	mu      sync.Mutex
	pending []model.Color
	globes  []model.Color

	received atomic.Uint64
	dropped  atomic.Uint64
	rejected atomic.Uint64

	UDPAddr  string
	TCPAddr  string
	HTTPAddr string
}

func NewString(index, n int) *String {
	return &String{Index: index, globes: make([]model.Color, n)}
}

func (s *String) NumGlobes() int { return len(s.globes) }

// Offer replaces any frame the render loop has not taken yet.
func (s *String) Offer(globes []model.Color) {
	f := make([]model.Color, len(globes))
	copy(f, globes)

	s.mu.Lock()
	if s.pending != nil {
		s.dropped.Add(1)
	}
	s.pending = f
	s.mu.Unlock()
	s.received.Add(1)
}

// Reject counts a frame that failed to decode.
func (s *String) Reject() { s.rejected.Add(1) }

// Take moves the pending frame, if any, onto the displayed string.
func (s *String) Take() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return false
	}
	copy(s.globes, s.pending)
	s.pending = nil
	return true
}

// Globes returns a copy of the displayed string.
func (s *String) Globes() []model.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Color, len(s.globes))
	copy(out, s.globes)
	return out
}

// Reset blanks the display and discards any pending frame.
func (s *String) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	for i := range s.globes {
		s.globes[i] = model.Black
	}
}

type Stats struct {
	Index    int    `json:"index"`
	Received uint64 `json:"received"`
	Dropped  uint64 `json:"dropped"`
	Rejected uint64 `json:"rejected"`
	UDP      string `json:"udp,omitempty"`
	TCP      string `json:"tcp,omitempty"`
	HTTP     string `json:"http,omitempty"`
}

func (s *String) Stats() Stats {
	return Stats{
		Index:    s.Index,
		Received: s.received.Load(),
		Dropped:  s.dropped.Load(),
		Rejected: s.rejected.Load(),
		UDP:      s.UDPAddr,
		TCP:      s.TCPAddr,
		HTTP:     s.HTTPAddr,
	}
}
