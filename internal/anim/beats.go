package anim

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/coreman2200/funtimes-holiday/internal/layout"
	"github.com/coreman2200/funtimes-holiday/internal/model"
)

const (
	SampleRate = 44100
	Channels   = 2
	FrameSize  = 2048

	maxCutoff     = 10000
	bassDamping   = 1.8
	autorangeHold = 2 * time.Second
	autorangeDrop = 0.05
)

var (
	BarLow  = model.RGB(0, 200, 0)
	BarMid  = model.RGB(222, 215, 26)
	BarHigh = model.RGB(240, 50, 50)
)

type SpectrumMode string

const (
	ModeAmp   SpectrumMode = "amp"
	ModePower SpectrumMode = "power"
)

func ParseSpectrumMode(s string) (SpectrumMode, error) {
	switch m := SpectrumMode(s); m {
	case ModeAmp, ModePower:
		return m, nil
	}
	return "", fmt.Errorf("unknown spectrum mode %q", s)
}

// Cutoffs splits 100 Hz to 10 kHz into roughly logarithmic bands and keeps
// the top edge of each of the n groups.
func Cutoffs(n int) []float64 {
	var all []float64
	for _, exp := range []float64{100, 1000, 10000} {
		for i := 1.0; i < 10; i++ {
			for sub := 0.0; sub < 4; sub++ {
				if c := i*exp + sub*exp/4; c <= maxCutoff {
					all = append(all, c)
				}
			}
		}
	}
	if n <= 0 {
		n = 1
	}
	size := max(len(all)/n, 1)
	var out []float64
	for i := 0; i < len(all); i += size {
		out = append(out, all[min(i+size, len(all))-1])
	}
	return out
}

// Spectrum turns windows of mono samples into per band averages.
type Spectrum struct {
	Mode    SpectrumMode
	rate    float64
	fft     *fourier.FFT
	window  []float64
	cutoffs []float64
	buf     []float64
}

func NewSpectrum(rate, size, buckets int, mode SpectrumMode) *Spectrum {
	w := make([]float64, size)
	for i := range w {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(size-1))
	}
	return &Spectrum{
		Mode:    mode,
		rate:    float64(rate),
		fft:     fourier.NewFFT(size),
		window:  w,
		cutoffs: Cutoffs(buckets),
		buf:     make([]float64, size),
	}
}

func (s *Spectrum) Size() int { return len(s.window) }

// Buckets windows the samples, normalised to the sample rate, and averages
// FFT magnitudes between consecutive cutoffs. The bass band is damped.
func (s *Spectrum) Buckets(samples []float64) []float64 {
	for i := range s.buf {
		var v float64
		if i < len(samples) {
			v = samples[i]
		}
		s.buf[i] = v / s.rate * s.window[i]
	}
	coeffs := s.fft.Coefficients(nil, s.buf)

	out := make([]float64, 0, len(s.cutoffs))
	var sum float64
	var count int
	emit := func() {
		if count > 0 {
			out = append(out, sum/float64(count))
		} else {
			out = append(out, 0)
		}
		sum, count = 0, 0
	}
	ci := 0
	for k := 1; k < len(coeffs) && ci < len(s.cutoffs); k++ {
		f := s.fft.Freq(k) * s.rate
		for ci < len(s.cutoffs) && f >= s.cutoffs[ci] {
			emit()
			ci++
		}
		if ci == len(s.cutoffs) {
			break
		}
		v := cmplx.Abs(coeffs[k])
		if s.Mode == ModePower {
			v *= v
		}
		sum += v
		count++
	}
	if len(out) > 0 {
		out[0] /= bassDamping
	}
	return out
}

// Autorange tracks the loudest recent bucket. The peak is held for two
// seconds, then decays by 5% per update.
type Autorange struct {
	Max  float64
	seen time.Time
}

func (a *Autorange) Update(vals []float64, now time.Time) float64 {
	for _, v := range vals {
		if v > a.Max {
			a.Max = v
			a.seen = now
		}
	}
	if now.Sub(a.seen) > autorangeHold {
		a.Max -= a.Max * autorangeDrop
	}
	return a.Max
}

// BarColor picks green, yellow or red by height fraction.
func BarColor(frac float64) model.Color {
	switch {
	case frac < 0.4:
		return BarLow
	case frac < 0.7:
		return BarMid
	}
	return BarHigh
}

// Bars draws one bar per line, bottom up, scaled so maxval reaches
// maxHeight when autorange is set.
func Bars(vals []float64, lines, maxHeight int, maxval float64, autorange bool) *layout.Grid {
	g := layout.NewGrid(lines, maxHeight)
	for i := 0; i < lines && i < len(vals); i++ {
		v := vals[i]
		if autorange && maxval > 0 {
			v = v / maxval * float64(maxHeight)
		}
		h := min(int(v), maxHeight)
		for j := 0; j < h; j++ {
			g.Set(i, j, BarColor(float64(j)/float64(maxHeight)))
		}
	}
	return g
}

// Beats is a spectrum analyser fed with interleaved signed 16 bit little
// endian PCM.
type Beats struct {
	devices   []*model.Device
	mapper    layout.Mapper
	in        io.Reader
	spectrum  *Spectrum
	auto      Autorange
	Autorange bool
	// MaxVal, when positive, is a fixed full-scale value used instead of
	// the autorange peak.
	MaxVal    float64
	MaxHeight int
	channels  int
	raw       []byte
	mono      []float64
	now       func() time.Time
}

// NewBeats reads channels-interleaved PCM from in. buckets <= 0 gives one
// bucket per line.
func NewBeats(devices []*model.Device, m layout.Mapper, in io.Reader, channels, buckets int, mode SpectrumMode) (*Beats, error) {
	m.Orientation = layout.Vertical
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if channels <= 0 {
		channels = Channels
	}
	if buckets <= 0 {
		buckets = len(devices) * m.Pieces()
	}
	return &Beats{
		devices:   devices,
		mapper:    m,
		in:        in,
		spectrum:  NewSpectrum(SampleRate, FrameSize, buckets, mode),
		Autorange: true,
		MaxHeight: m.Length(),
		channels:  channels,
		raw:       make([]byte, FrameSize*channels*2),
		mono:      make([]float64, FrameSize),
		now:       time.Now,
	}, nil
}

func (b *Beats) Name() string { return "beats" }

// Read fills one window of mono samples, averaging the channels.
func (b *Beats) Read() ([]float64, error) {
	if _, err := io.ReadFull(b.in, b.raw); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrDone
		}
		return nil, fmt.Errorf("beats: read pcm: %w", err)
	}
	for i := range b.mono {
		var sum float64
		for c := 0; c < b.channels; c++ {
			off := (i*b.channels + c) * 2
			sum += float64(int16(binary.LittleEndian.Uint16(b.raw[off:])))
		}
		b.mono[i] = sum / float64(b.channels)
	}
	return b.mono, nil
}

func (b *Beats) Step(ctx context.Context) error {
	samples, err := b.Read()
	if err != nil {
		return err
	}
	vals := b.spectrum.Buckets(samples)
	lines := len(b.devices) * b.mapper.Pieces()
	maxval := b.auto.Update(vals[:min(lines, len(vals))], b.now())

	height := b.MaxHeight
	if height <= 0 || height > b.mapper.Length() {
		height = b.mapper.Length()
	}
	scale := b.Autorange
	if b.MaxVal > 0 {
		maxval, scale = b.MaxVal, true
	}
	return b.mapper.Show(ctx, Bars(vals, lines, height, maxval, scale), b.devices)
}
