package sim

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"periph.io/x/devices/v3/screen1d"

	"github.com/coreman2200/funtimes-holiday/internal/anim"
	"github.com/coreman2200/funtimes-holiday/internal/model"
	"github.com/coreman2200/funtimes-holiday/internal/transport"
)

const DefaultFPS = 30

type Options struct {
	NumStrings int
	NumGlobes  int
	Host       string

	// UDPStart is the port of string 0; string i listens on UDPStart+i.
	// Zero searches PortRangeStart..PortRangeEnd for each string.
	UDPStart int
	// TCPStart and HTTPStart work the same way; zero disables them.
	TCPStart  int
	HTTPStart int

	// ViewerAddr serves /ws, /health, /pause and /reset. Empty disables.
	ViewerAddr string
	FPS        float64
	Console    bool
}

// Sim owns the listeners and render loop for a set of simulated strings.
type Sim struct {
	opts    Options
	Strings []*String
	// Outputs receive a string whenever it changes. Console mode fills
	// these with screen1d strips.
	Outputs []model.Transport

	udp    []*net.UDPConn
	tcp    []net.Listener
	http   []net.Listener
	viewLn net.Listener
	viewer *Viewer

	paused  atomic.Bool
	frameID atomic.Uint64
	start   time.Time
	log     zerolog.Logger
}

// New binds every listener up front so the bound addresses are known
// before Run.
func New(opts Options, log zerolog.Logger) (_ *Sim, err error) {
	if opts.NumStrings <= 0 {
		opts.NumStrings = 1
	}
	if opts.NumGlobes <= 0 {
		opts.NumGlobes = model.DefaultNumGlobes
	}
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}
	sm := &Sim{opts: opts, viewer: NewViewer(), start: time.Now(), log: log}
	defer func() {
		if err != nil {
			sm.Close()
		}
	}()

	for i := 0; i < opts.NumStrings; i++ {
		s := NewString(i, opts.NumGlobes)
		sm.Strings = append(sm.Strings, s)

		port := 0
		if opts.UDPStart != 0 {
			port = opts.UDPStart + i
		}
		conn, err := BindUDP(opts.Host, port)
		if err != nil {
			return nil, fmt.Errorf("string %d: udp: %w", i, err)
		}
		sm.udp = append(sm.udp, conn)
		s.UDPAddr = conn.LocalAddr().String()

		if opts.TCPStart != 0 {
			ln, err := net.Listen("tcp", net.JoinHostPort(opts.Host, strconv.Itoa(opts.TCPStart+i)))
			if err != nil {
				return nil, fmt.Errorf("string %d: tcp: %w", i, err)
			}
			sm.tcp = append(sm.tcp, ln)
			s.TCPAddr = ln.Addr().String()
		}
		if opts.HTTPStart != 0 {
			ln, err := net.Listen("tcp", net.JoinHostPort(opts.Host, strconv.Itoa(opts.HTTPStart+i)))
			if err != nil {
				return nil, fmt.Errorf("string %d: http: %w", i, err)
			}
			sm.http = append(sm.http, ln)
			s.HTTPAddr = ln.Addr().String()
		}
		if opts.Console {
			sm.Outputs = append(sm.Outputs, transport.NewSPI(screen1d.New(&screen1d.Opts{X: opts.NumGlobes}), nil, true))
		}
	}

	if opts.ViewerAddr != "" {
		ln, err := net.Listen("tcp", opts.ViewerAddr)
		if err != nil {
			return nil, fmt.Errorf("viewer: %w", err)
		}
		sm.viewLn = ln
	}
	return sm, nil
}

func (sm *Sim) ViewerAddr() string {
	if sm.viewLn == nil {
		return ""
	}
	return sm.viewLn.Addr().String()
}

func (sm *Sim) Pause(on bool) {
	sm.paused.Store(on)
	sm.log.Info().Bool("paused", on).Msg("pause")
}

func (sm *Sim) Paused() bool { return sm.paused.Load() }

// Reset blanks every string and shows the result.
func (sm *Sim) Reset() {
	for _, s := range sm.Strings {
		s.Reset()
	}
	sm.show(context.Background())
}

// Tick takes the newest frame of each string and shows whatever changed.
// Nothing is taken while paused, so the display freezes and only the
// latest frame survives the pause.
func (sm *Sim) Tick(ctx context.Context) bool {
	if sm.Paused() {
		return false
	}
	changed := false
	for _, s := range sm.Strings {
		if s.Take() {
			changed = true
		}
	}
	if changed {
		sm.show(ctx)
	}
	return changed
}

func (sm *Sim) show(ctx context.Context) {
	id := sm.frameID.Add(1)
	strs := make([][]model.Color, len(sm.Strings))
	for i, s := range sm.Strings {
		strs[i] = s.Globes()
		if i < len(sm.Outputs) {
			if err := sm.Outputs[i].Send(ctx, strs[i]); err != nil && ctx.Err() == nil {
				sm.log.Debug().Err(err).Int("string", i).Msg("output")
			}
		}
	}
	sm.viewer.Broadcast(NewFrame(id, strs))
}

// Run serves every listener and renders at the configured rate until ctx
// is cancelled.
func (sm *Sim) Run(ctx context.Context) error {
	defer sm.Close()
	g, ctx := errgroup.WithContext(ctx)

	for i, conn := range sm.udp {
		s, conn := sm.Strings[i], conn
		l := sm.log.With().Int("string", i).Str("proto", "udp").Logger()
		l.Info().Str("addr", s.UDPAddr).Msg("listening")
		g.Go(func() error { return ServeUDP(ctx, conn, s, l) })
	}
	for i, ln := range sm.tcp {
		s, ln := sm.Strings[i], ln
		l := sm.log.With().Int("string", i).Str("proto", "tcp").Logger()
		l.Info().Str("addr", s.TCPAddr).Msg("listening")
		g.Go(func() error { return ServePipe(ctx, ln, s, l) })
	}
	for i, ln := range sm.http {
		s, ln := sm.Strings[i], ln
		l := sm.log.With().Int("string", i).Str("proto", "http").Logger()
		l.Info().Str("addr", s.HTTPAddr).Msg("listening")
		srv := newServer(StringRouter(s, l))
		g.Go(func() error { return serveHTTP(ctx, srv, ln) })
	}
	if sm.viewLn != nil {
		sm.log.Info().Str("addr", sm.ViewerAddr()).Msg("viewer listening")
		srv := newServer(sm.ViewerRouter())
		ln := sm.viewLn
		g.Go(func() error { return serveHTTP(ctx, srv, ln) })
	}

	g.Go(func() error {
		r := &anim.Runner{
			Driver:   tickDriver{sm},
			Interval: anim.Interval(sm.opts.FPS),
			Log:      sm.log,
		}
		return r.Run(ctx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type tickDriver struct{ sm *Sim }

func (t tickDriver) Name() string { return "sim" }

func (t tickDriver) Step(ctx context.Context) error {
	t.sm.Tick(ctx)
	return nil
}

// Close releases every listener. It is safe to call more than once.
func (sm *Sim) Close() error {
	var errs []error
	for _, c := range sm.udp {
		if err := c.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
	}
	for _, ln := range append(append([]net.Listener{}, sm.tcp...), sm.http...) {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if sm.viewLn != nil {
		if err := sm.viewLn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
	}
	sm.viewer.Close()
	for _, o := range sm.Outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
