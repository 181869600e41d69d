// Package cli holds the flags, logging and device setup shared by the
// commands under cmd/.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/coreman2200/funtimes-holiday/internal/anim"
	"github.com/coreman2200/funtimes-holiday/internal/config"
	"github.com/coreman2200/funtimes-holiday/internal/layout"
	"github.com/coreman2200/funtimes-holiday/internal/model"
	"github.com/coreman2200/funtimes-holiday/internal/transport"
	"github.com/coreman2200/funtimes-holiday/internal/wire"
)

// App is a command's flag set on top of the shared options.
type App struct {
	Name  string
	Flags *pflag.FlagSet
	Cfg   *config.Config

	out io.Writer

	configPath  string
	transport   string
	host        string
	numStrings  int
	portStart   int
	globes      int
	fps         float64
	sleepTime   float64
	switchback  int
	orientation string
	logLevel    string
	stopOnError bool
	spiPort     string
	whiteCap    float64
	budgetmA    float64
}

// New registers the shared flags. Commands add their own to Flags before
// calling Parse.
func New(name, usage string) *App {
	d := config.Default()
	a := &App{Name: name, Cfg: d, out: os.Stderr}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(a.out, "usage: %s [flags] [host[:port] ...]\n\n%s\n\n", name, usage)
		fs.PrintDefaults()
	}

	fs.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	fs.StringVarP(&a.transport, "transport", "t", d.Transport, "render backend: udp | rest | pipe | spi")
	fs.StringVar(&a.host, "host", d.Host, "device host when no addresses are given")
	fs.IntVarP(&a.numStrings, "numstrings", "n", d.NumStrings, "number of strings at host, on consecutive ports")
	fs.IntVarP(&a.portStart, "portstart", "p", d.PortStart, "port of the first string")
	fs.IntVarP(&a.globes, "globes", "g", d.Globes, "globes per string")
	fs.Float64VarP(&a.fps, "fps", "f", d.FPS, "frames per second")
	fs.Float64VarP(&a.sleepTime, "sleeptime", "s", 0, "seconds between frames; overrides --fps")
	fs.IntVar(&a.switchback, "switchback", d.Switchback, "globes per folded segment, 0 for straight strings")
	fs.StringVarP(&a.orientation, "orientation", "o", d.Orientation, "vertical | horizontal")
	fs.StringVar(&a.logLevel, "log-level", d.LogLevel, "trace | debug | info | warn | error")
	fs.BoolVar(&a.stopOnError, "stop-on-error", d.StopOnError, "exit on the first render error")
	fs.StringVar(&a.spiPort, "spi-port", d.SPI.Port, "SPI port for --transport spi")
	fs.Float64Var(&a.whiteCap, "white-cap", d.Limit.WhiteCap, "cap each globe at this fraction of full white, 0 for none")
	fs.Float64Var(&a.budgetmA, "budget-ma", d.Limit.BudgetmA, "dim each string to stay under this draw in mA, 0 for none")
	a.Flags = fs
	return a
}

// SetOutput redirects usage and parse errors.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
	a.Flags.SetOutput(w)
}

// Parse reads args, then layers the config file and any flags set on the
// command line over the defaults.
func (a *App) Parse(args []string) error {
	if err := a.Flags.Parse(args); err != nil {
		return err
	}
	if a.configPath != "" {
		c, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.Cfg = c
	}

	fs := a.Flags
	c := a.Cfg
	if fs.Changed("transport") {
		c.Transport = a.transport
	}
	if fs.Changed("host") {
		c.Host = a.host
	}
	if fs.Changed("numstrings") {
		c.NumStrings = a.numStrings
	}
	if fs.Changed("portstart") {
		c.PortStart = a.portStart
	}
	if fs.Changed("globes") {
		c.Globes = a.globes
	}
	if fs.Changed("fps") {
		c.FPS = a.fps
	}
	if fs.Changed("sleeptime") {
		if a.sleepTime <= 0 {
			return fmt.Errorf("--sleeptime must be positive, got %g", a.sleepTime)
		}
		c.FPS = 1 / a.sleepTime
	}
	if fs.Changed("switchback") {
		c.Switchback = a.switchback
	}
	if fs.Changed("orientation") {
		c.Orientation = a.orientation
	}
	if fs.Changed("log-level") {
		c.LogLevel = a.logLevel
	}
	if fs.Changed("stop-on-error") {
		c.StopOnError = a.stopOnError
	}
	if fs.Changed("spi-port") {
		c.SPI.Port = a.spiPort
	}
	if fs.Changed("white-cap") {
		c.Limit.WhiteCap = a.whiteCap
	}
	if fs.Changed("budget-ma") {
		c.Limit.BudgetmA = a.budgetmA
	}
	if fs.NArg() > 0 {
		c.Devices = fs.Args()
	}

	if _, err := transport.ParseKind(c.Transport); err != nil {
		return err
	}
	if _, err := layout.ParseOrientation(c.Orientation); err != nil {
		return err
	}
	return c.Validate()
}

// ParseOrExit is Parse for main: usage errors exit 2, --help exits 0.
func (a *App) ParseOrExit(args []string) {
	err := a.Parse(args)
	if err == nil {
		return
	}
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	fmt.Fprintf(a.out, "%s: %v\n", a.Name, err)
	a.Flags.Usage()
	os.Exit(2)
}

// Logger sets up the global console logger at the configured level.
func (a *App) Logger() zerolog.Logger {
	return SetupLogging(os.Stderr, a.Cfg.LogLevel)
}

func SetupLogging(w io.Writer, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
	}
	return log.Logger
}

// Targets lists one transport target per configured string.
func (a *App) Targets() []transport.Target {
	c := a.Cfg
	kind, _ := transport.ParseKind(c.Transport)
	var addrs []string
	switch kind {
	case transport.KindSPI:
		addrs = []string{c.SPI.Port}
	case transport.KindPipe:
		addrs = c.Devices
		if len(addrs) == 0 {
			addrs = []string{transport.DefaultPipePath}
		}
	case transport.KindREST:
		addrs = c.Devices
		if len(addrs) == 0 && c.NumStrings <= 1 {
			addrs = []string{c.Host}
		} else if len(addrs) == 0 {
			addrs = c.Addrs()
		}
	default:
		addrs = c.Addrs()
	}
	out := make([]transport.Target, len(addrs))
	for i, addr := range addrs {
		out[i] = transport.Target{Kind: kind, Addr: addr, Globes: c.Globes}
	}
	return out
}

// Devices opens a device per target. On failure the ones already opened
// are closed.
func (a *App) Devices() ([]*model.Device, error) {
	var devs []*model.Device
	for _, t := range a.Targets() {
		tr, err := transport.Open(t)
		if err != nil {
			CloseAll(devs)
			return nil, fmt.Errorf("%s %s: %w", t.Kind, t.Addr, err)
		}
		if l := a.Cfg.Limit; l.Enabled() {
			tr = transport.NewLimit(tr, l.WhiteCap, l.BudgetmA)
		}
		d, err := model.NewDevice(a.Cfg.Globes, tr)
		if err != nil {
			tr.Close()
			CloseAll(devs)
			return nil, err
		}
		log.Debug().Str("transport", string(t.Kind)).Str("addr", t.Addr).Msg("device opened")
		devs = append(devs, d)
	}
	return devs, nil
}

func CloseAll(devs []*model.Device) {
	for _, d := range devs {
		if err := d.Close(); err != nil {
			log.Debug().Err(err).Msg("close device")
		}
	}
}

func (a *App) Mapper() (layout.Mapper, error) {
	o, err := layout.ParseOrientation(a.Cfg.Orientation)
	if err != nil {
		return layout.Mapper{}, err
	}
	m := layout.Mapper{Orientation: o, Switchback: a.Cfg.Switchback, NumGlobes: a.Cfg.Globes}
	return m, m.Validate()
}

func (a *App) Interval() time.Duration { return anim.Interval(a.Cfg.FPS) }

// Runner wraps d in a loop at the configured rate.
func (a *App) Runner(d anim.Driver, log zerolog.Logger) *anim.Runner {
	return &anim.Runner{
		Driver:      d,
		Interval:    a.Interval(),
		StopOnError: a.Cfg.StopOnError,
		Log:         log,
	}
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Pattern resolves a built-in pattern name or a JSON pattern file. Built-in
// patterns are stretched or cut to n globes; files must match exactly.
func Pattern(name string, n int) ([]model.Color, error) {
	if name == "" {
		return nil, nil
	}
	if slices.Contains(anim.Patterns(), name) {
		return anim.BuiltinPattern(name, n)
	}
	return wire.LoadPatternFile(name, n)
}
