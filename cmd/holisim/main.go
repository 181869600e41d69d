// Command holisim simulates Holidays locally. Every string listens for UDP
// frames and optionally for pipe-format frames over TCP and REST calls over
// HTTP; a browser viewer connects to /ws on the viewer address.
package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-holiday/internal/cli"
	"github.com/coreman2200/funtimes-holiday/internal/sim"
)

func main() {
	app := cli.New("holisim", "Simulate one or more Holiday strings.")
	d := app.Cfg.Sim
	tcp := app.Flags.Int("tcpstart", d.TCPStart, "first TCP port for pipe-format frames, 0 to disable")
	httpStart := app.Flags.Int("httpstart", d.HTTPStart, "first HTTP port for the REST API, 0 to disable")
	viewer := app.Flags.String("viewer", d.ViewerAddr, "viewer listen address, empty to disable")
	console := app.Flags.Bool("console", d.Console, "draw the strings in the terminal")
	app.ParseOrExit(os.Args[1:])

	c := app.Cfg
	s := c.Sim
	if app.Flags.Changed("numstrings") {
		s.NumStrings = c.NumStrings
	}
	if app.Flags.Changed("portstart") {
		s.PortStart = c.PortStart
	}
	if app.Flags.Changed("tcpstart") {
		s.TCPStart = *tcp
	}
	if app.Flags.Changed("httpstart") {
		s.HTTPStart = *httpStart
	}
	if app.Flags.Changed("viewer") {
		s.ViewerAddr = *viewer
	}
	if app.Flags.Changed("console") {
		s.Console = *console
	}
	fps := c.FPS
	if !app.Flags.Changed("fps") && !app.Flags.Changed("sleeptime") {
		fps = sim.DefaultFPS
	}

	opts := sim.Options{
		NumStrings: s.NumStrings,
		NumGlobes:  c.Globes,
		Host:       c.Host,
		UDPStart:   s.PortStart,
		TCPStart:   s.TCPStart,
		HTTPStart:  s.HTTPStart,
		ViewerAddr: s.ViewerAddr,
		FPS:        fps,
		Console:    s.Console,
	}
	if !app.Flags.Changed("host") {
		opts.Host = ""
	}
	if err := run(app, opts); err != nil {
		log.Fatal().Err(err).Msg("holisim")
	}
}

func run(app *cli.App, opts sim.Options) error {
	logger := app.Logger()

	ctx, stop := cli.SignalContext()
	defer stop()

	sm, err := sim.New(opts, logger)
	if err != nil {
		return err
	}
	for _, s := range sm.Strings {
		logger.Info().Int("string", s.Index).Str("udp", s.UDPAddr).Str("tcp", s.TCPAddr).Str("http", s.HTTPAddr).Msg("holiday ready")
	}
	return sm.Run(ctx)
}
