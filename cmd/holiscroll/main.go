// Command holiscroll scrolls text across strings hung side by side. Text
// comes from the arguments of --text or, failing that, stdin.
package main

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-holiday/internal/anim"
	"github.com/coreman2200/funtimes-holiday/internal/cli"
	"github.com/coreman2200/funtimes-holiday/internal/model"
)

func main() {
	app := cli.New("holiscroll", "Scroll text across horizontally hung strings.")
	text := app.Flags.String("text", "", "text to scroll; read from stdin when empty and stdin is not a terminal")
	color := app.Flags.String("color", "#ffffff", "text color as #rrggbb")
	padding := app.Flags.Int("padding", anim.DefaultPadding, "blank characters between repeats")
	app.ParseOrExit(os.Args[1:])

	if err := run(app, *text, *color, *padding); err != nil {
		log.Fatal().Err(err).Msg("holiscroll")
	}
}

func readText(text string) (string, error) {
	if text != "" {
		return text, nil
	}
	st, err := os.Stdin.Stat()
	if err != nil || st.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(string(b)), " "), nil
}

func run(app *cli.App, text, color string, padding int) error {
	logger := app.Logger()

	c, err := model.ParseHex(color)
	if err != nil {
		return err
	}
	text, err = readText(text)
	if err != nil {
		return err
	}
	m, err := app.Mapper()
	if err != nil {
		return err
	}

	ctx, stop := cli.SignalContext()
	defer stop()

	devs, err := app.Devices()
	if err != nil {
		return err
	}
	defer cli.CloseAll(devs)

	s, err := anim.NewScroller(devs, m, text, c, padding)
	if err != nil {
		return err
	}
	return app.Runner(s, logger).Run(ctx)
}
