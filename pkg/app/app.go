// Package app wires the player together: command line, logging, title,
// runtime, engine and the frame loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/zurustar/mediastation/pkg/asset"
	"github.com/zurustar/mediastation/pkg/audio"
	"github.com/zurustar/mediastation/pkg/cli"
	"github.com/zurustar/mediastation/pkg/datum"
	"github.com/zurustar/mediastation/pkg/engine"
	"github.com/zurustar/mediastation/pkg/graphics"
	"github.com/zurustar/mediastation/pkg/logger"
	"github.com/zurustar/mediastation/pkg/title"
	"github.com/zurustar/mediastation/pkg/vm"
	"github.com/zurustar/mediastation/pkg/window"
)

// ErrNoTitle is returned when no title directory was given.
var ErrNoTitle = errors.New("no title directory given")

// Application runs one invocation of the player.
type Application struct {
	config *cli.Config
	log    *slog.Logger
	out    io.Writer
}

// New creates an application writing help and disassembly to out.
func New(out io.Writer) *Application {
	return &Application{out: out}
}

// Run parses args and plays the title they name.
func (app *Application) Run(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}
	app.config = config
	if config.ShowHelp {
		cli.PrintHelp(app.out)
		return nil
	}

	if err := logger.InitLogger(config.LogLevel, config.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()
	app.log = logger.GetLogger()

	if config.Disasm != "" {
		return app.disassemble(config.Disasm)
	}
	if config.TitlePath == "" {
		return ErrNoTitle
	}

	t, err := title.Load(config.TitlePath)
	if err != nil {
		return fmt.Errorf("failed to load title: %w", err)
	}
	if err := app.play(t); err != nil {
		return err
	}
	app.log.Info("Application terminated normally")
	return nil
}

func (app *Application) play(t *title.Title) error {
	opts := window.Options{
		Caption:  t.Display.Caption,
		Scale:    t.Display.Scale,
		Interval: t.Playback.Interval(),
		Timeout:  app.config.Timeout,
	}

	if app.config.Headless {
		recorder := graphics.NewRecorder(graphics.WithRecorderLogger(app.log.With("component", "graphics")))
		eng, err := app.start(t, recorder, recorder, &audio.Null{})
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		err = window.RunHeadless(ctx, eng, opts)
		app.log.Info("Headless run finished", "frames", recorder.Frames())
		return err
	}

	display := graphics.NewDisplay(t.Display.Width, t.Display.Height)
	display.Overlay().SetEnabled(t.Display.Debug)
	eng, err := app.start(t, display, display, app.audioSink(t))
	if err != nil {
		return err
	}
	opts.Status = func() string {
		screen := uint32(0)
		if c := eng.Current(); c != nil {
			screen = c.ID
		}
		return fmt.Sprintf("screen %d\nplaying %d\nt %d ms", screen, len(eng.Runtime().Playing()), eng.Runtime().Now())
	}
	return window.Run(eng, display, opts)
}

func (app *Application) audioSink(t *title.Title) vm.AudioSink {
	sf := findSoundFont(app.config.SoundFont, t.Audio.SoundFont, app.config.TitlePath)
	sink, err := audio.NewSink(sf)
	if err != nil {
		app.log.Warn("Audio disabled", "soundfont", sf, "error", err)
		return &audio.Null{}
	}
	sink.SetMuted(t.Audio.Muted)
	return sink
}

func (app *Application) start(t *title.Title, c vm.Compositor, p vm.PaletteSetter, a vm.AudioSink) (*engine.Engine, error) {
	rt := vm.NewRuntime(
		vm.WithLogger(app.log.With("component", "vm")),
		vm.WithStrict(app.config.Strict),
		vm.WithCompositor(c),
		vm.WithPaletteSetter(p),
		vm.WithAudioSink(a),
	)
	eng := engine.New(rt, t)
	if err := eng.Start(t.Title.Root, t.Title.Entry); err != nil {
		return nil, fmt.Errorf("failed to start title: %w", err)
	}
	return eng, nil
}

// disassemble prints the event handlers of an asset header file.
func (app *Application) disassemble(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	h, err := asset.ParseHeader(datum.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	fmt.Fprintf(app.out, "asset %d (%s) %q\n", h.ID, h.Type, h.Name)
	for _, eh := range h.Handlers.All() {
		fmt.Fprintf(app.out, "\n%s:\n", eh)
		for _, line := range vm.Disassemble(eh.Code) {
			fmt.Fprintf(app.out, "  %s\n", line)
		}
	}
	return nil
}
