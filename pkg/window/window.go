// Package window runs the frame loop: an Ebitengine game for windowed play
// and a ticker for headless play. Both call Player.Tick with the
// milliseconds elapsed since the loop started.
package window

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/zurustar/mediastation/pkg/engine"
	"github.com/zurustar/mediastation/pkg/graphics"
	"github.com/zurustar/mediastation/pkg/logger"
)

// Player is driven by the frame loop. *engine.Engine implements it.
type Player interface {
	Tick(now int64) error
	Click(x, y int) error
	MouseUp(x, y int) error
	MouseMove(x, y int) error
	Key(code byte) error
}

// Terminator is implemented by players that can be told to stop.
type Terminator interface {
	Terminate()
}

func terminate(p Player) {
	if t, ok := p.(Terminator); ok {
		t.Terminate()
	}
}

// Options configures a loop.
type Options struct {
	Caption  string
	Scale    int
	Interval time.Duration // frame interval
	Timeout  time.Duration // 0 for none
	// Status, when set, supplies the debug overlay text each frame.
	Status func() string
}

func (o Options) interval() time.Duration {
	if o.Interval <= 0 {
		return 10 * time.Millisecond
	}
	return o.Interval
}

// Game adapts a Player to ebiten.Game.
type Game struct {
	player     Player
	display    *graphics.Display
	opts       Options
	start      time.Time
	now        func() time.Time
	lastX      int
	lastY      int
	terminated bool
	log        *slog.Logger
}

// NewGame creates a game drawing into display.
func NewGame(player Player, display *graphics.Display, opts Options) *Game {
	return &Game{
		player:  player,
		display: display,
		opts:    opts,
		now:     time.Now,
		lastX:   -1,
		lastY:   -1,
		log:     logger.GetLogger().With("component", "window"),
	}
}

// Update runs one frame: input first, then the engine tick.
func (g *Game) Update() error {
	if g.terminated {
		return ebiten.Termination
	}
	if g.start.IsZero() {
		g.start = g.now()
	}
	elapsed := g.now().Sub(g.start)
	if g.opts.Timeout > 0 && elapsed >= g.opts.Timeout {
		g.log.Info("Timeout reached, stopping", "timeout", g.opts.Timeout)
		terminate(g.player)
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		terminate(g.player)
		return ebiten.Termination
	}

	if err := g.processMouse(); err != nil {
		return g.handle(err)
	}
	if err := g.processKeys(); err != nil {
		return g.handle(err)
	}
	if err := g.player.Tick(elapsed.Milliseconds()); err != nil {
		return g.handle(err)
	}
	if g.opts.Status != nil && g.display.Overlay().IsEnabled() {
		g.display.Overlay().SetText(g.opts.Status())
	}
	return nil
}

// handle maps engine termination to a clean exit.
func (g *Game) handle(err error) error {
	if errors.Is(err, engine.ErrTerminated) {
		g.terminated = true
		return ebiten.Termination
	}
	return err
}

func (g *Game) processMouse() error {
	x, y := ebiten.CursorPosition()
	if x != g.lastX || y != g.lastY {
		g.lastX, g.lastY = x, y
		if err := g.player.MouseMove(x, y); err != nil {
			return err
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if err := g.player.Click(x, y); err != nil {
			return err
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		return g.player.MouseUp(x, y)
	}
	return nil
}

var controlKeys = map[ebiten.Key]byte{
	ebiten.KeyEnter:     '\r',
	ebiten.KeyBackspace: '\b',
	ebiten.KeyTab:       '\t',
}

func (g *Game) processKeys() error {
	for _, r := range ebiten.AppendInputChars(nil) {
		if r > 0xff {
			continue
		}
		if err := g.player.Key(byte(r)); err != nil {
			return err
		}
	}
	for key, code := range controlKeys {
		if inpututil.IsKeyJustPressed(key) {
			if err := g.player.Key(code); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.display.Paint(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.display.Size()
}

// Run opens a window and plays until the player terminates, the timeout
// passes or the window is closed.
func Run(player Player, display *graphics.Display, opts Options) error {
	w, h := display.Size()
	scale := max(opts.Scale, 1)
	ebiten.SetWindowSize(w*scale, h*scale)
	ebiten.SetWindowTitle(opts.Caption)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(max(int(time.Second/opts.interval()), 1))

	if err := ebiten.RunGame(NewGame(player, display, opts)); err != nil {
		return fmt.Errorf("game loop: %w", err)
	}
	return nil
}

// RunHeadless ticks player at the frame interval until it terminates, the
// timeout passes or ctx is cancelled. Reaching the timeout is not an error.
func RunHeadless(ctx context.Context, player Player, opts Options) error {
	log := logger.GetLogger().With("component", "window")
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	ticker := time.NewTicker(opts.interval())
	defer ticker.Stop()
	start := time.Now()
	frames := 0

	for {
		if err := player.Tick(time.Since(start).Milliseconds()); err != nil {
			if errors.Is(err, engine.ErrTerminated) {
				log.Info("Title terminated", "frames", frames)
				return nil
			}
			return err
		}
		frames++

		select {
		case <-ctx.Done():
			terminate(player)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.Info("Timeout reached, stopping", "timeout", opts.Timeout, "frames", frames)
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
