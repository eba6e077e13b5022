// Package graphics implements the compositors the engine draws into: an
// Ebitengine display for windowed runs and a Recorder for headless runs.
package graphics

import (
	"image"
	"image/color"
	"log/slog"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/zurustar/mediastation/pkg/logger"
)

type drawRequest struct {
	surface image.Image
	at      image.Point
	z       int
}

// Display collects the draw requests of a tick and paints them, in request
// order, when Ebitengine calls Paint.
type Display struct {
	width, height int
	requests      []drawRequest
	palette       color.Palette
	viewport      image.Point
	cache         map[image.Image]*ebiten.Image
	used          map[image.Image]bool
	overlay       *Overlay
	log           *slog.Logger
	mu            sync.Mutex
}

// NewDisplay creates a display of the given logical size.
func NewDisplay(width, height int) *Display {
	return &Display{
		width:   width,
		height:  height,
		cache:   make(map[image.Image]*ebiten.Image),
		used:    make(map[image.Image]bool),
		overlay: NewOverlay(),
		log:     logger.GetLogger().With("component", "graphics"),
	}
}

// Size returns the logical screen size.
func (d *Display) Size() (int, int) {
	return d.width, d.height
}

// Overlay returns the debug overlay.
func (d *Display) Overlay() *Overlay {
	return d.overlay
}

// BeginFrame drops the previous tick's requests and releases textures that
// were not drawn in it.
func (d *Display) BeginFrame() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for src, img := range d.cache {
		if !d.used[src] {
			img.Deallocate()
			delete(d.cache, src)
		}
	}
	clear(d.used)
	d.requests = d.requests[:0]
}

// Draw queues a surface for the current frame.
func (d *Display) Draw(surface image.Image, at image.Point, z int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, drawRequest{surface: surface, at: at, z: z})
	d.used[surface] = true
}

// SetPalette changes the palette paletted surfaces are drawn with.
func (d *Display) SetPalette(p color.Palette) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.palette = p
	for src, img := range d.cache {
		if _, ok := src.(*image.Paletted); ok {
			img.Deallocate()
			delete(d.cache, src)
		}
	}
	d.log.Debug("Palette changed", "colors", len(p))
}

// SetViewport scrolls the display.
func (d *Display) SetViewport(origin image.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.viewport = origin
}

// Paint draws the queued requests onto screen.
func (d *Display) Paint(screen *ebiten.Image) {
	d.mu.Lock()
	defer d.mu.Unlock()

	screen.Fill(color.Black)
	for _, req := range d.requests {
		img := d.texture(req.surface)
		opts := &ebiten.DrawImageOptions{}
		opts.GeoM.Translate(float64(req.at.X-d.viewport.X), float64(req.at.Y-d.viewport.Y))
		screen.DrawImage(img, opts)
	}
	d.overlay.Draw(screen)
}

func (d *Display) texture(src image.Image) *ebiten.Image {
	if img, ok := d.cache[src]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(Recolor(src, d.palette))
	d.cache[src] = img
	return img
}
