package graphics

import (
	"image/color"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var (
	overlayTextColor = color.RGBA{255, 255, 0, 255}
	overlayBgColor   = color.RGBA{0, 0, 0, 200}
)

const overlayLineHeight = 14

// Overlay draws status lines in the top-left corner when enabled.
type Overlay struct {
	enabled bool
	lines   []string
	face    text.Face
	mu      sync.RWMutex
}

// NewOverlay creates a disabled overlay.
func NewOverlay() *Overlay {
	return &Overlay{face: text.NewGoXFace(basicfont.Face7x13)}
}

// SetEnabled turns the overlay on or off.
func (o *Overlay) SetEnabled(enabled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.enabled = enabled
}

// IsEnabled reports whether the overlay is drawn.
func (o *Overlay) IsEnabled() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.enabled
}

// SetText replaces the overlay lines.
func (o *Overlay) SetText(s string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = strings.Split(s, "\n")
}

// Draw paints the overlay onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if !o.enabled || len(o.lines) == 0 {
		return
	}
	width := 0
	for _, l := range o.lines {
		width = max(width, len(l)*7)
	}
	vector.FillRect(screen, 0, 0, float32(width+8), float32(len(o.lines)*overlayLineHeight+6), overlayBgColor, false)
	for i, l := range o.lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(4, float64(3+i*overlayLineHeight))
		op.ColorScale.ScaleWithColor(overlayTextColor)
		text.Draw(screen, l, o.face, op)
	}
}
