package asset

import (
	"image/color"

	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

// Screen is a navigation target. Its Entry and Exit handlers run on
// branchToScreen and its palette is applied on entry.
type Screen struct {
	base
}

// NewScreen creates a screen.
func NewScreen(h *Header) *Screen {
	return &Screen{base: base{header: h}}
}

// Palette returns the screen's own palette, or the palette of the asset its
// header references.
func (a *Screen) Palette(rt *vm.Runtime) color.Palette {
	if len(a.header.Palette) > 0 {
		return a.header.Palette
	}
	if a.header.AssetReference == 0 {
		return nil
	}
	ref, ok := rt.Asset(a.header.AssetReference)
	if !ok {
		rt.Logger().Warn("Screen references a missing palette", "id", a.ID(), "palette", a.header.AssetReference)
		return nil
	}
	if p, ok := ref.(vm.PaletteHolder); ok {
		return p.Palette()
	}
	return nil
}

func (a *Screen) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	return unsupported(a, id)
}

// Palette is a named colour table used by effectTransition and screens.
type Palette struct {
	base
}

// NewPalette creates a palette asset.
func NewPalette(h *Header) *Palette {
	return &Palette{base: base{header: h}}
}

func (a *Palette) Palette() color.Palette { return a.header.Palette }

func (a *Palette) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	return unsupported(a, id)
}

// Document stands in for kinds that are registered so scripts can refer to
// them but have no behaviour: cursors, fonts, printers, image sets and
// recorders.
type Document struct {
	base
}

// NewDocument creates a stand-in asset.
func NewDocument(h *Header) *Document {
	return &Document{base: base{header: h}}
}

func (a *Document) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	return unsupported(a, id)
}
