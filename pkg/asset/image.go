package asset

import (
	"image"

	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

// Image is a static bitmap. Canvases use the same type and start without a
// bitmap.
type Image struct {
	base
	spatial
	bitmap image.Image
}

// NewImage creates an image or canvas asset.
func NewImage(h *Header) *Image {
	return &Image{base: base{header: h}, spatial: newSpatial(h)}
}

// SetBitmap replaces the bitmap. An empty bounding box takes the bitmap's
// size.
func (a *Image) SetBitmap(img image.Image) {
	a.bitmap = img
	if img != nil && a.bounds.Empty() {
		a.bounds = image.Rectangle{Min: a.bounds.Min, Max: a.bounds.Min.Add(img.Bounds().Size())}
	}
}

// Bitmap returns the current bitmap, or nil.
func (a *Image) Bitmap() image.Image { return a.bitmap }

// Draw paints the bitmap while the image is visible.
func (a *Image) Draw(c vm.Compositor) {
	if !a.visible || a.bitmap == nil {
		return
	}
	c.Draw(a.bitmap, a.bounds.Min, a.z)
}

func (a *Image) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	if v, ok, err := a.callSpatial(id, args); ok {
		return v, err
	}
	return unsupported(a, id)
}
