package asset

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

// Text is an editable text field rendered with a fixed bitmap face.
type Text struct {
	base
	spatial
	text     string
	rendered *image.RGBA
}

// NewText creates a text asset.
func NewText(h *Header) *Text {
	return &Text{base: base{header: h}, spatial: newSpatial(h)}
}

// Text returns the current contents.
func (a *Text) Text() string { return a.text }

// SetText replaces the contents.
func (a *Text) SetText(s string) {
	if s != a.text {
		a.text = s
		a.rendered = nil
	}
}

// Draw renders the text inside the bounding box.
func (a *Text) Draw(c vm.Compositor) {
	if !a.visible || a.text == "" {
		return
	}
	if a.rendered == nil {
		a.rendered = renderText(a.text, a.bounds.Size())
	}
	c.Draw(a.rendered, a.bounds.Min, a.z)
}

// renderText draws s line by line in black on a transparent surface. An
// empty size grows to fit the text.
func renderText(s string, size image.Point) *image.RGBA {
	face := basicfont.Face7x13
	lines := strings.Split(s, "\n")
	if size.X <= 0 || size.Y <= 0 {
		width := 0
		for _, l := range lines {
			if w := font.MeasureString(face, l).Ceil(); w > width {
				width = w
			}
		}
		size = image.Pt(width, len(lines)*face.Height)
	}
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.NewUniform(color.Black), Face: face}
	for i, l := range lines {
		d.Dot = fixed.P(0, face.Ascent+i*face.Height)
		d.DrawString(l)
	}
	return img
}

func (a *Text) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	switch id {
	case opcode.Text:
		return vm.NewString(a.text), nil
	case opcode.SetText:
		if err := vm.CheckArgs(id, args, 1, 1); err != nil {
			return vm.Empty(), err
		}
		if args[0].Kind() != vm.KindString {
			return vm.Empty(), vm.NewTypeError("%s expects a string, got %s", id, args[0].Kind())
		}
		a.SetText(args[0].Text())
		return vm.Empty(), nil
	}
	if v, ok, err := a.callSpatial(id, args); ok {
		return v, err
	}
	return unsupported(a, id)
}
