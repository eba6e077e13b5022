package graphics

import (
	"image"
	"image/color"
)

// Recolor renders a paletted surface through palette. Indices past the end
// of palette keep the surface's own colour, and an index whose own colour is
// fully transparent stays transparent. Other images are returned unchanged.
func Recolor(src image.Image, palette color.Palette) image.Image {
	p, ok := src.(*image.Paletted)
	if !ok || len(palette) == 0 {
		return src
	}
	lut := make([]color.RGBA, 256)
	for i := range lut {
		var c color.Color = color.Transparent
		if i < len(p.Palette) {
			c = p.Palette[i]
		}
		if _, _, _, a := c.RGBA(); a != 0 && i < len(palette) {
			c = palette[i]
		}
		lut[i] = color.RGBAModel.Convert(c).(color.RGBA)
	}

	b := p.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetRGBA(x, y, lut[p.ColorIndexAt(x, y)])
		}
	}
	return out
}
