package asset

import (
	"image"
	"image/color"
	"testing"

	"github.com/zurustar/mediastation/pkg/asm"
	"github.com/zurustar/mediastation/pkg/datum"
	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

var blackAndWhite = color.Palette{
	color.RGBA{0, 0, 0, 0xff},
	color.RGBA{0xff, 0xff, 0xff, 0xff},
}

func TestParseHeader(t *testing.T) {
	t.Run("reads every section", func(t *testing.T) {
		data := asm.NewHeader(3, opcode.AssetMovie, 42).
			Int(opcode.SectionAssetID, 42).
			Int(opcode.SectionStageID, 7).
			Rect(image.Rect(10, 20, 110, 220)).
			Int(opcode.SectionZIndex, 4).
			Int(opcode.SectionStartup, 1).
			Int(opcode.SectionFrameRate, 12).
			SoundInfo(3, 11025).
			Point(opcode.SectionViewportOrigin, image.Pt(5, 6)).
			Palette(blackAndWhite).
			Name("intro").
			Handler(asm.EventHandler(opcode.EventMovieEnd)).
			Handler(asm.TimeHandler(1.5)).
			Bytes()

		h, err := ParseHeader(datum.NewReader(data))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.FileNumber != 3 || h.Type != opcode.AssetMovie || h.ID != 42 {
			t.Errorf("identity: %d %s %d", h.FileNumber, h.Type, h.ID)
		}
		if h.StageID != 7 || h.ZIndex != 4 || !h.Startup || h.FrameRate != 12 {
			t.Errorf("scalars: stage %d z %d startup %v rate %d", h.StageID, h.ZIndex, h.Startup, h.FrameRate)
		}
		if h.BoundingBox != image.Rect(10, 20, 110, 220) {
			t.Errorf("bounding box %v", h.BoundingBox)
		}
		if h.TotalChunks != 3 || h.SampleRate != 11025 {
			t.Errorf("sound info %d %d", h.TotalChunks, h.SampleRate)
		}
		if h.ViewportOrigin != image.Pt(5, 6) {
			t.Errorf("viewport %v", h.ViewportOrigin)
		}
		if len(h.Palette) != 256 {
			t.Fatalf("palette has %d entries", len(h.Palette))
		}
		if r, g, b, _ := h.Palette[1].RGBA(); r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff {
			t.Errorf("palette[1] = %v", h.Palette[1])
		}
		if h.Name != "intro" {
			t.Errorf("name %q", h.Name)
		}
		if h.Handlers.Len() != 2 || !h.Handlers.Has(opcode.EventMovieEnd) {
			t.Errorf("handlers: %d", h.Handlers.Len())
		}
		if got := h.Handlers.MaxThreshold(); got != 1500 {
			t.Errorf("max threshold %d", got)
		}
	})

	t.Run("unknown section is a format error", func(t *testing.T) {
		data := asm.NewHeader(1, opcode.AssetImage, 2).
			Int(opcode.SectionType(0x0999), 1).
			Bytes()
		_, err := ParseHeader(datum.NewReader(data))
		if vm.ErrorTypeOf(err) != vm.ErrorFormat {
			t.Fatalf("expected FORMAT, got %v", err)
		}
	})

	t.Run("truncated header is a format error", func(t *testing.T) {
		data := asm.NewHeader(1, opcode.AssetImage, 2).
			Int(opcode.SectionZIndex, 1).
			Bytes()
		_, err := ParseHeader(datum.NewReader(data[:len(data)-3]))
		if vm.ErrorTypeOf(err) != vm.ErrorFormat {
			t.Fatalf("expected FORMAT, got %v", err)
		}
	})

	t.Run("mismatched asset id only warns", func(t *testing.T) {
		data := asm.NewHeader(1, opcode.AssetImage, 2).
			Int(opcode.SectionAssetID, 9).
			Bytes()
		h, err := ParseHeader(datum.NewReader(data))
		if err != nil || h.ID != 2 {
			t.Fatalf("got %v, %v", h, err)
		}
	})

	t.Run("x and y place assets without a bounding box", func(t *testing.T) {
		a, err := Load(asm.NewHeader(1, opcode.AssetImage, 2).
			Int(opcode.SectionX, 30).
			Int(opcode.SectionY, 40).
			Bytes())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := a.(*Image).Bounds().Min; got != image.Pt(30, 40) {
			t.Errorf("got %v", got)
		}
	})
}

func TestAttach(t *testing.T) {
	t.Run("routes media by kind", func(t *testing.T) {
		txt := NewText(&Header{Type: opcode.AssetText, ID: 1})
		if err := Attach(txt, Media{Text: "hi"}); err != nil || txt.Text() != "hi" {
			t.Errorf("text: %q %v", txt.Text(), err)
		}
		img := NewImage(&Header{Type: opcode.AssetImage, ID: 2})
		if err := Attach(img, Media{Bitmap: image.NewRGBA(image.Rect(0, 0, 8, 6))}); err != nil {
			t.Fatalf("image: %v", err)
		}
		if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
			t.Errorf("image bounds %v", img.Bounds())
		}
	})

	t.Run("kinds without media are rejected", func(t *testing.T) {
		if err := Attach(NewTimer(&Header{Type: opcode.AssetTimer, ID: 3}), Media{}); err == nil {
			t.Error("expected an error")
		}
	})
}
