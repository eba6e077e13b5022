package title

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"testing/fstest"

	"golang.org/x/image/bmp"

	"github.com/zurustar/mediastation/pkg/asm"
	"github.com/zurustar/mediastation/pkg/asset"
	"github.com/zurustar/mediastation/pkg/fileutil"
	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

const demoManifest = `
[title]
name = "Demo"
root = 100
entry = 1

[display]
width = 320

[[context]]
id = 100

[[context]]
id = 1
parameters = "CTX1.PAR"

  [[context.asset]]
  header = "screen1.hdr"

  [[context.asset]]
  header = "logo.hdr"
  bitmap = "LOGO.BMP"

  [[context.asset]]
  header = "click.hdr"
  pcm = "click.pcm"

  [[context.asset]]
  header = "caption.hdr"
  text = "Welcome"

[[context]]
id = 2

  [[context.asset]]
  header = "missing.hdr"
`

func encodeBMP(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatalf("encode bmp: %v", err)
	}
	return buf.Bytes()
}

func demoFS(t *testing.T) fstest.MapFS {
	t.Helper()
	return fstest.MapFS{
		"Title.toml":  {Data: []byte(demoManifest)},
		"ctx1.par":    {Data: asm.NewParameters(1).Variable(asm.IntDecl(5, 42)).Bytes()},
		"SCREEN1.HDR": {Data: asm.NewHeader(1, opcode.AssetScreen, 1).Bytes()},
		"logo.hdr":    {Data: asm.NewHeader(1, opcode.AssetImage, 10).Bytes()},
		"logo.bmp":    {Data: encodeBMP(t, 8, 4)},
		"click.hdr":   {Data: asm.NewHeader(1, opcode.AssetSound, 11).Bytes()},
		"click.pcm":   {Data: make([]byte, 4410)},
		"caption.hdr": {Data: asm.NewHeader(1, opcode.AssetText, 12).Bytes()},
	}
}

func TestLoadFS(t *testing.T) {
	tt, err := LoadFS(fileutil.NewEmbedFS(demoFS(t), "."))
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	if tt.Title.Name != "Demo" || tt.Title.Entry != 1 || tt.Title.Root != 100 {
		t.Errorf("title info %+v", tt.Title)
	}
	if tt.Display.Width != 320 || tt.Display.Height != 480 || tt.Display.Caption != "Demo" {
		t.Errorf("display defaults %+v", tt.Display)
	}
	if tt.Playback.FrameInterval != 10 {
		t.Errorf("frame interval %d", tt.Playback.FrameInterval)
	}
}

func TestLoadContext(t *testing.T) {
	tt, err := LoadFS(fileutil.NewEmbedFS(demoFS(t), "."))
	if err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}

	t.Run("reads parameters headers and media", func(t *testing.T) {
		c, err := tt.LoadContext(1)
		if err != nil {
			t.Fatalf("LoadContext failed: %v", err)
		}
		if c.Screen == nil || c.Screen.ID() != 1 {
			t.Error("screen not found")
		}
		if len(c.Assets) != 4 {
			t.Fatalf("got %d assets", len(c.Assets))
		}
		img := c.Assets[1].(*asset.Image)
		if img.Bitmap() == nil || img.Bitmap().Bounds().Dx() != 8 {
			t.Error("bitmap not attached")
		}
		if d := c.Assets[2].(*asset.Sound).PCMDuration(); d != 100 {
			t.Errorf("pcm duration %d, want 100", d)
		}
		if c.Assets[3].(*asset.Text).Text() != "Welcome" {
			t.Error("text not attached")
		}
		if c.Parameters == nil {
			t.Fatal("parameters not parsed")
		}
	})

	t.Run("context with no files", func(t *testing.T) {
		c, err := tt.LoadContext(100)
		if err != nil || len(c.Assets) != 0 {
			t.Errorf("got %v, %v", c, err)
		}
	})

	t.Run("unknown context", func(t *testing.T) {
		_, err := tt.LoadContext(7)
		if vm.ErrorTypeOf(err) != vm.ErrorResource {
			t.Errorf("expected RESOURCE, got %v", err)
		}
	})

	t.Run("missing header file", func(t *testing.T) {
		_, err := tt.LoadContext(2)
		if vm.ErrorTypeOf(err) != vm.ErrorResource {
			t.Errorf("expected RESOURCE, got %v", err)
		}
	})
}

func TestLoadErrors(t *testing.T) {
	t.Run("no manifest", func(t *testing.T) {
		_, err := LoadFS(fileutil.NewEmbedFS(fstest.MapFS{"a.hdr": {}}, "."))
		if !errors.Is(err, ErrManifestNotFound) {
			t.Errorf("expected ErrManifestNotFound, got %v", err)
		}
	})

	t.Run("bad bitmap", func(t *testing.T) {
		fsys := demoFS(t)
		fsys["logo.bmp"] = &fstest.MapFile{Data: []byte("not a bitmap")}
		tt, err := LoadFS(fileutil.NewEmbedFS(fsys, "."))
		if err != nil {
			t.Fatalf("LoadFS failed: %v", err)
		}
		if _, err := tt.LoadContext(1); vm.ErrorTypeOf(err) != vm.ErrorResource {
			t.Errorf("expected RESOURCE, got %v", err)
		}
	})
}

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"minimal", "[title]\nentry = 1\n[[context]]\nid = 1\n", ""},
		{"missing entry", "[[context]]\nid = 1\n", "entry is required"},
		{"entry not listed", "[title]\nentry = 2\n[[context]]\nid = 1\n", "entry context 2"},
		{"root not listed", "[title]\nentry = 1\nroot = 9\n[[context]]\nid = 1\n", "root context 9"},
		{"duplicate context", "[title]\nentry = 1\n[[context]]\nid = 1\n[[context]]\nid = 1\n", "listed twice"},
		{"asset without header", "[title]\nentry = 1\n[[context]]\nid = 1\n[[context.asset]]\npcm = \"a\"\n", "without a header"},
		{"frame origins", "[title]\nentry = 1\n[[context]]\nid = 1\n[[context.asset]]\nheader = \"s.hdr\"\nframes = [\"a.bmp\", \"b.bmp\"]\nframe-origins = [[0, 0], [4, 2]]\n", ""},
		{"frame origin not a pair", "[title]\nentry = 1\n[[context]]\nid = 1\n[[context.asset]]\nheader = \"s.hdr\"\nframes = [\"a.bmp\"]\nframe-origins = [[4]]\n", "not [left, top]"},
		{"more origins than frames", "[title]\nentry = 1\n[[context]]\nid = 1\n[[context.asset]]\nheader = \"s.hdr\"\nframes = [\"a.bmp\"]\nframe-origins = [[0, 0], [1, 1]]\n", "2 frame origins for 1 frames"},
		{"syntax error", "[title\n", "parse error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseManifest([]byte(tt.data))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("unknown keys are reported", func(t *testing.T) {
		_, unknown, err := ParseManifest([]byte("[title]\nentry = 1\ncolour = 3\n[[context]]\nid = 1\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(unknown) != 1 || unknown[0] != "title.colour" {
			t.Errorf("unknown keys %v", unknown)
		}
	})
}
