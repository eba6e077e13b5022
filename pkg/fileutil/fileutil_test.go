package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestFindFileCaseInsensitive(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"Screen1.HDR", "lowercase.mid"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "Frames"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	tests := []struct {
		name       string
		search     string
		want       string
		shouldFind bool
	}{
		{"exact match", "Screen1.HDR", "Screen1.HDR", true},
		{"lowercase search", "screen1.hdr", "Screen1.HDR", true},
		{"uppercase search", "LOWERCASE.MID", "lowercase.mid", true},
		{"missing file", "absent.bmp", "", false},
		{"directories are skipped", "frames", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindFileCaseInsensitive(tmpDir, tt.search)
			if !tt.shouldFind {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("expected ErrNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filepath.Base(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := FindFileCaseInsensitive(filepath.Join(tmpDir, "nope"), "x"); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestFSResolve(t *testing.T) {
	fsys := fstest.MapFS{
		"titles/demo/Title.toml":         {Data: []byte("a")},
		"titles/demo/Frames/SPRITE01.BMP": {Data: []byte("b")},
	}
	f := NewEmbedFS(fsys, "titles/demo")

	tests := []struct {
		name string
		want string
	}{
		{"Title.toml", "titles/demo/Title.toml"},
		{"title.TOML", "titles/demo/Title.toml"},
		{"frames/sprite01.bmp", "titles/demo/Frames/SPRITE01.BMP"},
		{"\\FRAMES\\Sprite01.bmp", "titles/demo/Frames/SPRITE01.BMP"},
		{".", "titles/demo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Resolve(tt.name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	data, err := f.ReadFile("FRAMES/sprite01.bmp")
	if err != nil || string(data) != "b" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
	if _, err := f.ReadFile("missing.hdr"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.Resolve("../escape"); err == nil {
		t.Error("expected an error for a parent reference")
	}
	if !f.IsEmbedded() {
		t.Error("embedded FS should report IsEmbedded")
	}
}

func TestRealFS(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "MAIN.HDR"), []byte("hdr"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f := NewRealFS(dir)
	file, err := f.Open("main.hdr")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	file.Close()
	if f.IsEmbedded() {
		t.Error("real FS should not report IsEmbedded")
	}
}
