package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindSoundFont(t *testing.T) {
	titleDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(titleDir, "Sound"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"Sound/Piano.SF2", "generaluser-gs.SF2"} {
		if err := os.WriteFile(filepath.Join(titleDir, name), []byte("RIFF....sfbk"), 0o644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}
	}

	// Run from an empty directory so the current-directory lookup misses.
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(t.TempDir())

	tests := []struct {
		name         string
		flagPath     string
		manifestPath string
		titleDir     string
		want         string
	}{
		{"flag wins", "/sf/gm.sf2", "sound/piano.sf2", titleDir, "/sf/gm.sf2"},
		{"manifest path is case-insensitive", "", "sound/piano.sf2", titleDir, filepath.Join(titleDir, "Sound", "Piano.SF2")},
		{"missing manifest file falls back to the title directory", "", "nope.sf2", titleDir, filepath.Join(titleDir, "generaluser-gs.SF2")},
		{"default name in the title directory", "", "", titleDir, filepath.Join(titleDir, "generaluser-gs.SF2")},
		{"nothing found", "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findSoundFont(tt.flagPath, tt.manifestPath, tt.titleDir); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindSoundFont_CurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DefaultSoundFontName), []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(dir)

	if got := findSoundFont("", "", t.TempDir()); got != DefaultSoundFontName {
		t.Errorf("got %q, want %q", got, DefaultSoundFontName)
	}
}
