package title

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file every title directory carries.
const ManifestName = "title.toml"

var (
	// ErrManifestNotFound is returned when a directory has no title.toml.
	ErrManifestNotFound = errors.New("title.toml not found")

	// ErrInvalidManifest is returned for manifests that decode but make no
	// sense.
	ErrInvalidManifest = errors.New("invalid title manifest")
)

// Manifest is the decoded title.toml.
type Manifest struct {
	Title    Info           `toml:"title"`
	Display  Display        `toml:"display"`
	Playback Playback       `toml:"playback"`
	Audio    Audio          `toml:"audio"`
	Contexts []ContextEntry `toml:"context"`
}

// Info names the title and its start-up contexts.
type Info struct {
	Name string `toml:"name"`
	// Root is a context kept loaded for the whole run; 0 for none.
	Root uint32 `toml:"root"`
	// Entry is the screen shown first.
	Entry uint32 `toml:"entry"`
}

// Display configures the window.
type Display struct {
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Scale   int    `toml:"scale"`
	Debug   bool   `toml:"debug"` // status overlay
	Caption string `toml:"caption"`
}

// Playback configures the frame loop.
type Playback struct {
	FrameInterval int `toml:"frame-interval"` // milliseconds
}

// Interval returns the frame interval as a duration.
func (p Playback) Interval() time.Duration {
	return time.Duration(p.FrameInterval) * time.Millisecond
}

// Audio configures sound output.
type Audio struct {
	SoundFont string `toml:"soundfont"`
	Muted     bool   `toml:"muted"`
}

// ContextEntry lists the files of one context.
type ContextEntry struct {
	ID         uint32       `toml:"id"`
	Parameters string       `toml:"parameters"`
	Assets     []AssetEntry `toml:"asset"`
}

// AssetEntry lists an asset header and its payload files.
type AssetEntry struct {
	Header  string        `toml:"header"`
	Bitmap  string        `toml:"bitmap"`
	Frames  []string      `toml:"frames"`
	Origins [][]int       `toml:"frame-origins"` // [left, top] per frame
	Footers []FooterEntry `toml:"footers"`
	PCM     string        `toml:"pcm"`
	MIDI    string        `toml:"midi"`
	Text    string        `toml:"text"`
}

// FooterEntry places a movie frame; times are milliseconds.
type FooterEntry struct {
	Index int   `toml:"index"`
	Start int64 `toml:"start"`
	End   int64 `toml:"end"`
	Left  int   `toml:"left"`
	Top   int   `toml:"top"`
	Z     int   `toml:"z"`
}

// ParseManifest decodes and validates title.toml contents. Keys it does not
// know are returned so the caller can warn about them.
func ParseManifest(data []byte) (*Manifest, []string, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, nil, fmt.Errorf("parse error in %s: %w", ManifestName, err)
	}
	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}

	m.applyDefaults()
	if err := m.validate(); err != nil {
		return nil, unknown, err
	}
	return &m, unknown, nil
}

func (m *Manifest) applyDefaults() {
	if m.Display.Width == 0 {
		m.Display.Width = 640
	}
	if m.Display.Height == 0 {
		m.Display.Height = 480
	}
	if m.Display.Scale == 0 {
		m.Display.Scale = 1
	}
	if m.Display.Caption == "" {
		m.Display.Caption = m.Title.Name
	}
	if m.Playback.FrameInterval == 0 {
		m.Playback.FrameInterval = 10
	}
}

func (m *Manifest) validate() error {
	if m.Title.Entry == 0 {
		return fmt.Errorf("%w: [title] entry is required", ErrInvalidManifest)
	}
	if m.Display.Width < 0 || m.Display.Height < 0 || m.Display.Scale < 0 || m.Playback.FrameInterval < 0 {
		return fmt.Errorf("%w: negative size or interval", ErrInvalidManifest)
	}
	seen := make(map[uint32]bool)
	for _, c := range m.Contexts {
		if seen[c.ID] {
			return fmt.Errorf("%w: context %d listed twice", ErrInvalidManifest, c.ID)
		}
		seen[c.ID] = true
		for _, a := range c.Assets {
			if a.Header == "" {
				return fmt.Errorf("%w: context %d has an asset without a header", ErrInvalidManifest, c.ID)
			}
			if len(a.Origins) > len(a.Frames) {
				return fmt.Errorf("%w: %s lists %d frame origins for %d frames", ErrInvalidManifest, a.Header, len(a.Origins), len(a.Frames))
			}
			for _, o := range a.Origins {
				if len(o) != 2 {
					return fmt.Errorf("%w: %s frame origin %v is not [left, top]", ErrInvalidManifest, a.Header, o)
				}
			}
		}
	}
	if !seen[m.Title.Entry] {
		return fmt.Errorf("%w: entry context %d is not listed", ErrInvalidManifest, m.Title.Entry)
	}
	if m.Title.Root != 0 && !seen[m.Title.Root] {
		return fmt.Errorf("%w: root context %d is not listed", ErrInvalidManifest, m.Title.Root)
	}
	return nil
}
