package vm

import (
	"image"
	"image/color"
	"time"

	"github.com/zurustar/mediastation/pkg/opcode"
)

// Asset is anything a script can hold a reference to and call methods on.
type Asset interface {
	ID() uint32
	Type() opcode.AssetType
	// CallMethod runs a built-in method with this asset as self. Method ids
	// the asset does not implement return a TYPE error when the id is a known
	// built-in and an UNSUPPORTED error otherwise.
	CallMethod(rt *Runtime, id opcode.BuiltIn, args []Operand) (Operand, error)
}

// Playable is implemented by assets with a playback clock (movies, sounds,
// sprites, timers, paths).
type Playable interface {
	Asset
	Play(rt *Runtime) error
	Stop(rt *Runtime) error
	IsPlaying() bool
	// Process advances the asset to now. The scheduler calls it once per frame
	// while the asset is registered as playing.
	Process(rt *Runtime, now int64) error
}

// Layered is implemented by assets drawn at a z-index.
type Layered interface {
	ZIndex() int
}

// Drawable is implemented by spatial assets that are redrawn every frame
// while visible, independently of playback.
type Drawable interface {
	Layered
	Draw(c Compositor)
}

// Compositor draws a surface with its top-left corner at a position. Higher z
// is drawn first.
type Compositor interface {
	Draw(surface image.Image, at image.Point, z int)
}

// PaletteSetter receives the 256-entry palette of the current screen.
type PaletteSetter interface {
	SetPalette(p color.Palette)
}

// ViewportSetter is implemented by compositors that can scroll.
type ViewportSetter interface {
	SetViewport(origin image.Point)
}

// AudioSink plays sound asset payloads.
type AudioSink interface {
	// PlayPCM plays signed 16-bit little-endian mono samples.
	PlayPCM(id uint32, pcm []byte, sampleRate int) error
	// PlayMIDI plays a standard MIDI file and returns its length.
	PlayMIDI(id uint32, smf []byte) (time.Duration, error)
	Stop(id uint32)
}

// Navigator loads contexts and switches screens on behalf of scripts.
type Navigator interface {
	BranchToScreen(screenID uint32) error
	LoadContext(contextID uint32) error
	ReleaseContext(contextID uint32) error
}

type discardCompositor struct{}

func (discardCompositor) Draw(image.Image, image.Point, int) {}

type discardPalette struct{}

func (discardPalette) SetPalette(color.Palette) {}

type silentAudio struct{}

func (silentAudio) PlayPCM(uint32, []byte, int) error               { return nil }
func (silentAudio) PlayMIDI(uint32, []byte) (time.Duration, error) { return 0, nil }
func (silentAudio) Stop(uint32)                                    {}
