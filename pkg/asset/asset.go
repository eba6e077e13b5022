package asset

import (
	"errors"
	"fmt"
	"image"

	"github.com/zurustar/mediastation/pkg/datum"
	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

var (
	// ErrUnsupportedKind is returned by New for asset kinds with no
	// implementation.
	ErrUnsupportedKind = errors.New("unsupported asset kind")

	// ErrFunctionAsset is returned by New for FUNCTION headers, which are
	// loaded through the context parameters instead.
	ErrFunctionAsset = errors.New("function assets are not instantiated")
)

// base carries the header shared by every asset kind.
type base struct {
	header *Header
}

func (b *base) ID() uint32             { return b.header.ID }
func (b *base) Type() opcode.AssetType { return b.header.Type }

// Header returns the parsed header.
func (b *base) Header() *Header { return b.header }

// Name returns the authored asset name, if any.
func (b *base) Name() string { return b.header.Name }

// Handlers returns the asset's event handlers.
func (b *base) Handlers() *vm.EventHandlers { return &b.header.Handlers }

// HandlerSet is implemented by every asset in this package.
type HandlerSet interface {
	vm.Asset
	Handlers() *vm.EventHandlers
}

// unsupported reports a method the receiver does not implement. Known
// built-ins are TYPE errors; unknown ids are UNSUPPORTED.
func unsupported(a vm.Asset, id opcode.BuiltIn) (vm.Operand, error) {
	if id.Known() {
		return vm.Empty(), vm.NewTypeError("%s is not a method of %s asset %d", id, a.Type(), a.ID())
	}
	return vm.Empty(), vm.NewUnsupportedError("method %d on %s asset %d", uint32(id), a.Type(), a.ID())
}

// New creates the asset described by h.
func New(h *Header) (vm.Asset, error) {
	switch h.Type {
	case opcode.AssetScreen:
		return NewScreen(h), nil
	case opcode.AssetStage:
		return NewStage(h), nil
	case opcode.AssetCamera:
		return NewCamera(h), nil
	case opcode.AssetPath:
		return NewPath(h), nil
	case opcode.AssetSound, opcode.AssetXsnd, opcode.AssetXsndMidi:
		return NewSound(h), nil
	case opcode.AssetTimer:
		return NewTimer(h), nil
	case opcode.AssetImage, opcode.AssetCanvas:
		return NewImage(h), nil
	case opcode.AssetHotspot:
		return NewHotspot(h), nil
	case opcode.AssetSprite:
		return NewSprite(h), nil
	case opcode.AssetMovie:
		return NewMovie(h), nil
	case opcode.AssetPalette:
		return NewPalette(h), nil
	case opcode.AssetText:
		return NewText(h), nil
	case opcode.AssetCursor, opcode.AssetFont, opcode.AssetPrinter, opcode.AssetImageSet, opcode.AssetRecorder:
		return NewDocument(h), nil
	case opcode.AssetFunction:
		return nil, fmt.Errorf("asset %d: %w", h.ID, ErrFunctionAsset)
	}
	return nil, fmt.Errorf("asset %d of type %s: %w", h.ID, h.Type, ErrUnsupportedKind)
}

// Load parses a header and creates its asset.
func Load(data []byte) (vm.Asset, error) {
	h, err := ParseHeader(datum.NewReader(data))
	if err != nil {
		return nil, err
	}
	return New(h)
}

// Frame is one bitmap of a movie or sprite. Index matches movie frames to
// their footers. Origin places a sprite frame relative to the sprite's
// bounds; movie frames are placed by their footers instead.
type Frame struct {
	Index  int
	Image  image.Image
	Origin image.Point
}

// Footer places a movie frame on the movie's timeline.
type Footer struct {
	Index      int
	Start, End int64 // milliseconds
	Left, Top  int
	Z          int
}

// Media is the payload loaded from an asset's data files.
type Media struct {
	Bitmap  image.Image
	Frames  []Frame
	Footers []Footer
	PCM     []byte
	MIDI    []byte
	Text    string
}

// Attach hands loaded media to the asset that plays it.
func Attach(a vm.Asset, m Media) error {
	switch a := a.(type) {
	case *Image:
		a.SetBitmap(m.Bitmap)
	case *Sprite:
		a.SetFrames(m.Frames)
	case *Movie:
		if err := a.SetFrames(m.Frames, m.Footers); err != nil {
			return err
		}
		a.SetAudio(m.PCM)
	case *Sound:
		if m.MIDI != nil {
			a.SetMIDI(m.MIDI)
		} else {
			a.SetPCM(m.PCM)
		}
	case *Text:
		a.SetText(m.Text)
	default:
		return fmt.Errorf("asset %d of type %s takes no media: %w", a.ID(), a.Type(), ErrUnsupportedKind)
	}
	return nil
}
