// Package asset implements the Media Station asset kinds: their headers,
// their playback clocks and the built-in methods scripts call on them.
package asset

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/zurustar/mediastation/pkg/datum"
	"github.com/zurustar/mediastation/pkg/logger"
	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

// SoundEncoding is the sample format of a sound asset.
type SoundEncoding uint16

const (
	EncodingPCM      SoundEncoding = 0x0010 // s16le mono 22050 Hz
	EncodingIMAADPCM SoundEncoding = 0x0004
)

// DefaultSampleRate is used when a sound header has no SOUND_INFO section.
const DefaultSampleRate = 22050

// Header is the parsed asset header. Fields not present in the header keep
// their zero values.
type Header struct {
	FileNumber uint32
	Type       opcode.AssetType
	ID         uint32
	Name       string

	Handlers vm.EventHandlers

	StageID           uint32
	ChunkReference    uint32
	AudioChunkRef     uint32
	AnimationChunkRef uint32
	AssetReference    uint32

	BoundingBox     image.Rectangle
	MouseActiveArea []image.Point
	ZIndex          int
	Startup         bool
	Transparency    bool
	HasOwnSubfile   bool
	CursorResource  uint32
	FrameRate       uint32
	LoadType        uint32

	SoundEncoding SoundEncoding
	TotalChunks   uint32
	SampleRate    uint32

	SpriteChunkCount  uint32
	Palette           color.Palette
	DissolveFactor    float64
	GetOffstageEvents bool
	X, Y              int

	StartPoint image.Point
	EndPoint   image.Point
	PathUnk1   int64
	StepRate   uint32
	Duration   uint32

	ViewportOrigin image.Point
	LensOpen       bool
	StageUnk1      int64
	CylindricalX   bool
	CylindricalY   bool
}

// ParseHeader reads an asset header: file number, kind and id followed by
// sections up to an empty section.
func ParseHeader(r *datum.Reader) (*Header, error) {
	fileNumber, err := r.ReadInt()
	if err != nil {
		return nil, format(err, "asset file number")
	}
	kind, err := r.ReadInt()
	if err != nil {
		return nil, format(err, "asset type")
	}
	id, err := r.ReadInt()
	if err != nil {
		return nil, format(err, "asset id")
	}
	h := &Header{
		FileNumber: uint32(fileNumber),
		Type:       opcode.AssetType(kind),
		ID:         uint32(id),
	}

	for {
		off := r.Offset()
		section, err := r.ReadTyped(datum.TypeUint16_1)
		if err != nil {
			return nil, format(err, "section type")
		}
		s := opcode.SectionType(section.Int)
		if s == opcode.SectionEmpty {
			return h, nil
		}
		if err := h.readSection(s, off, r); err != nil {
			return nil, err
		}
	}
}

func (h *Header) readSection(s opcode.SectionType, off int, r *datum.Reader) error {
	log := logger.GetLogger()

	readInt := func(dst *int64) error {
		v, err := r.ReadInt()
		if err != nil {
			return format(err, "section 0x%04x", uint16(s))
		}
		*dst = v
		return nil
	}
	readU32 := func(dst *uint32) error {
		var v int64
		if err := readInt(&v); err != nil {
			return err
		}
		*dst = uint32(v)
		return nil
	}
	readBool := func(dst *bool) error {
		var v int64
		if err := readInt(&v); err != nil {
			return err
		}
		*dst = v != 0
		return nil
	}
	readPoint := func(dst *image.Point) error {
		d, err := r.ReadDatum()
		if err != nil {
			return format(err, "section 0x%04x", uint16(s))
		}
		if d.Type != datum.TypePoint1 && d.Type != datum.TypePoint2 {
			return vm.NewFormatError(d.Offset, "section 0x%04x: expected point, got %s", uint16(s), d.Type)
		}
		*dst = d.Point
		return nil
	}

	switch s {
	case opcode.SectionEventHandler:
		eh, err := vm.ParseEventHandler(r)
		if err != nil {
			return err
		}
		eh.Code.Name = h.describe() + " " + eh.String()
		h.Handlers.Add(eh)
		return nil

	case opcode.SectionAssetID:
		var dup uint32
		if err := readU32(&dup); err != nil {
			return err
		}
		if dup != h.ID {
			log.Warn("Asset id section does not match header", "id", h.ID, "section", dup)
		}
		return nil

	case opcode.SectionStageID:
		return readU32(&h.StageID)
	case opcode.SectionChunkReference:
		return readU32(&h.ChunkReference)
	case opcode.SectionMovieAudioChunkID:
		return readU32(&h.AudioChunkRef)
	case opcode.SectionMovieAnimationChunkID:
		return readU32(&h.AnimationChunkRef)
	case opcode.SectionAssetReference:
		return readU32(&h.AssetReference)

	case opcode.SectionBoundingBox:
		d, err := r.ReadTyped(datum.TypeBoundingBox)
		if err != nil {
			return format(err, "bounding box")
		}
		h.BoundingBox = d.Rect
		return nil

	case opcode.SectionMouseActiveArea:
		d, err := r.ReadTyped(datum.TypePolygon)
		if err != nil {
			return format(err, "mouse active area")
		}
		h.MouseActiveArea = d.Polygon
		return nil

	case opcode.SectionZIndex:
		var z int64
		if err := readInt(&z); err != nil {
			return err
		}
		h.ZIndex = int(z)
		return nil

	case opcode.SectionStartup:
		return readBool(&h.Startup)
	case opcode.SectionTransparency:
		return readBool(&h.Transparency)
	case opcode.SectionHasOwnSubfile:
		return readBool(&h.HasOwnSubfile)
	case opcode.SectionCursorResourceID:
		return readU32(&h.CursorResource)
	case opcode.SectionFrameRate:
		return readU32(&h.FrameRate)
	case opcode.SectionLoadType, opcode.SectionMovieLoadType:
		return readU32(&h.LoadType)

	case opcode.SectionSoundEncoding1, opcode.SectionSoundEncoding2:
		var v uint32
		if err := readU32(&v); err != nil {
			return err
		}
		h.SoundEncoding = SoundEncoding(v)
		return nil

	case opcode.SectionSoundInfo:
		if err := readU32(&h.TotalChunks); err != nil {
			return err
		}
		return readU32(&h.SampleRate)

	case opcode.SectionSpriteChunkCount:
		return readU32(&h.SpriteChunkCount)

	case opcode.SectionPalette:
		d, err := r.ReadTyped(datum.TypePalette)
		if err != nil {
			return format(err, "palette")
		}
		h.Palette = d.Palette
		return nil

	case opcode.SectionDissolveFactor:
		d, err := r.ReadDatum()
		if err != nil {
			return format(err, "dissolve factor")
		}
		f, err := d.AsFloat()
		if err != nil {
			return format(err, "dissolve factor")
		}
		h.DissolveFactor = f
		return nil

	case opcode.SectionGetOffstageEvents:
		return readBool(&h.GetOffstageEvents)

	case opcode.SectionX, opcode.SectionY:
		var v int64
		if err := readInt(&v); err != nil {
			return err
		}
		if s == opcode.SectionX {
			h.X = int(v)
		} else {
			h.Y = int(v)
		}
		return nil

	case opcode.SectionStartPoint:
		return readPoint(&h.StartPoint)
	case opcode.SectionEndPoint:
		return readPoint(&h.EndPoint)
	case opcode.SectionPathUnk1:
		return readInt(&h.PathUnk1)
	case opcode.SectionStepRate:
		return readU32(&h.StepRate)
	case opcode.SectionDuration:
		return readU32(&h.Duration)

	case opcode.SectionViewportOrigin:
		return readPoint(&h.ViewportOrigin)
	case opcode.SectionLensOpen:
		return readBool(&h.LensOpen)
	case opcode.SectionStageUnk1:
		return readInt(&h.StageUnk1)
	case opcode.SectionCylindricalX:
		return readBool(&h.CylindricalX)
	case opcode.SectionCylindricalY:
		return readBool(&h.CylindricalY)

	case opcode.SectionAssetName:
		d, err := r.ReadTyped(datum.TypeString)
		if err != nil {
			return format(err, "asset name")
		}
		h.Name = d.String
		return nil
	}
	return vm.NewFormatError(off, "unknown section type 0x%04x in %s", uint16(s), h.describe())
}

func (h *Header) describe() string {
	if h.Name != "" {
		return h.Type.String() + " " + h.Name
	}
	return h.Type.String() + " " + strconv.FormatUint(uint64(h.ID), 10)
}

func format(err error, what string, args ...any) error {
	return vm.WrapFormat(err, fmt.Sprintf(what, args...))
}
