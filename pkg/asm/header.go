package asm

import (
	"image"
	"image/color"

	"github.com/zurustar/mediastation/pkg/datum"
	"github.com/zurustar/mediastation/pkg/opcode"
)

// Header builds an asset header: file number, kind and id followed by
// sections and an empty terminator.
type Header struct {
	w *datum.Writer
}

// NewHeader starts a header.
func NewHeader(fileNumber uint32, kind opcode.AssetType, id uint32) *Header {
	w := datum.NewWriter()
	w.Uint16(int64(fileNumber))
	w.Uint16(int64(kind))
	w.Uint16(int64(id))
	return &Header{w: w}
}

func (h *Header) section(s opcode.SectionType) {
	h.w.Uint16(int64(s))
}

// Int adds an integer section.
func (h *Header) Int(s opcode.SectionType, v int64) *Header {
	h.section(s)
	small(h.w, v)
	return h
}

// Float adds a FLOAT64_1 section.
func (h *Header) Float(s opcode.SectionType, v float64) *Header {
	h.section(s)
	h.w.Float(datum.TypeFloat64_1, v)
	return h
}

// Point adds a POINT_2 section.
func (h *Header) Point(s opcode.SectionType, p image.Point) *Header {
	h.section(s)
	h.w.Point(datum.TypePoint2, p)
	return h
}

// Rect adds a bounding box section.
func (h *Header) Rect(r image.Rectangle) *Header {
	h.section(opcode.SectionBoundingBox)
	h.w.BoundingBox(r)
	return h
}

// Polygon adds the mouse active area.
func (h *Header) Polygon(points []image.Point) *Header {
	h.section(opcode.SectionMouseActiveArea)
	h.w.Polygon(points)
	return h
}

// Palette adds a palette section.
func (h *Header) Palette(p color.Palette) *Header {
	h.section(opcode.SectionPalette)
	h.w.Palette(p)
	return h
}

// Name adds the asset name.
func (h *Header) Name(name string) *Header {
	h.section(opcode.SectionAssetName)
	h.w.String(name)
	return h
}

// SoundInfo adds the chunk count and sample rate.
func (h *Header) SoundInfo(chunks, rate int64) *Header {
	h.section(opcode.SectionSoundInfo)
	small(h.w, chunks)
	small(h.w, rate)
	return h
}

// Handler adds an encoded event handler.
func (h *Header) Handler(handler []byte) *Header {
	h.section(opcode.SectionEventHandler)
	h.w.Raw(handler)
	return h
}

// Bytes terminates the header and returns it.
func (h *Header) Bytes() []byte {
	h.section(opcode.SectionEmpty)
	return h.w.Bytes()
}

// Context parameter section tags.
const (
	ParamEnd      = 0x0000
	ParamName     = 0x0011
	ParamVariable = 0x0014
	ParamFunction = 0x0031
)

// Parameters builds a context parameter block.
type Parameters struct {
	w          *datum.Writer
	fileNumber uint32
}

// NewParameters starts a parameter block.
func NewParameters(fileNumber uint32) *Parameters {
	w := datum.NewWriter()
	w.Uint16(int64(fileNumber))
	return &Parameters{w: w, fileNumber: fileNumber}
}

// Name sets the context name.
func (p *Parameters) Name(name string) *Parameters {
	p.w.Uint16(ParamName)
	p.w.Uint16(int64(p.fileNumber))
	p.w.String(name)
	return p
}

// Variable adds an encoded variable declaration.
func (p *Parameters) Variable(decl []byte) *Parameters {
	p.w.Uint16(ParamVariable)
	p.w.Raw(decl)
	return p
}

// Function adds an encoded function.
func (p *Parameters) Function(fn []byte) *Parameters {
	p.w.Uint16(ParamFunction)
	p.w.Raw(fn)
	return p
}

// Bytes terminates the block and returns it.
func (p *Parameters) Bytes() []byte {
	p.w.Uint16(ParamEnd)
	return p.w.Bytes()
}

// Declaration kinds, as stored in the type byte.
const (
	DeclFloat      = 0x02
	DeclBoolean    = 0x03
	DeclInteger    = 0x04
	DeclAssetID    = 0x05
	DeclString     = 0x06
	DeclCollection = 0x07
)

func declHeader(w *datum.Writer, id uint32, kind int64) {
	w.Uint16(int64(id))
	w.Int(datum.TypeUint8, kind)
}

// IntDecl declares an integer global.
func IntDecl(id uint32, v int64) []byte {
	w := datum.NewWriter()
	declHeader(w, id, DeclInteger)
	w.Uint32(int64(uint32(int32(v))))
	return w.Bytes()
}

// FloatDecl declares a float global.
func FloatDecl(id uint32, v float64) []byte {
	w := datum.NewWriter()
	declHeader(w, id, DeclFloat)
	w.Float(datum.TypeFloat64_1, v)
	return w.Bytes()
}

// BoolDecl declares a boolean global.
func BoolDecl(id uint32, v bool) []byte {
	w := datum.NewWriter()
	declHeader(w, id, DeclBoolean)
	b := int64(0)
	if v {
		b = 1
	}
	w.Int(datum.TypeUint8, b)
	return w.Bytes()
}

// StringDecl declares a string global.
func StringDecl(id uint32, s string) []byte {
	w := datum.NewWriter()
	declHeader(w, id, DeclString)
	w.String(s)
	return w.Bytes()
}

// AssetDecl declares an asset-id global.
func AssetDecl(id uint32, asset uint32) []byte {
	w := datum.NewWriter()
	declHeader(w, id, DeclAssetID)
	w.Uint16(int64(asset))
	return w.Bytes()
}

// CollectionDecl declares a collection global holding the nested
// declarations in order. Nested ids are ignored.
func CollectionDecl(id uint32, items ...[]byte) []byte {
	w := datum.NewWriter()
	declHeader(w, id, DeclCollection)
	w.Uint16(int64(len(items)))
	for _, item := range items {
		w.Raw(item)
	}
	return w.Bytes()
}
