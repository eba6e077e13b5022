package datum

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"math"
)

// Writer encodes datums. It is the inverse of Reader and is used to build
// fixtures and by the bytecode assembler.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the encoded data.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Raw appends bytes verbatim.
func (w *Writer) Raw(b []byte) *Writer {
	w.buf.Write(b)
	return w
}

func (w *Writer) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// Int writes an integer datum with tag t.
func (w *Writer) Int(t Type, v int64) *Writer {
	w.u16(uint16(t))
	switch t {
	case TypeUint8:
		w.buf.WriteByte(byte(v))
	case TypeUint16_1, TypeUint16_2, TypeInt16_1, TypeInt16_2:
		w.u16(uint16(v))
	default:
		w.u32(uint32(v))
	}
	return w
}

// Uint16 writes a UINT16_1 datum.
func (w *Writer) Uint16(v int64) *Writer {
	return w.Int(TypeUint16_1, v)
}

// Uint32 writes a UINT32_1 datum.
func (w *Writer) Uint32(v int64) *Writer {
	return w.Int(TypeUint32_1, v)
}

// Float writes a FLOAT64_1 or FLOAT64_2 datum.
func (w *Writer) Float(t Type, v float64) *Writer {
	w.u16(uint16(t))
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
	return w
}

// String writes a STRING datum.
func (w *Writer) String(s string) *Writer {
	raw := EncodeString(s)
	w.u16(uint16(TypeString))
	w.Uint32(int64(len(raw)))
	w.buf.Write(raw)
	return w
}

// Point writes a POINT_1 or POINT_2 datum.
func (w *Writer) Point(t Type, p image.Point) *Writer {
	w.u16(uint16(t))
	w.Int(TypeInt16_2, int64(p.X))
	w.Int(TypeInt16_2, int64(p.Y))
	return w
}

// BoundingBox writes a BOUNDING_BOX datum.
func (w *Writer) BoundingBox(r image.Rectangle) *Writer {
	w.u16(uint16(TypeBoundingBox))
	w.Point(TypePoint2, r.Min)
	w.Point(TypePoint1, r.Size())
	return w
}

// Polygon writes a POLYGON datum.
func (w *Writer) Polygon(points []image.Point) *Writer {
	w.u16(uint16(TypePolygon))
	w.Uint16(int64(len(points)))
	for _, p := range points {
		w.Point(TypePoint1, p)
	}
	return w
}

// Palette writes a PALETTE datum. Missing entries are written as black.
func (w *Writer) Palette(p color.Palette) *Writer {
	w.u16(uint16(TypePalette))
	for i := 0; i < 256; i++ {
		var r, g, b uint32
		if i < len(p) {
			r, g, b, _ = p[i].RGBA()
		}
		w.buf.Write([]byte{byte(r >> 8), byte(g >> 8), byte(b >> 8)})
	}
	return w
}

// Length writes the UINT32_1 datum that prefixes a code chunk.
func (w *Writer) Length(n int) *Writer {
	return w.Uint32(int64(n))
}
