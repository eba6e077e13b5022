// Package datum provides sequential access to the little-endian, type-tagged
// values ("datums") that make up Media Station headers and bytecode.
package datum

import (
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/charmap"
)

// Reader reads from a single byte range. Offsets reported in errors are
// relative to the start of the outermost range, so a Sub reader created in the
// middle of a chunk still reports positions a hex dump of the chunk can use.
type Reader struct {
	data []byte
	pos  int
	base int
}

// NewReader creates a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current position within this range.
func (r *Reader) Pos() int {
	return r.pos
}

// Offset returns the current position relative to the outermost range.
func (r *Reader) Offset() int {
	return r.base + r.pos
}

// Len returns the size of the range.
func (r *Reader) Len() int {
	return len(r.data)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// EOF reports whether every byte has been consumed.
func (r *Reader) EOF() bool {
	return r.pos >= len(r.data)
}

// Seek moves the cursor to an absolute position within the range.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return newFormatError(r.base+pos, "seek to %d outside range of %d bytes", pos, len(r.data))
	}
	r.pos = pos
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// Sub returns a reader over the next n bytes and advances past them.
func (r *Reader) Sub(n int) (*Reader, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	sub := &Reader{data: r.data[r.pos : r.pos+n], base: r.base + r.pos}
	r.pos += n
	return sub, nil
}

func (r *Reader) need(n int) error {
	if n < 0 || r.Remaining() < n {
		return &FormatError{
			Offset: r.Offset(),
			Msg:    "read past end of range",
			Err:    ErrUnexpectedEOF,
		}
	}
	return nil
}

// ReadBytes returns a copy of the next n bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadUint8 reads one byte.
func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadInt16 reads a little-endian int16.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadFloat64 reads a little-endian IEEE 754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(r.data[r.pos:]))
	r.pos += 8
	return v, nil
}

// ReadString reads n bytes of Windows-1252 text and returns it as UTF-8.
func (r *Reader) ReadString(n int) (string, error) {
	raw, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return DecodeString(raw), nil
}

// DecodeString converts authored Windows-1252 text to UTF-8.
func DecodeString(raw []byte) string {
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// EncodeString converts UTF-8 text to Windows-1252. Runes with no mapping are
// replaced by the encoder's substitute byte.
func EncodeString(s string) []byte {
	out, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}
