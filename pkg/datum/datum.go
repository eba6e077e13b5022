package datum

import (
	"fmt"
	"image"
	"image/color"
)

// Type is the uint16 tag that precedes every datum payload.
type Type uint16

const (
	TypeUint8       Type = 0x0002
	TypeUint16_1    Type = 0x0003
	TypeUint32_1    Type = 0x0004
	TypeInt16_1     Type = 0x0006
	TypeUint32_2    Type = 0x0007
	TypeFloat64_2   Type = 0x0009
	TypeFilename    Type = 0x000a
	TypeBoundingBox Type = 0x000d
	TypePoint2      Type = 0x000e
	TypePoint1      Type = 0x000f
	TypeInt16_2     Type = 0x0010
	TypeFloat64_1   Type = 0x0011
	TypeString      Type = 0x0012
	TypeUint16_2    Type = 0x0013
	TypeReference   Type = 0x001b
	TypePolygon     Type = 0x001d
	TypePalette     Type = 0x05aa
)

// PaletteSize is the payload size of a PALETTE datum: 256 RGB triples.
const PaletteSize = 0x300

func (t Type) String() string {
	switch t {
	case TypeUint8:
		return "UINT8"
	case TypeUint16_1:
		return "UINT16_1"
	case TypeUint16_2:
		return "UINT16_2"
	case TypeInt16_1:
		return "INT16_1"
	case TypeInt16_2:
		return "INT16_2"
	case TypeUint32_1:
		return "UINT32_1"
	case TypeUint32_2:
		return "UINT32_2"
	case TypeFloat64_1:
		return "FLOAT64_1"
	case TypeFloat64_2:
		return "FLOAT64_2"
	case TypeString:
		return "STRING"
	case TypeFilename:
		return "FILENAME"
	case TypePoint1:
		return "POINT_1"
	case TypePoint2:
		return "POINT_2"
	case TypeBoundingBox:
		return "BOUNDING_BOX"
	case TypePolygon:
		return "POLYGON"
	case TypePalette:
		return "PALETTE"
	case TypeReference:
		return "REFERENCE"
	default:
		return fmt.Sprintf("0x%04x", uint16(t))
	}
}

// IsInteger reports whether the payload is an integer.
func (t Type) IsInteger() bool {
	switch t {
	case TypeUint8, TypeUint16_1, TypeUint16_2, TypeInt16_1, TypeInt16_2,
		TypeUint32_1, TypeUint32_2, TypeReference:
		return true
	}
	return false
}

// IsFloat reports whether the payload is a double.
func (t Type) IsFloat() bool {
	return t == TypeFloat64_1 || t == TypeFloat64_2
}

// Datum is one decoded value. Only the field matching Type is meaningful.
type Datum struct {
	Type    Type
	Offset  int
	Int     int64
	Float   float64
	String  string
	Point   image.Point
	Rect    image.Rectangle
	Polygon []image.Point
	Palette color.Palette
}

// AsInt returns the payload as an integer; floats are truncated.
func (d Datum) AsInt() (int64, error) {
	switch {
	case d.Type.IsInteger():
		return d.Int, nil
	case d.Type.IsFloat():
		return int64(d.Float), nil
	}
	return 0, &FormatError{Offset: d.Offset, Msg: fmt.Sprintf("datum %s is not numeric", d.Type), Err: ErrTypeMismatch}
}

// AsFloat returns the payload as a double.
func (d Datum) AsFloat() (float64, error) {
	switch {
	case d.Type.IsFloat():
		return d.Float, nil
	case d.Type.IsInteger():
		return float64(d.Int), nil
	}
	return 0, &FormatError{Offset: d.Offset, Msg: fmt.Sprintf("datum %s is not numeric", d.Type), Err: ErrTypeMismatch}
}

// ReadType reads only a datum tag.
func (r *Reader) ReadType() (Type, error) {
	v, err := r.ReadUint16()
	return Type(v), err
}

// ReadDatum reads a tag and its payload.
func (r *Reader) ReadDatum() (Datum, error) {
	offset := r.Offset()
	t, err := r.ReadType()
	if err != nil {
		return Datum{}, err
	}
	return r.readPayload(t, offset)
}

// ReadTyped reads a datum and fails unless its tag is want.
func (r *Reader) ReadTyped(want Type) (Datum, error) {
	offset := r.Offset()
	t, err := r.ReadType()
	if err != nil {
		return Datum{}, err
	}
	if t != want {
		return Datum{}, &FormatError{
			Offset: offset,
			Msg:    fmt.Sprintf("expected datum %s, got %s", want, t),
			Err:    ErrTypeMismatch,
		}
	}
	return r.readPayload(t, offset)
}

// ReadInt reads any integer datum.
func (r *Reader) ReadInt() (int64, error) {
	d, err := r.ReadDatum()
	if err != nil {
		return 0, err
	}
	if !d.Type.IsInteger() {
		return 0, &FormatError{Offset: d.Offset, Msg: fmt.Sprintf("expected integer datum, got %s", d.Type), Err: ErrTypeMismatch}
	}
	return d.Int, nil
}

// ReadLength reads the UINT32_1 datum that prefixes code chunks.
func (r *Reader) ReadLength() (int, error) {
	d, err := r.ReadTyped(TypeUint32_1)
	if err != nil {
		return 0, err
	}
	return int(d.Int), nil
}

func (r *Reader) readPayload(t Type, offset int) (Datum, error) {
	d := Datum{Type: t, Offset: offset}
	switch t {
	case TypeUint8:
		v, err := r.ReadUint8()
		if err != nil {
			return d, err
		}
		d.Int = int64(v)

	case TypeUint16_1, TypeUint16_2:
		v, err := r.ReadUint16()
		if err != nil {
			return d, err
		}
		d.Int = int64(v)

	case TypeInt16_1, TypeInt16_2:
		v, err := r.ReadInt16()
		if err != nil {
			return d, err
		}
		d.Int = int64(v)

	case TypeUint32_1, TypeUint32_2, TypeReference:
		v, err := r.ReadUint32()
		if err != nil {
			return d, err
		}
		d.Int = int64(v)

	case TypeFloat64_1, TypeFloat64_2:
		v, err := r.ReadFloat64()
		if err != nil {
			return d, err
		}
		d.Float = v

	case TypeString:
		n, err := r.ReadLength()
		if err != nil {
			return d, err
		}
		if d.String, err = r.ReadString(n); err != nil {
			return d, err
		}

	case TypeFilename:
		n, err := r.ReadTyped(TypeUint16_1)
		if err != nil {
			return d, err
		}
		if d.String, err = r.ReadString(int(n.Int)); err != nil {
			return d, err
		}

	case TypePoint1, TypePoint2:
		p, err := r.readPoint()
		if err != nil {
			return d, err
		}
		d.Point = p

	case TypeBoundingBox:
		origin, err := r.ReadTyped(TypePoint2)
		if err != nil {
			return d, err
		}
		size, err := r.ReadTyped(TypePoint1)
		if err != nil {
			return d, err
		}
		d.Point = origin.Point
		d.Rect = image.Rectangle{Min: origin.Point, Max: origin.Point.Add(size.Point)}

	case TypePolygon:
		count, err := r.ReadTyped(TypeUint16_1)
		if err != nil {
			return d, err
		}
		d.Polygon = make([]image.Point, 0, count.Int)
		for i := int64(0); i < count.Int; i++ {
			p, err := r.ReadTyped(TypePoint1)
			if err != nil {
				return d, err
			}
			d.Polygon = append(d.Polygon, p.Point)
		}

	case TypePalette:
		raw, err := r.ReadBytes(PaletteSize)
		if err != nil {
			return d, err
		}
		d.Palette = make(color.Palette, 256)
		for i := range d.Palette {
			d.Palette[i] = color.RGBA{raw[i*3], raw[i*3+1], raw[i*3+2], 0xff}
		}

	default:
		return d, newFormatError(offset, "unknown datum type %s", t)
	}
	return d, nil
}

func (r *Reader) readPoint() (image.Point, error) {
	x, err := r.ReadTyped(TypeInt16_2)
	if err != nil {
		return image.Point{}, err
	}
	y, err := r.ReadTyped(TypeInt16_2)
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(int(x.Int), int(y.Int)), nil
}
