package vm

import (
	"fmt"
	"strconv"
)

// OperandKind identifies the active variant of an Operand.
type OperandKind uint8

const (
	KindEmpty OperandKind = iota
	KindInt
	KindFloat
	KindString
	KindAsset
	KindVariable
)

func (k OperandKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindAsset:
		return "asset"
	case KindVariable:
		return "variable"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Operand is a runtime value. It is a small value type and is copied freely;
// an asset reference does not own the asset.
type Operand struct {
	kind  OperandKind
	i     int64
	f     float64
	s     string
	asset Asset
	v     *Variable
}

// Empty returns the empty operand.
func Empty() Operand { return Operand{} }

// NewInt returns an integer operand.
func NewInt(v int64) Operand { return Operand{kind: KindInt, i: v} }

// NewBool returns integer 1 or 0.
func NewBool(b bool) Operand {
	if b {
		return NewInt(1)
	}
	return NewInt(0)
}

// NewFloat returns a float operand.
func NewFloat(v float64) Operand { return Operand{kind: KindFloat, f: v} }

// NewString returns a string operand.
func NewString(s string) Operand { return Operand{kind: KindString, s: s} }

// NewAssetRef returns a reference to a. A nil asset is the null asset.
func NewAssetRef(a Asset) Operand { return Operand{kind: KindAsset, asset: a} }

// NewVariableRef returns a handle to a global variable.
func NewVariableRef(v *Variable) Operand { return Operand{kind: KindVariable, v: v} }

// Kind returns the active variant.
func (o Operand) Kind() OperandKind { return o.kind }

// IsEmpty reports whether o is the empty operand.
func (o Operand) IsEmpty() bool { return o.kind == KindEmpty }

// IsNumeric reports whether o is an integer or a float.
func (o Operand) IsNumeric() bool { return o.kind == KindInt || o.kind == KindFloat }

func (o Operand) must(k OperandKind) {
	if o.kind != k {
		panic(fmt.Sprintf("vm: read %s variant of %s operand", k, o.kind))
	}
}

// Int returns the integer payload. It panics for any other variant.
func (o Operand) Int() int64 {
	o.must(KindInt)
	return o.i
}

// Float returns the float payload. It panics for any other variant.
func (o Operand) Float() float64 {
	o.must(KindFloat)
	return o.f
}

// Text returns the string payload. It panics for any other variant.
func (o Operand) Text() string {
	o.must(KindString)
	return o.s
}

// Asset returns the referenced asset, nil for the null asset. It panics for
// any other variant.
func (o Operand) Asset() Asset {
	o.must(KindAsset)
	return o.asset
}

// Variable returns the referenced global. It panics for any other variant.
func (o Operand) Variable() *Variable {
	o.must(KindVariable)
	return o.v
}

// Number returns the value of a numeric operand as a float.
func (o Operand) Number() (float64, bool) {
	switch o.kind {
	case KindInt:
		return float64(o.i), true
	case KindFloat:
		return o.f, true
	}
	return 0, false
}

// Truthy reports the boolean value used by conditions.
func (o Operand) Truthy() bool {
	switch o.kind {
	case KindInt:
		return o.i != 0
	case KindFloat:
		return o.f != 0
	case KindString:
		return o.s != ""
	case KindAsset:
		return o.asset != nil
	case KindVariable:
		return o.v != nil
	}
	return false
}

// Equal compares two operands. Integers and floats compare numerically,
// assets by identity, variables by handle.
func (o Operand) Equal(other Operand) bool {
	if a, ok := o.Number(); ok {
		b, ok := other.Number()
		return ok && a == b
	}
	if o.kind != other.kind {
		return false
	}
	switch o.kind {
	case KindEmpty:
		return true
	case KindString:
		return o.s == other.s
	case KindAsset:
		return o.asset == other.asset
	case KindVariable:
		return o.v == other.v
	}
	return false
}

func (o Operand) String() string {
	switch o.kind {
	case KindEmpty:
		return "<empty>"
	case KindInt:
		return strconv.FormatInt(o.i, 10)
	case KindFloat:
		return strconv.FormatFloat(o.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(o.s)
	case KindAsset:
		if o.asset == nil {
			return "asset(null)"
		}
		return fmt.Sprintf("asset(%d)", o.asset.ID())
	case KindVariable:
		if o.v == nil {
			return "var(nil)"
		}
		return fmt.Sprintf("var(%d)", o.v.ID)
	}
	return "<invalid>"
}
