package vm

import (
	"math"

	"github.com/zurustar/mediastation/pkg/opcode"
)

// binary applies an arithmetic, comparison or boolean opcode. Integer
// operands stay integers except for inexact division; a float on either side
// promotes the result to float.
func (rt *Runtime) binary(op opcode.Opcode, a, b Operand) (Operand, error) {
	switch op {
	case opcode.Or:
		return NewBool(a.Truthy() || b.Truthy()), nil
	case opcode.And:
		return NewBool(a.Truthy() && b.Truthy()), nil
	case opcode.Equals:
		return NewBool(a.Equal(b)), nil
	case opcode.NotEquals:
		return NewBool(!a.Equal(b)), nil
	case opcode.LessThan, opcode.GreaterThan, opcode.LessThanOrEqualTo, opcode.GreaterThanOrEqualTo:
		return compare(op, a, b)
	}

	if op == opcode.Add && a.Kind() == KindString && b.Kind() == KindString {
		return NewString(a.Text() + b.Text()), nil
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return Empty(), NewTypeError("%s on %s and %s", op, a.Kind(), b.Kind())
	}

	if a.Kind() == KindInt && b.Kind() == KindInt {
		x, y := a.Int(), b.Int()
		switch op {
		case opcode.Add:
			return NewInt(x + y), nil
		case opcode.Subtract:
			return NewInt(x - y), nil
		case opcode.Multiply:
			return NewInt(x * y), nil
		case opcode.Divide:
			if y == 0 {
				rt.log.Error("Division by zero", "dividend", x)
				return NewInt(0), nil
			}
			if x%y == 0 {
				return NewInt(x / y), nil
			}
			return NewFloat(float64(x) / float64(y)), nil
		case opcode.Modulo:
			if y == 0 {
				rt.log.Error("Modulo by zero", "dividend", x)
				return NewInt(0), nil
			}
			return NewInt(x % y), nil
		}
	}

	x, _ := a.Number()
	y, _ := b.Number()
	switch op {
	case opcode.Add:
		return NewFloat(x + y), nil
	case opcode.Subtract:
		return NewFloat(x - y), nil
	case opcode.Multiply:
		return NewFloat(x * y), nil
	case opcode.Divide:
		if y == 0 {
			rt.log.Error("Division by zero", "dividend", x)
			return NewInt(0), nil
		}
		return NewFloat(x / y), nil
	case opcode.Modulo:
		if y == 0 {
			rt.log.Error("Modulo by zero", "dividend", x)
			return NewInt(0), nil
		}
		return NewFloat(math.Mod(x, y)), nil
	}
	return Empty(), NewUnsupportedError("opcode %s is not an arithmetic operator", op)
}

func compare(op opcode.Opcode, a, b Operand) (Operand, error) {
	var c int
	switch {
	case a.IsNumeric() && b.IsNumeric():
		x, _ := a.Number()
		y, _ := b.Number()
		switch {
		case x < y:
			c = -1
		case x > y:
			c = 1
		}
	case a.Kind() == KindString && b.Kind() == KindString:
		switch {
		case a.Text() < b.Text():
			c = -1
		case a.Text() > b.Text():
			c = 1
		}
	default:
		return Empty(), NewTypeError("%s on %s and %s", op, a.Kind(), b.Kind())
	}

	switch op {
	case opcode.LessThan:
		return NewBool(c < 0), nil
	case opcode.GreaterThan:
		return NewBool(c > 0), nil
	case opcode.LessThanOrEqualTo:
		return NewBool(c <= 0), nil
	default:
		return NewBool(c >= 0), nil
	}
}
