package vm

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/zurustar/mediastation/pkg/opcode"
)

func TestBinary(t *testing.T) {
	rt := NewRuntime()

	tests := []struct {
		name string
		op   opcode.Opcode
		a, b Operand
		want Operand
	}{
		{"int add", opcode.Add, NewInt(2), NewInt(3), NewInt(5)},
		{"exact divide stays int", opcode.Divide, NewInt(6), NewInt(3), NewInt(2)},
		{"inexact divide is float", opcode.Divide, NewInt(7), NewInt(2), NewFloat(3.5)},
		{"float promotes", opcode.Multiply, NewInt(2), NewFloat(1.5), NewFloat(3)},
		{"modulo", opcode.Modulo, NewInt(7), NewInt(3), NewInt(1)},
		{"string concat", opcode.Add, NewString("ab"), NewString("cd"), NewString("abcd")},
		{"divide by zero", opcode.Divide, NewInt(1), NewInt(0), NewInt(0)},
		{"modulo by zero", opcode.Modulo, NewFloat(1), NewInt(0), NewInt(0)},
		{"cross-kind equality", opcode.Equals, NewInt(2), NewFloat(2), NewInt(1)},
		{"string compare", opcode.LessThan, NewString("a"), NewString("b"), NewInt(1)},
		{"and", opcode.And, NewInt(1), NewInt(0), NewInt(0)},
		{"or", opcode.Or, NewInt(0), NewString("x"), NewInt(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rt.binary(tt.op, tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind() != tt.want.Kind() || !got.Equal(tt.want) {
				t.Errorf("expected %v (%s), got %v (%s)", tt.want, tt.want.Kind(), got, got.Kind())
			}
		})
	}

	t.Run("mismatched kinds", func(t *testing.T) {
		_, err := rt.binary(opcode.Subtract, NewString("a"), NewInt(1))
		if ErrorTypeOf(err) != ErrorTypeMismatch {
			t.Errorf("expected TYPE error, got %v", err)
		}
		_, err = rt.binary(opcode.LessThan, NewString("a"), NewInt(1))
		if ErrorTypeOf(err) != ErrorTypeMismatch {
			t.Errorf("expected TYPE error, got %v", err)
		}
	})
}

// Integer arithmetic stays integer and agrees with Go arithmetic, and
// division reconstructs the dividend.
func TestPropertyIntegerArithmetic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	rt := NewRuntime()

	properties.Property("add subtract multiply stay integer", prop.ForAll(
		func(a, b int) bool {
			x, y := NewInt(int64(a)), NewInt(int64(b))
			sum, err1 := rt.binary(opcode.Add, x, y)
			diff, err2 := rt.binary(opcode.Subtract, x, y)
			prod, err3 := rt.binary(opcode.Multiply, x, y)
			if err1 != nil || err2 != nil || err3 != nil {
				return false
			}
			return sum.Kind() == KindInt && sum.Int() == int64(a+b) &&
				diff.Kind() == KindInt && diff.Int() == int64(a-b) &&
				prod.Kind() == KindInt && prod.Int() == int64(a*b)
		},
		gen.IntRange(-10000, 10000),
		gen.IntRange(-10000, 10000),
	))

	properties.Property("divide times divisor is dividend", prop.ForAll(
		func(a, b int) bool {
			if b == 0 {
				return true
			}
			q, err := rt.binary(opcode.Divide, NewInt(int64(a)), NewInt(int64(b)))
			if err != nil {
				return false
			}
			if a%b == 0 {
				return q.Kind() == KindInt && q.Int()*int64(b) == int64(a)
			}
			f, _ := q.Number()
			diff := f*float64(b) - float64(a)
			return q.Kind() == KindFloat && diff < 1e-6 && diff > -1e-6
		},
		gen.IntRange(-10000, 10000),
		gen.IntRange(-100, 100),
	))

	properties.Property("comparison is consistent with equality", prop.ForAll(
		func(a, b int) bool {
			lt, _ := rt.binary(opcode.LessThan, NewInt(int64(a)), NewInt(int64(b)))
			gt, _ := rt.binary(opcode.GreaterThan, NewInt(int64(a)), NewInt(int64(b)))
			eq, _ := rt.binary(opcode.Equals, NewInt(int64(a)), NewFloat(float64(b)))
			return lt.Int()+gt.Int()+eq.Int() == 1
		},
		gen.IntRange(-50, 50),
		gen.IntRange(-50, 50),
	))

	properties.TestingRun(t)
}
