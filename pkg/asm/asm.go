// Package asm assembles Media Station bytecode. Statements are built as Node
// values and encoded with the same datum layout the authoring tool emits, so
// the output can be fed straight to vm.ParseCodeChunk.
package asm

import (
	"github.com/zurustar/mediastation/pkg/datum"
	"github.com/zurustar/mediastation/pkg/opcode"
)

// Node writes one statement.
type Node func(w *datum.Writer)

func small(w *datum.Writer, v int64) {
	if v >= 0 && v <= 0xffff {
		w.Uint16(v)
		return
	}
	w.Uint32(v)
}

func instruction(w *datum.Writer, t opcode.InstructionType) {
	w.Uint16(int64(t))
}

func call(w *datum.Writer, op opcode.Opcode) {
	instruction(w, opcode.FunctionCall)
	w.Uint16(int64(op))
}

func operand(w *datum.Writer, t opcode.OperandType) {
	instruction(w, opcode.Operand)
	w.Uint16(int64(t))
}

// Int is an integer literal. Values are stored as 32-bit two's complement.
func Int(v int64) Node {
	return func(w *datum.Writer) {
		operand(w, opcode.Literal1)
		w.Uint32(int64(uint32(int32(v))))
	}
}

// Float is a floating-point literal.
func Float(v float64) Node {
	return func(w *datum.Writer) {
		operand(w, opcode.Float1)
		w.Float(datum.TypeFloat64_1, v)
	}
}

// Str is a string literal.
func Str(s string) Node {
	return func(w *datum.Writer) {
		operand(w, opcode.String)
		w.String(s)
	}
}

// Dollar is a $-constant such as $FadeToPalette.
func Dollar(v int64) Node {
	return func(w *datum.Writer) {
		operand(w, opcode.DollarSignVariable)
		small(w, v)
	}
}

// Asset references the asset with the given id. Zero is the null asset.
func Asset(id uint32) Node {
	return func(w *datum.Writer) {
		operand(w, opcode.AssetID)
		small(w, int64(id))
	}
}

// Handle is a handle to a global variable.
func Handle(id uint32) Node {
	return func(w *datum.Writer) {
		operand(w, opcode.VariableDeclaration)
		small(w, int64(id))
		w.Uint16(int64(opcode.ScopeGlobal))
	}
}

// FunctionRef is the id of a routine as a value.
func FunctionRef(id uint32) Node {
	return func(w *datum.Writer) {
		operand(w, opcode.Function)
		small(w, int64(id))
	}
}

// Var reads a variable.
func Var(id uint32, scope opcode.VariableScope) Node {
	return func(w *datum.Writer) {
		instruction(w, opcode.VariableRef)
		small(w, int64(id))
		w.Uint16(int64(scope))
	}
}

// Local reads a local variable.
func Local(id uint32) Node { return Var(id, opcode.ScopeLocal) }

// Param reads a parameter. Parameter ids start at 1.
func Param(id uint32) Node { return Var(id, opcode.ScopeParameter) }

// Global reads a global variable.
func Global(id uint32) Node { return Var(id, opcode.ScopeGlobal) }

// Assign stores value into (id, scope).
func Assign(id uint32, scope opcode.VariableScope, value Node) Node {
	return func(w *datum.Writer) {
		call(w, opcode.AssignVariable)
		small(w, int64(id))
		w.Uint16(int64(scope))
		value(w)
	}
}

// Declare sizes the local slots.
func Declare(n int) Node {
	return func(w *datum.Writer) {
		call(w, opcode.DeclareVariables)
		small(w, int64(n))
	}
}

// Binary applies an arithmetic, comparison or boolean opcode.
func Binary(op opcode.Opcode, left, right Node) Node {
	return func(w *datum.Writer) {
		call(w, op)
		left(w)
		right(w)
	}
}

// Call invokes a routine or built-in function.
func Call(id uint32, args ...Node) Node {
	return func(w *datum.Writer) {
		call(w, opcode.CallRoutine)
		small(w, int64(id))
		small(w, int64(len(args)))
		for _, a := range args {
			a(w)
		}
	}
}

// Method invokes a built-in method on self.
func Method(id opcode.BuiltIn, self Node, args ...Node) Node {
	return func(w *datum.Writer) {
		call(w, opcode.CallMethod)
		small(w, int64(id))
		small(w, int64(len(args)))
		self(w)
		for _, a := range args {
			a(w)
		}
	}
}

// Return ends the activation with value.
func Return(value Node) Node {
	return func(w *datum.Writer) {
		call(w, opcode.Return)
		value(w)
	}
}

// If runs then when cond holds, otherwise els.
func If(cond Node, then, els []Node) Node {
	return func(w *datum.Writer) {
		call(w, opcode.IfElse)
		cond(w)
		w.Raw(Chunk(then...))
		w.Raw(Chunk(els...))
	}
}

// While repeats body while cond holds.
func While(cond Node, body ...Node) Node {
	return func(w *datum.Writer) {
		call(w, opcode.While)
		cond(w)
		w.Raw(Chunk(body...))
	}
}

// End is the end-of-statements marker.
func End() Node {
	return func(w *datum.Writer) {
		instruction(w, opcode.Empty)
	}
}

// Raw emits bytes verbatim, for malformed fixtures.
func Raw(b ...byte) Node {
	return func(w *datum.Writer) {
		w.Raw(b)
	}
}

// Body encodes statements without a length prefix.
func Body(stmts ...Node) []byte {
	w := datum.NewWriter()
	for _, s := range stmts {
		s(w)
	}
	return w.Bytes()
}

// Chunk encodes statements as a length-prefixed code chunk.
func Chunk(stmts ...Node) []byte {
	body := Body(stmts...)
	return datum.NewWriter().Length(len(body)).Raw(body).Bytes()
}

// Function encodes a function record: file id, function id, code chunk.
func Function(fileID, id uint32, stmts ...Node) []byte {
	w := datum.NewWriter()
	w.Uint16(int64(fileID))
	w.Uint16(int64(id))
	w.Raw(Chunk(stmts...))
	return w.Bytes()
}

// EventHandler encodes an event handler keyed on nothing.
func EventHandler(typ opcode.EventType, stmts ...Node) []byte {
	w := datum.NewWriter()
	w.Uint16(int64(typ))
	w.Uint16(int64(opcode.ArgumentNull))
	w.Uint16(0)
	w.Raw(Chunk(stmts...))
	return w.Bytes()
}

// TimeHandler encodes a Time event handler firing seconds after playback
// starts.
func TimeHandler(seconds float64, stmts ...Node) []byte {
	code := Chunk(stmts...)
	w := datum.NewWriter()
	w.Uint16(int64(opcode.EventTime))
	w.Uint16(int64(opcode.ArgumentTime))
	w.Float(datum.TypeFloat64_1, seconds)
	w.Length(len(code))
	w.Raw(code)
	return w.Bytes()
}

// KeyHandler encodes a KeyDown handler for one ASCII code.
func KeyHandler(code byte, stmts ...Node) []byte {
	body := Chunk(stmts...)
	w := datum.NewWriter()
	w.Uint16(int64(opcode.EventKeyDown))
	w.Uint16(int64(opcode.ArgumentAsciiCode))
	w.Uint16(int64(code))
	w.Length(len(body))
	w.Raw(body)
	return w.Bytes()
}
