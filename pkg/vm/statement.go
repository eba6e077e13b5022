package vm

import (
	"github.com/zurustar/mediastation/pkg/opcode"
)

// MaxLoopIterations bounds a single while loop. Scripts are trusted, but a
// runaway loop would otherwise hang the frame loop without a diagnostic.
const MaxLoopIterations = 1000000

// statement is one decoded node of a code chunk.
type statement interface {
	eval(f *frame) (Operand, error)
	offset() int
}

// frame is one activation of a code chunk. Locals live here, not on the
// chunk, so recursive and re-triggered invocations stay independent.
type frame struct {
	rt       *Runtime
	locals   []Operand
	args     []Operand
	returned bool
	result   Operand
}

func (f *frame) run(stmts []statement) (Operand, error) {
	last := Empty()
	for _, s := range stmts {
		v, err := s.eval(f)
		if err != nil {
			return Empty(), err
		}
		if f.returned {
			return f.result, nil
		}
		last = v
	}
	return last, nil
}

func (f *frame) read(id uint32, scope opcode.VariableScope, off int) (Operand, error) {
	switch scope {
	case opcode.ScopeGlobal:
		return f.rt.readGlobal(id)

	case opcode.ScopeLocal:
		if int(id) >= len(f.locals) {
			return Empty(), f.at(NewTypeError("local %d read but only %d declared", id, len(f.locals)), off)
		}
		return f.locals[id], nil

	case opcode.ScopeParameter:
		if f.args == nil {
			return Empty(), f.at(NewTypeError("parameter %d requested in a chunk called without arguments", id), off)
		}
		index := int(id) - 1
		if index < 0 || index >= len(f.args) {
			return Empty(), f.at(NewTypeError("parameter %d out of range (%d supplied)", id, len(f.args)), off)
		}
		return f.args[index], nil
	}
	return Empty(), NewFormatError(off, "unknown variable scope %d", scope)
}

func (f *frame) write(id uint32, scope opcode.VariableScope, val Operand, off int) error {
	switch scope {
	case opcode.ScopeGlobal:
		if err := f.rt.writeGlobal(id, val); err != nil {
			return f.at(err, off)
		}
		return nil

	case opcode.ScopeLocal:
		if int(id) >= len(f.locals) {
			return f.at(NewTypeError("local %d written but only %d declared", id, len(f.locals)), off)
		}
		f.locals[id] = val
		return nil

	case opcode.ScopeParameter:
		return f.at(NewTypeError("attempted to assign to parameter %d", id).wrap(ErrParameterWrite), off)
	}
	return NewFormatError(off, "unknown variable scope %d", scope)
}

// at fills in the offset of a RuntimeError that has none.
func (f *frame) at(err error, off int) error {
	if re, ok := err.(*RuntimeError); ok && re.Offset < 0 {
		re.Offset = off
	}
	return err
}

type endNode struct{ off int }

func (n *endNode) offset() int                   { return n.off }
func (n *endNode) eval(*frame) (Operand, error) { return Empty(), nil }

type literalNode struct {
	off   int
	kind  opcode.OperandType
	value Operand
}

func (n *literalNode) offset() int                   { return n.off }
func (n *literalNode) eval(*frame) (Operand, error) { return n.value, nil }

type assetNode struct {
	off int
	id  uint32
}

func (n *assetNode) offset() int { return n.off }

func (n *assetNode) eval(f *frame) (Operand, error) {
	if n.id == 0 {
		return NewAssetRef(nil), nil
	}
	a, ok := f.rt.Asset(n.id)
	if !ok {
		return Empty(), f.at(NewTypeError("asset %d does not exist in title", n.id).wrap(ErrUnknownAsset), n.off)
	}
	return NewAssetRef(a), nil
}

type handleNode struct {
	off int
	id  uint32
}

func (n *handleNode) offset() int { return n.off }

func (n *handleNode) eval(f *frame) (Operand, error) {
	v, ok := f.rt.globals.Lookup(n.id)
	if !ok {
		return Empty(), f.at(NewTypeError("handle to undeclared global %d", n.id), n.off)
	}
	return NewVariableRef(v), nil
}

type varRefNode struct {
	off   int
	id    uint32
	scope opcode.VariableScope
}

func (n *varRefNode) offset() int { return n.off }

func (n *varRefNode) eval(f *frame) (Operand, error) {
	return f.read(n.id, n.scope, n.off)
}

type assignNode struct {
	off   int
	id    uint32
	scope opcode.VariableScope
	value statement
}

func (n *assignNode) offset() int { return n.off }

func (n *assignNode) eval(f *frame) (Operand, error) {
	// Parameters are rejected before the right-hand side runs so a failed
	// assignment has no side effects.
	if n.scope == opcode.ScopeParameter {
		return Empty(), f.write(n.id, n.scope, Empty(), n.off)
	}
	v, err := n.value.eval(f)
	if err != nil {
		return Empty(), err
	}
	return Empty(), f.write(n.id, n.scope, v, n.off)
}

type declareNode struct {
	off   int
	count int
}

func (n *declareNode) offset() int { return n.off }

func (n *declareNode) eval(f *frame) (Operand, error) {
	f.locals = make([]Operand, n.count)
	return Empty(), nil
}

type binaryNode struct {
	off         int
	op          opcode.Opcode
	left, right statement
}

func (n *binaryNode) offset() int { return n.off }

func (n *binaryNode) eval(f *frame) (Operand, error) {
	a, err := n.left.eval(f)
	if err != nil {
		return Empty(), err
	}
	b, err := n.right.eval(f)
	if err != nil {
		return Empty(), err
	}
	v, err := f.rt.binary(n.op, a, b)
	if err != nil {
		return Empty(), f.at(err, n.off)
	}
	return v, nil
}

type callRoutineNode struct {
	off  int
	id   uint32
	args []statement
}

func (n *callRoutineNode) offset() int { return n.off }

func (n *callRoutineNode) eval(f *frame) (Operand, error) {
	args, err := evalAll(f, n.args)
	if err != nil {
		return Empty(), err
	}
	v, err := f.rt.CallRoutine(n.id, args)
	if err != nil {
		return Empty(), f.at(err, n.off)
	}
	return v, nil
}

type callMethodNode struct {
	off  int
	id   opcode.BuiltIn
	self statement
	args []statement
}

func (n *callMethodNode) offset() int { return n.off }

func (n *callMethodNode) eval(f *frame) (Operand, error) {
	self, err := n.self.eval(f)
	if err != nil {
		return Empty(), err
	}
	if self.Kind() != KindAsset {
		return Empty(), f.at(NewTypeError("%s called on %s operand", n.id, self.Kind()).wrap(ErrNotAnAsset), n.off)
	}
	if self.Asset() == nil {
		return Empty(), f.at(NewTypeError("%s called on the null asset", n.id).wrap(ErrNotAnAsset), n.off)
	}
	args, err := evalAll(f, n.args)
	if err != nil {
		return Empty(), err
	}
	v, err := f.rt.CallMethod(self.Asset(), n.id, args)
	if err != nil {
		return Empty(), f.at(err, n.off)
	}
	return v, nil
}

type returnNode struct {
	off   int
	value statement
}

func (n *returnNode) offset() int { return n.off }

func (n *returnNode) eval(f *frame) (Operand, error) {
	v, err := n.value.eval(f)
	if err != nil {
		return Empty(), err
	}
	f.returned = true
	f.result = v
	return v, nil
}

type ifNode struct {
	off       int
	cond      statement
	then, els []statement
}

func (n *ifNode) offset() int { return n.off }

func (n *ifNode) eval(f *frame) (Operand, error) {
	c, err := n.cond.eval(f)
	if err != nil {
		return Empty(), err
	}
	if c.Truthy() {
		return f.run(n.then)
	}
	return f.run(n.els)
}

type whileNode struct {
	off  int
	cond statement
	body []statement
}

func (n *whileNode) offset() int { return n.off }

func (n *whileNode) eval(f *frame) (Operand, error) {
	last := Empty()
	for i := 0; ; i++ {
		if i >= MaxLoopIterations {
			return Empty(), f.at(NewResourceError("while loop exceeded %d iterations", MaxLoopIterations), n.off)
		}
		c, err := n.cond.eval(f)
		if err != nil {
			return Empty(), err
		}
		if !c.Truthy() {
			return last, nil
		}
		if last, err = f.run(n.body); err != nil {
			return Empty(), err
		}
		if f.returned {
			return f.result, nil
		}
	}
}

func evalAll(f *frame, stmts []statement) ([]Operand, error) {
	out := make([]Operand, 0, len(stmts))
	for _, s := range stmts {
		v, err := s.eval(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
