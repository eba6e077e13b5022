package vm

import (
	"github.com/zurustar/mediastation/pkg/datum"
	"github.com/zurustar/mediastation/pkg/opcode"
)

// decoder turns bytecode into a statement tree. Each code chunk is decoded
// once when it is loaded and the tree is evaluated on every invocation.
type decoder struct {
	r *datum.Reader
}

func (d *decoder) int(what string) (int64, error) {
	v, err := d.r.ReadInt()
	if err != nil {
		return 0, WrapFormat(err, what)
	}
	return v, nil
}

// block decodes every statement of a range. End markers separate statements
// and are not kept.
func (d *decoder) block() ([]statement, error) {
	var stmts []statement
	for !d.r.EOF() {
		s, err := d.statement()
		if err != nil {
			return nil, err
		}
		if _, end := s.(*endNode); end {
			continue
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

// nested decodes a length-prefixed chunk embedded in an if/else or while.
func (d *decoder) nested(what string) ([]statement, error) {
	n, err := d.r.ReadLength()
	if err != nil {
		return nil, WrapFormat(err, what+" length")
	}
	sub, err := d.r.Sub(n)
	if err != nil {
		return nil, WrapFormat(err, what+" exceeds enclosing chunk")
	}
	return (&decoder{r: sub}).block()
}

func (d *decoder) statement() (statement, error) {
	off := d.r.Offset()
	if d.r.EOF() {
		return nil, NewFormatError(off, "attempt to read past end of bytecode chunk")
	}
	class, err := d.int("instruction type")
	if err != nil {
		return nil, err
	}

	switch opcode.InstructionType(class) {
	case opcode.Empty:
		return &endNode{off: off}, nil

	case opcode.VariableRef:
		id, scope, err := d.variable()
		if err != nil {
			return nil, err
		}
		return &varRefNode{off: off, id: id, scope: scope}, nil

	case opcode.Operand:
		return d.operand(off)

	case opcode.FunctionCall:
		return d.functionCall(off)
	}
	return nil, NewFormatError(off, "unknown instruction type 0x%x", class)
}

func (d *decoder) variable() (uint32, opcode.VariableScope, error) {
	id, err := d.int("variable id")
	if err != nil {
		return 0, 0, err
	}
	off := d.r.Offset()
	raw, err := d.int("variable scope")
	if err != nil {
		return 0, 0, err
	}
	scope := opcode.VariableScope(raw)
	if !scope.Valid() {
		return 0, 0, NewFormatError(off, "unknown variable scope %d", raw)
	}
	return uint32(id), scope, nil
}

func (d *decoder) operand(off int) (statement, error) {
	raw, err := d.int("operand type")
	if err != nil {
		return nil, err
	}
	kind := opcode.OperandType(raw)

	switch kind {
	case opcode.Literal1, opcode.Literal2, opcode.DollarSignVariable, opcode.Function:
		v, err := d.r.ReadDatum()
		if err != nil {
			return nil, WrapFormat(err, kind.String()+" payload")
		}
		n, err := v.AsInt()
		if err != nil {
			return nil, WrapFormat(err, kind.String()+" payload")
		}
		if v.Type == datum.TypeUint32_1 || v.Type == datum.TypeUint32_2 {
			n = int64(int32(uint32(n)))
		}
		return &literalNode{off: off, kind: kind, value: NewInt(n)}, nil

	case opcode.Float1, opcode.Float2:
		v, err := d.r.ReadDatum()
		if err != nil {
			return nil, WrapFormat(err, kind.String()+" payload")
		}
		f, err := v.AsFloat()
		if err != nil {
			return nil, WrapFormat(err, kind.String()+" payload")
		}
		return &literalNode{off: off, kind: kind, value: NewFloat(f)}, nil

	case opcode.String:
		v, err := d.r.ReadTyped(datum.TypeString)
		if err != nil {
			return nil, WrapFormat(err, "string payload")
		}
		return &literalNode{off: off, kind: kind, value: NewString(v.String)}, nil

	case opcode.AssetID:
		id, err := d.int("asset id")
		if err != nil {
			return nil, err
		}
		return &assetNode{off: off, id: uint32(id)}, nil

	case opcode.VariableDeclaration:
		id, scope, err := d.variable()
		if err != nil {
			return nil, err
		}
		if scope != opcode.ScopeGlobal {
			return nil, NewFormatError(off, "variable handle to %s variable %d", scope, id)
		}
		return &handleNode{off: off, id: id}, nil
	}
	return nil, NewFormatError(off, "unknown operand type %d", raw)
}

func (d *decoder) functionCall(off int) (statement, error) {
	raw, err := d.int("opcode")
	if err != nil {
		return nil, err
	}
	op := opcode.Opcode(raw)

	if op.IsBinary() {
		left, err := d.statement()
		if err != nil {
			return nil, err
		}
		right, err := d.statement()
		if err != nil {
			return nil, err
		}
		return &binaryNode{off: off, op: op, left: left, right: right}, nil
	}

	switch op {
	case opcode.AssignVariable:
		id, scope, err := d.variable()
		if err != nil {
			return nil, err
		}
		value, err := d.statement()
		if err != nil {
			return nil, err
		}
		return &assignNode{off: off, id: id, scope: scope, value: value}, nil

	case opcode.CallRoutine:
		id, err := d.int("function id")
		if err != nil {
			return nil, err
		}
		args, err := d.arguments()
		if err != nil {
			return nil, err
		}
		return &callRoutineNode{off: off, id: uint32(id), args: args}, nil

	case opcode.CallMethod:
		id, err := d.int("method id")
		if err != nil {
			return nil, err
		}
		count, err := d.int("argument count")
		if err != nil {
			return nil, err
		}
		self, err := d.statement()
		if err != nil {
			return nil, err
		}
		args, err := d.statements(count)
		if err != nil {
			return nil, err
		}
		return &callMethodNode{off: off, id: opcode.BuiltIn(id), self: self, args: args}, nil

	case opcode.DeclareVariables:
		n, err := d.int("local variable count")
		if err != nil {
			return nil, err
		}
		if n < 0 || n > 0xffff {
			return nil, NewFormatError(off, "invalid local variable count %d", n)
		}
		return &declareNode{off: off, count: int(n)}, nil

	case opcode.Return:
		value, err := d.statement()
		if err != nil {
			return nil, err
		}
		return &returnNode{off: off, value: value}, nil

	case opcode.IfElse:
		cond, err := d.statement()
		if err != nil {
			return nil, err
		}
		then, err := d.nested("if block")
		if err != nil {
			return nil, err
		}
		els, err := d.nested("else block")
		if err != nil {
			return nil, err
		}
		return &ifNode{off: off, cond: cond, then: then, els: els}, nil

	case opcode.While:
		cond, err := d.statement()
		if err != nil {
			return nil, err
		}
		body, err := d.nested("while body")
		if err != nil {
			return nil, err
		}
		return &whileNode{off: off, cond: cond, body: body}, nil

	case opcode.Unk1, opcode.Unk2:
		return nil, NewFormatError(off, "unsupported opcode %s", op)
	}
	return nil, NewFormatError(off, "unknown opcode %d", raw)
}

func (d *decoder) arguments() ([]statement, error) {
	count, err := d.int("argument count")
	if err != nil {
		return nil, err
	}
	return d.statements(count)
}

func (d *decoder) statements(count int64) ([]statement, error) {
	if count < 0 || int(count) > d.r.Remaining() {
		return nil, NewFormatError(d.r.Offset(), "argument count %d exceeds chunk", count)
	}
	args := make([]statement, 0, count)
	for i := int64(0); i < count; i++ {
		s, err := d.statement()
		if err != nil {
			return nil, err
		}
		args = append(args, s)
	}
	return args, nil
}
