// Package opcode defines the instruction set of the Media Station script VM.
// The numbers here are a fixed wire format shared with the authoring tool:
// the decoder in pkg/vm reads them and the assembler in pkg/asm writes them.
package opcode

import "fmt"

// InstructionType is the class tag at the start of every statement.
type InstructionType uint16

const (
	// Empty marks the end of a statement list or an absent argument.
	Empty InstructionType = 0x0000

	// VariableRef yields the value of a variable.
	// Args: [id, scope]
	VariableRef InstructionType = 0x0065

	// Operand yields a literal, asset reference or variable handle.
	// Args: [OperandType, payload...]
	Operand InstructionType = 0x0066

	// FunctionCall applies an opcode.
	// Args: [Opcode, opcode-specific operands...]
	FunctionCall InstructionType = 0x0067
)

func (t InstructionType) String() string {
	switch t {
	case Empty:
		return "Empty"
	case VariableRef:
		return "VariableRef"
	case Operand:
		return "Operand"
	case FunctionCall:
		return "FunctionCall"
	}
	return fmt.Sprintf("InstructionType(0x%x)", uint16(t))
}

// Opcode selects the operation of a FunctionCall statement.
type Opcode uint16

const (
	// IfElse evaluates a condition and runs one of two nested chunks.
	// Args: [condition, thenChunk, elseChunk]
	IfElse Opcode = 202

	// AssignVariable stores the value of a statement into a variable.
	// Args: [id, scope, value]
	AssignVariable Opcode = 203

	Or                   Opcode = 204
	And                  Opcode = 206
	Equals               Opcode = 207
	NotEquals            Opcode = 208
	LessThan             Opcode = 209
	GreaterThan          Opcode = 210
	LessThanOrEqualTo    Opcode = 211
	GreaterThanOrEqualTo Opcode = 212
	Add                  Opcode = 213
	Subtract             Opcode = 214
	Multiply             Opcode = 215
	Divide               Opcode = 216
	Modulo               Opcode = 217

	// Unk2 appears next to ## constants. Not understood.
	Unk2 Opcode = 218

	// CallRoutine calls a user function, or a built-in function when no user
	// function has the id.
	// Args: [functionId, argCount, args...]
	CallRoutine Opcode = 219

	// CallMethod calls a built-in method on an asset.
	// Args: [methodId, argCount, self, args...]
	CallMethod Opcode = 220

	// DeclareVariables sizes the local variable slots of the activation.
	// Args: [count]
	DeclareVariables Opcode = 221

	// Return ends the activation with a value.
	// Args: [value]
	Return Opcode = 222

	// Unk1 is not understood.
	Unk1 Opcode = 223

	// While repeats a nested chunk while a condition holds.
	// Args: [condition, bodyChunk]
	While Opcode = 224
)

var opcodeNames = map[Opcode]string{
	IfElse:               "IfElse",
	AssignVariable:       "AssignVariable",
	Or:                   "Or",
	And:                  "And",
	Equals:               "Equals",
	NotEquals:            "NotEquals",
	LessThan:             "LessThan",
	GreaterThan:          "GreaterThan",
	LessThanOrEqualTo:    "LessThanOrEqualTo",
	GreaterThanOrEqualTo: "GreaterThanOrEqualTo",
	Add:                  "Add",
	Subtract:             "Subtract",
	Multiply:             "Multiply",
	Divide:               "Divide",
	Modulo:               "Modulo",
	Unk2:                 "Unk2",
	CallRoutine:          "CallRoutine",
	CallMethod:           "CallMethod",
	DeclareVariables:     "DeclareVariables",
	Return:               "Return",
	Unk1:                 "Unk1",
	While:                "While",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", uint16(o))
}

// IsBinary reports whether the opcode takes two operand statements.
func (o Opcode) IsBinary() bool {
	return o >= Or && o <= Modulo && o != 205
}

// OperandType tags the payload of an Operand statement.
type OperandType uint16

const (
	Literal1           OperandType = 151
	Float1             OperandType = 152
	Literal2           OperandType = 153
	String             OperandType = 154
	DollarSignVariable OperandType = 155
	AssetID            OperandType = 156
	Float2             OperandType = 157
	// VariableDeclaration yields a handle to a global variable.
	VariableDeclaration OperandType = 158
	Function            OperandType = 160
)

func (t OperandType) String() string {
	switch t {
	case Literal1:
		return "Literal1"
	case Float1:
		return "Float1"
	case Literal2:
		return "Literal2"
	case String:
		return "String"
	case DollarSignVariable:
		return "DollarSignVariable"
	case AssetID:
		return "AssetId"
	case Float2:
		return "Float2"
	case VariableDeclaration:
		return "VariableDeclaration"
	case Function:
		return "Function"
	}
	return fmt.Sprintf("OperandType(%d)", uint16(t))
}

// VariableScope selects where a variable id is resolved.
type VariableScope uint16

const (
	ScopeLocal     VariableScope = 1
	ScopeParameter VariableScope = 2
	ScopeGlobal    VariableScope = 4
)

func (s VariableScope) String() string {
	switch s {
	case ScopeLocal:
		return "local"
	case ScopeParameter:
		return "param"
	case ScopeGlobal:
		return "global"
	}
	return fmt.Sprintf("scope(%d)", uint16(s))
}

// Valid reports whether s is one of the three known scopes.
func (s VariableScope) Valid() bool {
	return s == ScopeLocal || s == ScopeParameter || s == ScopeGlobal
}

// UserFunctionBase is added to authored function ids so that user routines and
// built-in functions never share an id.
const UserFunctionBase = 19900
