package vm

import (
	"fmt"
	"strings"

	"github.com/zurustar/mediastation/pkg/opcode"
)

// Disassemble renders a decoded chunk one statement per line. Nested blocks
// are indented by two spaces.
func Disassemble(c *CodeChunk) []string {
	var lines []string
	disasmBlock(&lines, c.statements, 0)
	return lines
}

func disasmBlock(lines *[]string, stmts []statement, depth int) {
	pad := strings.Repeat("  ", depth)
	for _, s := range stmts {
		switch n := s.(type) {
		case *ifNode:
			*lines = append(*lines, fmt.Sprintf("%04x %sif %s", n.off, pad, expr(n.cond)))
			disasmBlock(lines, n.then, depth+1)
			*lines = append(*lines, fmt.Sprintf("     %selse", pad))
			disasmBlock(lines, n.els, depth+1)
			*lines = append(*lines, fmt.Sprintf("     %send", pad))
		case *whileNode:
			*lines = append(*lines, fmt.Sprintf("%04x %swhile %s", n.off, pad, expr(n.cond)))
			disasmBlock(lines, n.body, depth+1)
			*lines = append(*lines, fmt.Sprintf("     %send", pad))
		default:
			*lines = append(*lines, fmt.Sprintf("%04x %s%s", s.offset(), pad, expr(s)))
		}
	}
}

func variableName(id uint32, scope opcode.VariableScope) string {
	return fmt.Sprintf("%s[%d]", scope, id)
}

func expr(s statement) string {
	switch n := s.(type) {
	case *endNode:
		return "<end>"
	case *literalNode:
		if n.kind == opcode.DollarSignVariable {
			return "$" + n.value.String()
		}
		return n.value.String()
	case *assetNode:
		if n.id == 0 {
			return "asset(null)"
		}
		return fmt.Sprintf("asset(%d)", n.id)
	case *handleNode:
		return "&" + variableName(n.id, opcode.ScopeGlobal)
	case *varRefNode:
		return variableName(n.id, n.scope)
	case *assignNode:
		return fmt.Sprintf("%s = %s", variableName(n.id, n.scope), expr(n.value))
	case *declareNode:
		return fmt.Sprintf("locals %d", n.count)
	case *binaryNode:
		return fmt.Sprintf("(%s %s %s)", expr(n.left), n.op, expr(n.right))
	case *callRoutineNode:
		name := fmt.Sprintf("function%d", n.id)
		if n.id < opcode.UserFunctionBase {
			name = opcode.BuiltIn(n.id).String()
		}
		return fmt.Sprintf("%s(%s)", name, exprList(n.args))
	case *callMethodNode:
		return fmt.Sprintf("%s.%s(%s)", expr(n.self), n.id, exprList(n.args))
	case *returnNode:
		return "return " + expr(n.value)
	case *ifNode:
		return fmt.Sprintf("if %s {%d} else {%d}", expr(n.cond), len(n.then), len(n.els))
	case *whileNode:
		return fmt.Sprintf("while %s {%d}", expr(n.cond), len(n.body))
	}
	return fmt.Sprintf("<%T>", s)
}

func exprList(stmts []statement) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = expr(s)
	}
	return strings.Join(parts, ", ")
}
