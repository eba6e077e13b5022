package vm

import (
	"fmt"

	"github.com/zurustar/mediastation/pkg/datum"
	"github.com/zurustar/mediastation/pkg/opcode"
)

// Function is a user-defined routine. ID already includes
// opcode.UserFunctionBase, so it is the id scripts call it by.
type Function struct {
	FileID uint32
	ID     uint32
	Code   *CodeChunk
}

// ParseFunction reads a function record: file id, function id, code chunk.
func ParseFunction(r *datum.Reader) (*Function, error) {
	fileID, err := r.ReadInt()
	if err != nil {
		return nil, WrapFormat(err, "function file id")
	}
	id, err := r.ReadInt()
	if err != nil {
		return nil, WrapFormat(err, "function id")
	}
	code, err := ParseCodeChunk(r)
	if err != nil {
		return nil, err
	}
	fn := &Function{
		FileID: uint32(fileID),
		ID:     uint32(id) + opcode.UserFunctionBase,
		Code:   code,
	}
	code.Name = fmt.Sprintf("function %d", fn.ID)
	return fn, nil
}

// Execute runs the function with args as its parameters.
func (fn *Function) Execute(rt *Runtime, args []Operand) (Operand, error) {
	return fn.Code.Execute(rt, args)
}
