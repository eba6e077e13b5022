package vm

import (
	"fmt"

	"github.com/zurustar/mediastation/pkg/datum"
)

// CodeChunk is one compiled script body. It is decoded once when loaded; the
// decoded statements are never modified, so the same chunk may be executed
// any number of times, including recursively.
type CodeChunk struct {
	// Name identifies the chunk in diagnostics ("function 19901",
	// "asset 12 Time handler").
	Name string

	statements []statement
	length     int
	active     int
}

// ParseCodeChunk reads a UINT32_1 length datum followed by that many bytes of
// bytecode.
func ParseCodeChunk(r *datum.Reader) (*CodeChunk, error) {
	n, err := r.ReadLength()
	if err != nil {
		return nil, WrapFormat(err, "code chunk length")
	}
	body, err := r.Sub(n)
	if err != nil {
		return nil, WrapFormat(err, fmt.Sprintf("code chunk of %d bytes", n))
	}
	stmts, err := (&decoder{r: body}).block()
	if err != nil {
		return nil, err
	}
	return &CodeChunk{statements: stmts, length: n}, nil
}

// NewCodeChunk decodes a length-prefixed chunk from raw bytes.
func NewCodeChunk(data []byte) (*CodeChunk, error) {
	return ParseCodeChunk(datum.NewReader(data))
}

// Len returns the size of the bytecode in bytes.
func (c *CodeChunk) Len() int {
	return c.length
}

// Statements returns the number of top-level statements.
func (c *CodeChunk) Statements() int {
	return len(c.statements)
}

// Active returns the number of activations currently running. Zero means the
// chunk is idle.
func (c *CodeChunk) Active() int {
	return c.active
}

// Execute runs every statement and returns the value of the last one, or the
// value of a Return. args become the parameter scope for this activation only
// and are not retained after Execute returns.
func (c *CodeChunk) Execute(rt *Runtime, args []Operand) (Operand, error) {
	if err := rt.enter(); err != nil {
		return Empty(), err
	}
	defer rt.leave()

	c.active++
	defer func() { c.active-- }()

	f := &frame{rt: rt, args: args}
	v, err := f.run(c.statements)
	if err != nil {
		if re, ok := err.(*RuntimeError); ok && re.Context == "" {
			re.Context = c.Name
		}
		return Empty(), err
	}
	return v, nil
}
