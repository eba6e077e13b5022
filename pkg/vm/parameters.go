package vm

import (
	"github.com/zurustar/mediastation/pkg/datum"
)

// Context parameter section tags.
const (
	paramEnd      = 0x0000
	paramName     = 0x0011
	paramVariable = 0x0014
	paramFunction = 0x0031
)

// ContextParameters is the script part of a context: its name, global
// variable declarations and user functions.
type ContextParameters struct {
	FileNumber uint32
	Name       string
	Variables  []*Variable
	Functions  []*Function
}

// ParseContextParameters reads a parameter block up to its end section.
func ParseContextParameters(r *datum.Reader) (*ContextParameters, error) {
	fileNumber, err := r.ReadInt()
	if err != nil {
		return nil, WrapFormat(err, "context file number")
	}
	p := &ContextParameters{FileNumber: uint32(fileNumber)}

	for {
		off := r.Offset()
		section, err := r.ReadInt()
		if err != nil {
			return nil, WrapFormat(err, "context parameter section")
		}
		switch section {
		case paramEnd:
			return p, nil

		case paramName:
			n, err := r.ReadInt()
			if err != nil {
				return nil, WrapFormat(err, "context name file number")
			}
			if uint32(n) != p.FileNumber {
				return nil, NewFormatError(off, "context name for file %d in parameters of file %d", n, p.FileNumber)
			}
			name, err := r.ReadTyped(datum.TypeString)
			if err != nil {
				return nil, WrapFormat(err, "context name")
			}
			p.Name = name.String

		case paramVariable:
			v, err := ParseVariableDeclaration(r)
			if err != nil {
				return nil, err
			}
			p.Variables = append(p.Variables, v)

		case paramFunction:
			fn, err := ParseFunction(r)
			if err != nil {
				return nil, err
			}
			p.Functions = append(p.Functions, fn)

		default:
			return nil, NewFormatError(off, "unknown context parameter section 0x%04x", section)
		}
	}
}

// Apply declares the globals and registers the functions on rt.
func (p *ContextParameters) Apply(rt *Runtime) {
	for _, v := range p.Variables {
		if _, ok := rt.globals.Lookup(v.ID); ok {
			rt.log.Warn("Global redeclared", "id", v.ID, "context", p.Name)
		}
		rt.globals.Declare(v)
	}
	for _, fn := range p.Functions {
		rt.RegisterFunction(fn)
	}
}

// Release removes what Apply added.
func (p *ContextParameters) Release(rt *Runtime) {
	for _, v := range p.Variables {
		rt.globals.Remove(v.ID)
	}
	for _, fn := range p.Functions {
		rt.UnregisterFunction(fn.ID)
	}
}
