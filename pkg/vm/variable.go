package vm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zurustar/mediastation/pkg/datum"
)

// VariableKind is the declared value kind of a global variable.
type VariableKind uint8

const (
	// VarUntyped is used for globals created by assignment without a
	// declaration. It accepts any operand.
	VarUntyped    VariableKind = 0x00
	VarFloat      VariableKind = 0x02
	VarBoolean    VariableKind = 0x03
	VarInteger    VariableKind = 0x04
	VarAssetID    VariableKind = 0x05
	VarString     VariableKind = 0x06
	VarCollection VariableKind = 0x07
)

func (k VariableKind) String() string {
	switch k {
	case VarUntyped:
		return "untyped"
	case VarFloat:
		return "float"
	case VarBoolean:
		return "boolean"
	case VarInteger:
		return "integer"
	case VarAssetID:
		return "assetId"
	case VarString:
		return "string"
	case VarCollection:
		return "collection"
	}
	return fmt.Sprintf("kind(0x%x)", uint8(k))
}

// AssetResolver resolves asset ids. The Runtime implements it.
type AssetResolver interface {
	Asset(id uint32) (Asset, bool)
}

// Variable is a global variable. Its kind is fixed at declaration.
type Variable struct {
	ID   uint32
	Kind VariableKind

	value   Operand
	assetID uint32
	items   []Operand
}

// NewVariable creates a variable of the given kind holding its zero value.
func NewVariable(id uint32, kind VariableKind) *Variable {
	v := &Variable{ID: id, Kind: kind}
	switch kind {
	case VarInteger, VarBoolean:
		v.value = NewInt(0)
	case VarFloat:
		v.value = NewFloat(0)
	case VarString:
		v.value = NewString("")
	}
	return v
}

// Read returns the current value. Collections yield a handle to themselves so
// built-ins can modify them in place.
func (v *Variable) Read(res AssetResolver) (Operand, error) {
	switch v.Kind {
	case VarCollection:
		return NewVariableRef(v), nil
	case VarAssetID:
		if v.assetID == 0 {
			return NewAssetRef(nil), nil
		}
		a, ok := res.Asset(v.assetID)
		if !ok {
			return Empty(), NewTypeError("global %d refers to asset %d", v.ID, v.assetID).wrap(ErrUnknownAsset)
		}
		return NewAssetRef(a), nil
	}
	return v.value, nil
}

// Assign stores val, coercing it to the declared kind.
func (v *Variable) Assign(res AssetResolver, val Operand) error {
	switch v.Kind {
	case VarUntyped:
		v.value = val
		return nil

	case VarInteger:
		switch val.Kind() {
		case KindInt:
			v.value = val
			return nil
		case KindFloat:
			v.value = NewInt(int64(val.Float()))
			return nil
		}

	case VarFloat:
		if n, ok := val.Number(); ok {
			v.value = NewFloat(n)
			return nil
		}

	case VarBoolean:
		if val.IsNumeric() {
			v.value = NewBool(val.Truthy())
			return nil
		}

	case VarString:
		if val.Kind() == KindString {
			v.value = val
			return nil
		}

	case VarAssetID:
		switch val.Kind() {
		case KindEmpty:
			v.assetID = 0
			return nil
		case KindAsset:
			if a := val.Asset(); a != nil {
				v.assetID = a.ID()
			} else {
				v.assetID = 0
			}
			return nil
		case KindInt:
			id := uint32(val.Int())
			if id != 0 {
				if _, ok := res.Asset(id); !ok {
					return NewTypeError("assign unknown asset %d to global %d", id, v.ID).wrap(ErrUnknownAsset)
				}
			}
			v.assetID = id
			return nil
		}

	case VarCollection:
		if val.Kind() == KindVariable && val.Variable() != nil && val.Variable().Kind == VarCollection {
			src := val.Variable()
			if src != v {
				v.items = append([]Operand(nil), src.items...)
			}
			return nil
		}
	}
	return NewTypeError("cannot assign %s value to %s global %d", val.Kind(), v.Kind, v.ID)
}

// Globals is the global variable store of a loaded context.
type Globals struct {
	vars map[uint32]*Variable
	mu   sync.RWMutex
}

// NewGlobals creates an empty store.
func NewGlobals() *Globals {
	return &Globals{vars: make(map[uint32]*Variable)}
}

// Declare adds or replaces a variable.
func (g *Globals) Declare(v *Variable) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.vars[v.ID] = v
}

// Lookup returns the variable with id.
func (g *Globals) Lookup(id uint32) (*Variable, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.vars[id]
	return v, ok
}

// Remove deletes a variable. It is used when a context is released.
func (g *Globals) Remove(id uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.vars, id)
}

// IDs returns the declared ids in ascending order.
func (g *Globals) IDs() []uint32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]uint32, 0, len(g.vars))
	for id := range g.vars {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of variables.
func (g *Globals) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vars)
}

// ParseVariableDeclaration reads one declaration: id, kind byte and a payload
// that depends on the kind.
func ParseVariableDeclaration(r *datum.Reader) (*Variable, error) {
	id, err := r.ReadInt()
	if err != nil {
		return nil, WrapFormat(err, "variable id")
	}
	kindDatum, err := r.ReadTyped(datum.TypeUint8)
	if err != nil {
		return nil, WrapFormat(err, "variable kind")
	}
	v := NewVariable(uint32(id), VariableKind(kindDatum.Int))

	switch v.Kind {
	case VarCollection:
		count, err := r.ReadInt()
		if err != nil {
			return nil, WrapFormat(err, "collection size")
		}
		v.items = make([]Operand, 0, count)
		for i := int64(0); i < count; i++ {
			item, err := ParseVariableDeclaration(r)
			if err != nil {
				return nil, err
			}
			v.items = append(v.items, item.literal())
		}

	case VarString:
		d, err := r.ReadTyped(datum.TypeString)
		if err != nil {
			return nil, WrapFormat(err, "string variable")
		}
		v.value = NewString(d.String)

	case VarAssetID:
		aid, err := r.ReadInt()
		if err != nil {
			return nil, WrapFormat(err, "asset variable")
		}
		v.assetID = uint32(aid)

	case VarBoolean:
		d, err := r.ReadInt()
		if err != nil {
			return nil, WrapFormat(err, "boolean variable")
		}
		v.value = NewBool(d == 1)

	case VarInteger:
		d, err := r.ReadDatum()
		if err != nil {
			return nil, WrapFormat(err, "integer variable")
		}
		n, err := d.AsInt()
		if err != nil {
			return nil, WrapFormat(err, "integer variable")
		}
		if d.Type == datum.TypeUint32_1 || d.Type == datum.TypeUint32_2 {
			n = int64(int32(uint32(n)))
		}
		v.value = NewInt(n)

	case VarFloat:
		d, err := r.ReadDatum()
		if err != nil {
			return nil, WrapFormat(err, "float variable")
		}
		f, err := d.AsFloat()
		if err != nil {
			return nil, WrapFormat(err, "float variable")
		}
		v.value = NewFloat(f)

	default:
		return nil, NewFormatError(kindDatum.Offset, "unknown variable kind 0x%x", uint8(v.Kind))
	}
	return v, nil
}

// literal converts a nested declaration into a collection element.
func (v *Variable) literal() Operand {
	switch v.Kind {
	case VarCollection:
		return NewVariableRef(v)
	case VarAssetID:
		return NewInt(int64(v.assetID))
	}
	return v.value
}
