package vm

import (
	"sort"

	"github.com/zurustar/mediastation/pkg/opcode"
)

// Collection built-ins take the collection's variable handle as their first
// argument. Indices are zero-based.

func collectionArg(id opcode.BuiltIn, args []Operand) (*Variable, error) {
	if len(args) == 0 {
		return nil, NewTypeError("%s expects a collection argument", id)
	}
	a := args[0]
	if a.Kind() != KindVariable || a.Variable() == nil || a.Variable().Kind != VarCollection {
		return nil, NewTypeError("%s called on %s operand, not a collection", id, a.Kind())
	}
	return a.Variable(), nil
}

// Items returns a copy of a collection's elements.
func (v *Variable) Items() []Operand {
	return append([]Operand(nil), v.items...)
}

func (v *Variable) index(id opcode.BuiltIn, args []Operand, i int) (int, error) {
	n, err := IntArg(id, args, i)
	if err != nil {
		return 0, err
	}
	if n < 0 || n >= int64(len(v.items)) {
		return 0, NewTypeError("%s index %d out of range (%d items)", id, n, len(v.items))
	}
	return int(n), nil
}

func collectionAppend(rt *Runtime, args []Operand) (Operand, error) {
	c, err := collectionArg(opcode.CollectionAppend, args)
	if err != nil {
		return Empty(), err
	}
	c.items = append(c.items, args[1:]...)
	return Empty(), nil
}

func collectionCount(rt *Runtime, args []Operand) (Operand, error) {
	c, err := collectionArg(opcode.CollectionCount, args)
	if err != nil {
		return Empty(), err
	}
	return NewInt(int64(len(c.items))), nil
}

func collectionEmpty(rt *Runtime, args []Operand) (Operand, error) {
	c, err := collectionArg(opcode.CollectionEmpty, args)
	if err != nil {
		return Empty(), err
	}
	c.items = nil
	return Empty(), nil
}

func collectionIsEmpty(rt *Runtime, args []Operand) (Operand, error) {
	c, err := collectionArg(opcode.CollectionIsEmpty, args)
	if err != nil {
		return Empty(), err
	}
	return NewBool(len(c.items) == 0), nil
}

func collectionGetAt(rt *Runtime, args []Operand) (Operand, error) {
	id := opcode.CollectionGetAt
	c, err := collectionArg(id, args)
	if err != nil {
		return Empty(), err
	}
	if err := CheckArgs(id, args, 2, 2); err != nil {
		return Empty(), err
	}
	i, err := c.index(id, args, 1)
	if err != nil {
		return Empty(), err
	}
	return c.items[i], nil
}

func collectionDeleteAt(rt *Runtime, args []Operand) (Operand, error) {
	id := opcode.CollectionDeleteAt
	c, err := collectionArg(id, args)
	if err != nil {
		return Empty(), err
	}
	if err := CheckArgs(id, args, 2, 2); err != nil {
		return Empty(), err
	}
	i, err := c.index(id, args, 1)
	if err != nil {
		return Empty(), err
	}
	removed := c.items[i]
	c.items = append(c.items[:i], c.items[i+1:]...)
	return removed, nil
}

// collectionSeek returns the index of the first element equal to the value,
// or -1.
func collectionSeek(rt *Runtime, args []Operand) (Operand, error) {
	id := opcode.CollectionSeek
	c, err := collectionArg(id, args)
	if err != nil {
		return Empty(), err
	}
	if err := CheckArgs(id, args, 2, 2); err != nil {
		return Empty(), err
	}
	for i, item := range c.items {
		if item.Equal(args[1]) {
			return NewInt(int64(i)), nil
		}
	}
	return NewInt(-1), nil
}

// collectionSort orders numbers ascending, then strings ascending. Other
// elements keep their relative order after both.
func collectionSort(rt *Runtime, args []Operand) (Operand, error) {
	c, err := collectionArg(opcode.CollectionSort, args)
	if err != nil {
		return Empty(), err
	}
	rank := func(o Operand) int {
		switch {
		case o.IsNumeric():
			return 0
		case o.Kind() == KindString:
			return 1
		}
		return 2
	}
	sort.SliceStable(c.items, func(i, j int) bool {
		a, b := c.items[i], c.items[j]
		ra, rb := rank(a), rank(b)
		if ra != rb {
			return ra < rb
		}
		switch ra {
		case 0:
			x, _ := a.Number()
			y, _ := b.Number()
			return x < y
		case 1:
			return a.Text() < b.Text()
		}
		return false
	})
	return Empty(), nil
}

// collectionSend calls a method on every asset in the collection, in order.
// The first error stops the broadcast; earlier calls keep their effects.
func collectionSend(rt *Runtime, args []Operand) (Operand, error) {
	id := opcode.CollectionSend
	c, err := collectionArg(id, args)
	if err != nil {
		return Empty(), err
	}
	if err := CheckArgs(id, args, 2, -1); err != nil {
		return Empty(), err
	}
	method, err := IntArg(id, args, 1)
	if err != nil {
		return Empty(), err
	}
	rest := args[2:]

	for i, item := range c.Items() {
		var target Asset
		switch item.Kind() {
		case KindAsset:
			target = item.Asset()
		case KindInt:
			if item.Int() != 0 {
				a, ok := rt.Asset(uint32(item.Int()))
				if !ok {
					return Empty(), NewTypeError("send to unknown asset %d at index %d", item.Int(), i).wrap(ErrUnknownAsset)
				}
				target = a
			}
		}
		if target == nil {
			rt.log.Warn("send skipped non-asset element", "index", i, "kind", item.Kind(), "method", opcode.BuiltIn(method))
			continue
		}
		if _, err := rt.CallMethod(target, opcode.BuiltIn(method), rest); err != nil {
			return Empty(), err
		}
	}
	return Empty(), nil
}
