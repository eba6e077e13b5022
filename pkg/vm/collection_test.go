package vm

import (
	"testing"

	"github.com/zurustar/mediastation/pkg/asm"
	"github.com/zurustar/mediastation/pkg/opcode"
)

func newCollection(rt *Runtime, id uint32, items ...Operand) *Variable {
	v := NewVariable(id, VarCollection)
	v.items = items
	rt.Globals().Declare(v)
	return v
}

func TestCollectionBuiltins(t *testing.T) {
	t.Run("append count and getAt", func(t *testing.T) {
		rt := NewRuntime()
		newCollection(rt, 1)
		c := mustChunk(t,
			asm.Call(uint32(opcode.CollectionAppend), asm.Handle(1), asm.Int(4), asm.Str("x")),
			asm.Assign(2, opcode.ScopeGlobal, asm.Call(uint32(opcode.CollectionCount), asm.Handle(1))),
			asm.Call(uint32(opcode.CollectionGetAt), asm.Handle(1), asm.Int(1)),
		)
		v, err := c.Execute(rt, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Text() != "x" {
			t.Errorf("expected x, got %v", v)
		}
		count, _ := rt.Globals().Lookup(2)
		if n, _ := count.Read(rt); n.Int() != 2 {
			t.Errorf("expected count 2, got %v", n)
		}
	})

	t.Run("getAt out of range", func(t *testing.T) {
		rt := NewRuntime()
		newCollection(rt, 1, NewInt(1))
		_, err := rt.CallRoutine(uint32(opcode.CollectionGetAt), []Operand{NewVariableRef(mustLookup(t, rt, 1)), NewInt(1)})
		if ErrorTypeOf(err) != ErrorTypeMismatch {
			t.Errorf("expected TYPE error, got %v", err)
		}
	})

	t.Run("deleteAt seek and sort", func(t *testing.T) {
		rt := NewRuntime()
		c := newCollection(rt, 1, NewInt(3), NewString("b"), NewFloat(1.5), NewInt(2), NewString("a"))
		h := NewVariableRef(c)

		if _, err := rt.CallRoutine(uint32(opcode.CollectionSort), []Operand{h}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"1.5", "2", "3", `"a"`, `"b"`}
		for i, item := range c.Items() {
			if item.String() != want[i] {
				t.Errorf("item %d: expected %s, got %s", i, want[i], item)
			}
		}

		v, _ := rt.CallRoutine(uint32(opcode.CollectionSeek), []Operand{h, NewInt(3)})
		if v.Int() != 2 {
			t.Errorf("expected index 2, got %v", v)
		}
		v, _ = rt.CallRoutine(uint32(opcode.CollectionSeek), []Operand{h, NewString("z")})
		if v.Int() != -1 {
			t.Errorf("expected -1, got %v", v)
		}

		removed, err := rt.CallRoutine(uint32(opcode.CollectionDeleteAt), []Operand{h, NewInt(0)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if removed.Float() != 1.5 || len(c.Items()) != 4 {
			t.Errorf("deleteAt removed %v, %d left", removed, len(c.Items()))
		}

		if _, err := rt.CallRoutine(uint32(opcode.CollectionEmpty), []Operand{h}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		v, _ = rt.CallRoutine(uint32(opcode.CollectionIsEmpty), []Operand{h})
		if v.Int() != 1 {
			t.Errorf("expected empty collection")
		}
	})

	t.Run("non-collection argument", func(t *testing.T) {
		rt := NewRuntime()
		_, err := rt.CallRoutine(uint32(opcode.CollectionCount), []Operand{NewInt(1)})
		if ErrorTypeOf(err) != ErrorTypeMismatch {
			t.Errorf("expected TYPE error, got %v", err)
		}
	})
}

func mustLookup(t *testing.T, rt *Runtime, id uint32) *Variable {
	t.Helper()
	v, ok := rt.Globals().Lookup(id)
	if !ok {
		t.Fatalf("global %d not declared", id)
	}
	return v
}

func TestCollectionSend(t *testing.T) {
	t.Run("calls every asset in order", func(t *testing.T) {
		rt := NewRuntime()
		a, b := &stubAsset{id: 10}, &stubAsset{id: 11}
		rt.RegisterAsset(a)
		rt.RegisterAsset(b)
		newCollection(rt, 1, NewAssetRef(a), NewString("skip me"), NewInt(11))

		c := mustChunk(t, asm.Call(uint32(opcode.CollectionSend), asm.Handle(1), asm.Int(int64(opcode.SpatialHide))))
		if _, err := c.Execute(rt, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(a.calls) != 1 || a.calls[0] != opcode.SpatialHide {
			t.Errorf("asset 10 calls: %v", a.calls)
		}
		if len(b.calls) != 1 || b.calls[0] != opcode.SpatialHide {
			t.Errorf("asset 11 calls: %v", b.calls)
		}
	})

	t.Run("first failure stops the broadcast", func(t *testing.T) {
		rt := NewRuntime()
		a := &stubAsset{id: 10}
		b := &stubAsset{id: 11, failOn: opcode.SpatialShow}
		c := &stubAsset{id: 12}
		for _, s := range []*stubAsset{a, b, c} {
			rt.RegisterAsset(s)
		}
		coll := newCollection(rt, 1, NewInt(10), NewInt(11), NewInt(12))

		_, err := rt.CallRoutine(uint32(opcode.CollectionSend), []Operand{NewVariableRef(coll), NewInt(int64(opcode.SpatialShow))})
		if ErrorTypeOf(err) != ErrorTypeMismatch {
			t.Fatalf("expected TYPE error, got %v", err)
		}
		if len(a.calls) != 1 {
			t.Errorf("earlier element was not called: %v", a.calls)
		}
		if len(c.calls) != 0 {
			t.Errorf("later element was called: %v", c.calls)
		}
	})
}
