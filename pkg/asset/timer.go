package asset

import (
	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

// Timer runs its Time handlers and stops after the last one.
type Timer struct {
	base
	timeline
}

// NewTimer creates a timer.
func NewTimer(h *Header) *Timer {
	t := &Timer{base: base{header: h}}
	t.timeline = newTimeline(t, &h.Handlers)
	return t
}

func (a *Timer) Play(rt *vm.Runtime) error {
	a.begin(rt, a.header.Handlers.MaxThreshold())
	return nil
}

func (a *Timer) Stop(rt *vm.Runtime) error {
	_, err := a.halt(rt, 0)
	return err
}

func (a *Timer) Process(rt *vm.Runtime, now int64) error {
	done, err := a.advance(rt, now)
	if err != nil || !done {
		return err
	}
	return a.finish(rt, 0)
}

func (a *Timer) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	if v, ok, err := callTime(rt, a, id); ok {
		return v, err
	}
	return unsupported(a, id)
}
