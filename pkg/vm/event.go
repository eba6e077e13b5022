package vm

import (
	"fmt"
	"math"

	"github.com/zurustar/mediastation/pkg/datum"
	"github.com/zurustar/mediastation/pkg/opcode"
)

// EventHandler is a code chunk bound to an event type and an optional
// argument (a time in seconds, an ASCII code or a context id).
type EventHandler struct {
	Type    opcode.EventType
	ArgType opcode.ArgumentType
	Arg     datum.Datum
	Code    *CodeChunk
}

// ParseEventHandler reads an event handler record.
func ParseEventHandler(r *datum.Reader) (*EventHandler, error) {
	typ, err := r.ReadInt()
	if err != nil {
		return nil, WrapFormat(err, "event type")
	}
	argType, err := r.ReadInt()
	if err != nil {
		return nil, WrapFormat(err, "event argument type")
	}
	arg, err := r.ReadDatum()
	if err != nil {
		return nil, WrapFormat(err, "event argument")
	}
	h := &EventHandler{
		Type:    opcode.EventType(typ),
		ArgType: opcode.ArgumentType(argType),
		Arg:     arg,
	}

	// Handlers with an argument repeat the chunk length before the chunk.
	if h.ArgType != opcode.ArgumentNull {
		if _, err := r.ReadLength(); err != nil {
			return nil, WrapFormat(err, "event handler length")
		}
	}
	code, err := ParseCodeChunk(r)
	if err != nil {
		return nil, err
	}
	code.Name = h.String()
	h.Code = code
	return h, nil
}

// Threshold returns the Time handler's trigger point in milliseconds after
// playback starts. It is only meaningful for Time handlers.
func (h *EventHandler) Threshold() int64 {
	if h.ArgType != opcode.ArgumentTime {
		return 0
	}
	f, err := h.Arg.AsFloat()
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 1000))
}

// KeyCode returns the ASCII code of a KeyDown handler.
func (h *EventHandler) KeyCode() (byte, bool) {
	if h.ArgType != opcode.ArgumentAsciiCode {
		return 0, false
	}
	n, err := h.Arg.AsInt()
	if err != nil {
		return 0, false
	}
	return byte(n), true
}

// Execute runs the handler with no arguments.
func (h *EventHandler) Execute(rt *Runtime) error {
	_, err := h.Code.Execute(rt, nil)
	return err
}

func (h *EventHandler) String() string {
	switch h.ArgType {
	case opcode.ArgumentTime:
		return fmt.Sprintf("%s handler (%d ms)", h.Type, h.Threshold())
	case opcode.ArgumentAsciiCode, opcode.ArgumentContext:
		n, _ := h.Arg.AsInt()
		return fmt.Sprintf("%s handler (%s %d)", h.Type, h.ArgType, n)
	}
	return fmt.Sprintf("%s handler", h.Type)
}

// EventHandlers holds an asset's handlers in declaration order.
type EventHandlers struct {
	list []*EventHandler
}

// Add appends a handler.
func (s *EventHandlers) Add(h *EventHandler) {
	s.list = append(s.list, h)
}

// Len returns the number of handlers.
func (s *EventHandlers) Len() int {
	return len(s.list)
}

// All returns every handler in declaration order.
func (s *EventHandlers) All() []*EventHandler {
	return append([]*EventHandler(nil), s.list...)
}

// Get returns the first handler of the given type.
func (s *EventHandlers) Get(typ opcode.EventType) (*EventHandler, bool) {
	for _, h := range s.list {
		if h.Type == typ {
			return h, true
		}
	}
	return nil, false
}

// Has reports whether a handler of the given type exists.
func (s *EventHandlers) Has(typ opcode.EventType) bool {
	_, ok := s.Get(typ)
	return ok
}

// Key returns the KeyDown handler for an ASCII code.
func (s *EventHandlers) Key(code byte) (*EventHandler, bool) {
	for _, h := range s.list {
		if h.Type != opcode.EventKeyDown {
			continue
		}
		if c, ok := h.KeyCode(); ok && c == code {
			return h, true
		}
	}
	return nil, false
}

// TimeHandlers returns the Time handlers in declaration order.
func (s *EventHandlers) TimeHandlers() []*EventHandler {
	var out []*EventHandler
	for _, h := range s.list {
		if h.Type == opcode.EventTime {
			out = append(out, h)
		}
	}
	return out
}

// MaxThreshold returns the largest Time handler threshold, or 0.
func (s *EventHandlers) MaxThreshold() int64 {
	var max int64
	for _, h := range s.TimeHandlers() {
		if t := h.Threshold(); t > max {
			max = t
		}
	}
	return max
}

// Run executes the first handler of the given type. A missing handler is
// not an error.
func (s *EventHandlers) Run(rt *Runtime, typ opcode.EventType) error {
	h, ok := s.Get(typ)
	if !ok {
		rt.log.Debug("No handler for event", "event", typ)
		return nil
	}
	rt.log.Debug("Running event handler", "event", typ)
	return h.Execute(rt)
}
