package asset

import (
	"image"

	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

// Hotspot is an invisible clickable region.
type Hotspot struct {
	base
	spatial
	area   []image.Point
	origin image.Point
	active bool
}

// NewHotspot creates a hotspot. It is active unless deactivated by script.
func NewHotspot(h *Header) *Hotspot {
	s := newSpatial(h)
	return &Hotspot{
		base:    base{header: h},
		spatial: s,
		area:    h.MouseActiveArea,
		origin:  s.bounds.Min,
		active:  true,
	}
}

// Active reports whether the hotspot accepts mouse events.
func (a *Hotspot) Active() bool { return a.active }

// Contains reports whether p is inside the hotspot. The mouse active area
// polygon is used when present and follows the hotspot when it moves.
func (a *Hotspot) Contains(p image.Point) bool {
	if len(a.area) < 3 {
		return p.In(a.bounds)
	}
	p = p.Sub(a.bounds.Min.Sub(a.origin))
	inside := false
	for i, j := 0, len(a.area)-1; i < len(a.area); j, i = i, i+1 {
		pi, pj := a.area[i], a.area[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

func (a *Hotspot) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	switch id {
	case opcode.MouseActivate:
		a.active = true
		return vm.Empty(), nil
	case opcode.MouseDeactivate:
		a.active = false
		return vm.Empty(), nil
	case opcode.IsActive:
		return vm.NewBool(a.active), nil
	}
	if v, ok, err := a.callSpatial(id, args); ok {
		return v, err
	}
	return unsupported(a, id)
}
