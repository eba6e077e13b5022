package asset

import (
	"image"

	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

// viewport is the scroll position shared by cameras and stages.
type viewport struct {
	origin image.Point
}

// Viewport returns the scroll origin.
func (v *viewport) Viewport() image.Point { return v.origin }

func (v *viewport) moveViewport(rt *vm.Runtime, p image.Point) {
	v.origin = p
	if s, ok := rt.Compositor().(vm.ViewportSetter); ok {
		s.SetViewport(p)
	}
}

// callViewport handles the viewport methods. Panning is applied at once.
func (v *viewport) callViewport(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, bool, error) {
	switch id {
	case opcode.ViewportMoveTo, opcode.PanTo:
		p, err := pointArgs(id, args)
		if err != nil {
			return vm.Empty(), true, err
		}
		v.moveViewport(rt, p)
		return vm.Empty(), true, nil
	case opcode.XViewportPosition:
		return vm.NewInt(int64(v.origin.X)), true, nil
	case opcode.YViewportPosition:
		return vm.NewInt(int64(v.origin.Y)), true, nil
	}
	return vm.Empty(), false, nil
}

// Camera scrolls the view over a stage.
type Camera struct {
	base
	viewport
}

// NewCamera creates a camera.
func NewCamera(h *Header) *Camera {
	return &Camera{base: base{header: h}, viewport: viewport{origin: h.ViewportOrigin}}
}

func (a *Camera) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	if v, ok, err := a.callViewport(rt, id, args); ok {
		return v, err
	}
	return unsupported(a, id)
}

// Stage is a scrollable area that other assets are placed on.
type Stage struct {
	base
	spatial
	viewport
}

// NewStage creates a stage.
func NewStage(h *Header) *Stage {
	return &Stage{base: base{header: h}, spatial: newSpatial(h), viewport: viewport{origin: h.ViewportOrigin}}
}

func (a *Stage) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	if v, ok, err := a.callViewport(rt, id, args); ok {
		return v, err
	}
	if v, ok, err := a.callSpatial(id, args); ok {
		return v, err
	}
	return unsupported(a, id)
}
