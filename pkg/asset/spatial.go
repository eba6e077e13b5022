package asset

import (
	"image"

	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

// spatial is the on-screen placement shared by visible assets.
type spatial struct {
	bounds  image.Rectangle
	z       int
	visible bool
}

func newSpatial(h *Header) spatial {
	bounds := h.BoundingBox
	if bounds.Empty() && (h.X != 0 || h.Y != 0) {
		bounds = image.Rectangle{Min: image.Pt(h.X, h.Y), Max: image.Pt(h.X, h.Y)}
	}
	return spatial{bounds: bounds, z: h.ZIndex, visible: h.Startup}
}

// ZIndex returns the drawing layer. Higher values are further back.
func (s *spatial) ZIndex() int { return s.z }

// Visible reports whether the asset is shown.
func (s *spatial) Visible() bool { return s.visible }

// Bounds returns the asset's rectangle in screen coordinates.
func (s *spatial) Bounds() image.Rectangle { return s.bounds }

// Show makes the asset visible.
func (s *spatial) Show() { s.visible = true }

// Hide makes the asset invisible.
func (s *spatial) Hide() { s.visible = false }

// MoveTo places the top-left corner at p, keeping the size.
func (s *spatial) MoveTo(p image.Point) {
	s.bounds = s.bounds.Add(p.Sub(s.bounds.Min))
}

// callSpatial handles the spatial methods. The bool result reports whether
// id was one of them.
func (s *spatial) callSpatial(id opcode.BuiltIn, args []vm.Operand) (vm.Operand, bool, error) {
	switch id {
	case opcode.SpatialShow:
		s.Show()
		return vm.Empty(), true, nil
	case opcode.SpatialHide:
		s.Hide()
		return vm.Empty(), true, nil

	case opcode.SpatialMoveTo, opcode.SpatialMoveToByOffset:
		p, err := pointArgs(id, args)
		if err != nil {
			return vm.Empty(), true, err
		}
		if id == opcode.SpatialMoveToByOffset {
			p = s.bounds.Min.Add(p)
		}
		s.MoveTo(p)
		return vm.Empty(), true, nil

	case opcode.SpatialZMoveTo:
		if err := vm.CheckArgs(id, args, 1, 1); err != nil {
			return vm.Empty(), true, err
		}
		z, err := vm.IntArg(id, args, 0)
		if err != nil {
			return vm.Empty(), true, err
		}
		s.z = int(z)
		return vm.Empty(), true, nil

	case opcode.XPosition:
		return vm.NewInt(int64(s.bounds.Min.X)), true, nil
	case opcode.YPosition:
		return vm.NewInt(int64(s.bounds.Min.Y)), true, nil
	case opcode.Width:
		return vm.NewInt(int64(s.bounds.Dx())), true, nil
	case opcode.Height:
		return vm.NewInt(int64(s.bounds.Dy())), true, nil
	case opcode.ZIndex:
		return vm.NewInt(int64(s.z)), true, nil
	case opcode.IsVisible:
		return vm.NewBool(s.visible), true, nil
	}
	return vm.Empty(), false, nil
}

func pointArgs(id opcode.BuiltIn, args []vm.Operand) (image.Point, error) {
	if err := vm.CheckArgs(id, args, 2, 2); err != nil {
		return image.Point{}, err
	}
	x, err := vm.IntArg(id, args, 0)
	if err != nil {
		return image.Point{}, err
	}
	y, err := vm.IntArg(id, args, 1)
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(int(x), int(y)), nil
}
