package engine

import (
	"image"
	"sort"

	"github.com/zurustar/mediastation/pkg/asset"
	"github.com/zurustar/mediastation/pkg/opcode"
)

// hotspotAt returns the front-most active hotspot containing p. Lower z is
// nearer the viewer; ties go to the lower asset id.
func (e *Engine) hotspotAt(p image.Point) *asset.Hotspot {
	var hits []*asset.Hotspot
	for _, a := range e.rt.Assets() {
		if h, ok := a.(*asset.Hotspot); ok && h.Active() && h.Contains(p) {
			hits = append(hits, h)
		}
	}
	if len(hits) == 0 {
		return nil
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].ZIndex() < hits[j].ZIndex() })
	return hits[0]
}

// Click runs the MouseDown handler of the hotspot under (x, y).
func (e *Engine) Click(x, y int) error {
	h := e.hotspotAt(image.Pt(x, y))
	if h == nil {
		e.log.Debug("Click hit no hotspot", "x", x, "y", y)
		return nil
	}
	e.log.Debug("Hotspot clicked", "id", h.ID(), "x", x, "y", y)
	return h.Handlers().Run(e.rt, opcode.EventMouseDown)
}

// MouseUp runs the MouseUp handler of the hotspot under (x, y) when the
// button is released.
func (e *Engine) MouseUp(x, y int) error {
	h := e.hotspotAt(image.Pt(x, y))
	if h == nil {
		return nil
	}
	return h.Handlers().Run(e.rt, opcode.EventMouseUp)
}

// MouseMove tracks the hotspot under the pointer, running MouseExited on the
// one left and MouseEntered on the one entered.
func (e *Engine) MouseMove(x, y int) error {
	h := e.hotspotAt(image.Pt(x, y))
	if h == e.hovered {
		if h != nil {
			return h.Handlers().Run(e.rt, opcode.EventMouseMoved)
		}
		return nil
	}
	prev := e.hovered
	e.hovered = h
	if prev != nil {
		if err := prev.Handlers().Run(e.rt, opcode.EventMouseExited); err != nil {
			return err
		}
	}
	if h != nil {
		return h.Handlers().Run(e.rt, opcode.EventMouseEntered)
	}
	return nil
}

// Key runs the KeyDown handlers bound to code on every loaded asset, in id
// order.
func (e *Engine) Key(code byte) error {
	for _, a := range e.rt.Assets() {
		hs, ok := a.(asset.HandlerSet)
		if !ok {
			continue
		}
		h, ok := hs.Handlers().Key(code)
		if !ok {
			continue
		}
		e.log.Debug("Running key handler", "id", a.ID(), "key", code)
		if err := h.Execute(e.rt); err != nil {
			return err
		}
	}
	return nil
}
