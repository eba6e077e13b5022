package engine

import (
	"sort"

	"github.com/zurustar/mediastation/pkg/vm"
)

// FrameCompositor is implemented by compositors that collect one frame of
// draw calls at a time.
type FrameCompositor interface {
	vm.Compositor
	BeginFrame()
}

// Scheduler advances playing assets and redraws the scene once per host
// frame.
type Scheduler struct {
	rt *vm.Runtime
}

// NewScheduler creates a scheduler over rt.
func NewScheduler(rt *vm.Runtime) *Scheduler {
	return &Scheduler{rt: rt}
}

func zIndex(a any) int {
	if l, ok := a.(vm.Layered); ok {
		return l.ZIndex()
	}
	return 0
}

// Tick processes every asset playing at the start of the tick, back to
// front, then draws the visible assets. now is in milliseconds. Processing
// continues past errors; the first fatal one is returned.
func (s *Scheduler) Tick(now int64) error {
	s.rt.SetNow(now)

	playing := s.rt.Playing()
	sort.SliceStable(playing, func(i, j int) bool { return zIndex(playing[i]) > zIndex(playing[j]) })

	var first error
	for _, p := range playing {
		if !s.rt.IsRegisteredPlaying(p) {
			// Stopped by an earlier asset's handler during this tick.
			continue
		}
		if err := p.Process(s.rt, now); err != nil {
			if vm.IsFatal(err) {
				s.rt.Logger().Error("Asset processing failed", "id", p.ID(), "type", p.Type(), "error", err)
				if first == nil {
					first = err
				}
			} else {
				s.rt.Logger().Warn("Asset processing", "id", p.ID(), "type", p.Type(), "error", err)
			}
		}
		if !p.IsPlaying() {
			s.rt.RemovePlaying(p)
		}
	}

	s.draw()
	return first
}

// draw paints every drawable asset, higher z first.
func (s *Scheduler) draw() {
	c := s.rt.Compositor()
	if fc, ok := c.(FrameCompositor); ok {
		fc.BeginFrame()
	}
	var drawables []vm.Drawable
	for _, a := range s.rt.Assets() {
		if d, ok := a.(vm.Drawable); ok {
			drawables = append(drawables, d)
		}
	}
	sort.SliceStable(drawables, func(i, j int) bool { return drawables[i].ZIndex() > drawables[j].ZIndex() })
	for _, d := range drawables {
		d.Draw(c)
	}
}
