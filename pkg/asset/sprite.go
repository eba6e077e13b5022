package asset

import (
	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

// DefaultFrameRate replaces a zero sprite frame rate.
const DefaultFrameRate = 10

// Sprite is a frame-by-frame animation drawn at its bounds. The last frame
// stays on screen when playback ends.
type Sprite struct {
	base
	spatial
	timeline
	frames  []Frame
	rate    uint32
	current int
}

// NewSprite creates a sprite.
func NewSprite(h *Header) *Sprite {
	s := &Sprite{base: base{header: h}, spatial: newSpatial(h), rate: h.FrameRate}
	if s.rate == 0 {
		s.rate = DefaultFrameRate
	}
	s.timeline = newTimeline(s, &h.Handlers)
	return s
}

// SetFrames replaces the animation frames and rewinds to the first one.
func (a *Sprite) SetFrames(frames []Frame) {
	a.frames = frames
	a.current = 0
}

// FrameRate returns the effective frame rate.
func (a *Sprite) FrameRate() uint32 { return a.rate }

// Duration returns the length of one pass through the frames in
// milliseconds.
func (a *Sprite) Duration() int64 {
	return int64(float64(len(a.frames)) / float64(a.rate) * 1000)
}

// CurrentFrame returns the index of the frame on screen.
func (a *Sprite) CurrentFrame() int { return a.current }

func (a *Sprite) Play(rt *vm.Runtime) error {
	if !a.begin(rt, a.Duration()) {
		return nil
	}
	a.current = 0
	a.visible = true
	return nil
}

func (a *Sprite) Stop(rt *vm.Runtime) error {
	_, err := a.halt(rt, 0)
	return err
}

func (a *Sprite) Process(rt *vm.Runtime, now int64) error {
	if !a.playing {
		return nil
	}
	if n := len(a.frames); n > 0 {
		i := int(a.elapsed(now) * int64(a.rate) / 1000)
		if i >= n {
			i = n - 1
		}
		a.current = i
	}
	done, err := a.advance(rt, now)
	if err != nil || !done {
		return err
	}
	return a.finish(rt, opcode.EventSpriteMovieEnd)
}

// Draw paints the current frame at its own origin inside the sprite's
// bounds.
func (a *Sprite) Draw(c vm.Compositor) {
	if !a.visible || a.current >= len(a.frames) {
		return
	}
	f := a.frames[a.current]
	if f.Image == nil {
		return
	}
	c.Draw(f.Image, a.bounds.Min.Add(f.Origin), a.z)
}

func (a *Sprite) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	if v, ok, err := callTime(rt, a, id); ok {
		return v, err
	}
	if v, ok, err := a.callSpatial(id, args); ok {
		return v, err
	}
	return unsupported(a, id)
}
