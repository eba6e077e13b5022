package asset

import (
	"image"
	"sort"

	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

// movieFrame is a frame bitmap joined with its footer.
type movieFrame struct {
	image image.Image
	Footer
}

// Movie plays timed frames with an optional PCM soundtrack.
type Movie struct {
	base
	spatial
	timeline
	frames []movieFrame
	active []movieFrame
	audio  []byte
}

// NewMovie creates a movie.
func NewMovie(h *Header) *Movie {
	m := &Movie{base: base{header: h}, spatial: newSpatial(h)}
	m.timeline = newTimeline(m, &h.Handlers)
	return m
}

// SetFrames joins frames with their footers. A footer whose index matches
// no frame is a RESOURCE error.
func (a *Movie) SetFrames(frames []Frame, footers []Footer) error {
	byIndex := make(map[int]image.Image, len(frames))
	for _, f := range frames {
		byIndex[f.Index] = f.Image
	}
	joined := make([]movieFrame, 0, len(footers))
	for _, ft := range footers {
		img, ok := byIndex[ft.Index]
		if !ok {
			return vm.NewResourceError("movie %d: footer references missing frame %d", a.ID(), ft.Index)
		}
		joined = append(joined, movieFrame{image: img, Footer: ft})
	}
	a.frames = joined
	a.active = nil
	return nil
}

// SetAudio sets the s16le soundtrack.
func (a *Movie) SetAudio(pcm []byte) { a.audio = pcm }

// Duration returns the end time of the last frame in milliseconds.
func (a *Movie) Duration() int64 {
	var d int64
	for _, f := range a.frames {
		if f.End > d {
			d = f.End
		}
	}
	return d
}

func (a *Movie) Play(rt *vm.Runtime) error {
	if !a.begin(rt, a.Duration()) {
		return nil
	}
	a.visible = true
	a.active = nil
	if len(a.audio) > 0 {
		if err := rt.Audio().PlayPCM(a.ID(), a.audio, DefaultSampleRate); err != nil {
			rt.Logger().Warn("Movie soundtrack failed", "id", a.ID(), "error", err)
		}
	}
	return a.handlers.Run(rt, opcode.EventMovieBegin)
}

func (a *Movie) Stop(rt *vm.Runtime) error {
	if a.playing && len(a.audio) > 0 {
		rt.Audio().Stop(a.ID())
	}
	a.active = nil
	_, err := a.halt(rt, opcode.EventMovieStopped)
	return err
}

func (a *Movie) Process(rt *vm.Runtime, now int64) error {
	if !a.playing {
		return nil
	}
	elapsed := a.elapsed(now)
	a.active = a.active[:0]
	for _, f := range a.frames {
		if f.Start <= elapsed && elapsed < f.End {
			a.active = append(a.active, f)
		}
	}
	sort.SliceStable(a.active, func(i, j int) bool { return a.active[i].Z > a.active[j].Z })

	done, err := a.advance(rt, now)
	if err != nil || !done {
		return err
	}
	a.active = nil
	return a.finish(rt, opcode.EventMovieEnd)
}

// ActiveFrames returns the footers of the frames on screen, back to front.
func (a *Movie) ActiveFrames() []Footer {
	out := make([]Footer, len(a.active))
	for i, f := range a.active {
		out[i] = f.Footer
	}
	return out
}

// Draw paints the active frames back to front, offset by the movie's
// position.
func (a *Movie) Draw(c vm.Compositor) {
	if !a.visible {
		return
	}
	for _, f := range a.active {
		if f.image == nil {
			continue
		}
		c.Draw(f.image, a.bounds.Min.Add(image.Pt(f.Left, f.Top)), f.Z)
	}
}

func (a *Movie) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	if v, ok, err := callTime(rt, a, id); ok {
		return v, err
	}
	if v, ok, err := a.callSpatial(id, args); ok {
		return v, err
	}
	return unsupported(a, id)
}
