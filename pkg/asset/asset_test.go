package asset

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/zurustar/mediastation/pkg/asm"
	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

const probeID = 99

// probe records the first argument of every moveTo call. Handlers call it
// to leave a trace.
type probe struct {
	marks []vm.Operand
}

func (p *probe) ID() uint32             { return probeID }
func (p *probe) Type() opcode.AssetType { return opcode.AssetImage }

func (p *probe) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	if id == opcode.SpatialMoveTo && len(args) > 0 {
		p.marks = append(p.marks, args[0])
	}
	return vm.Empty(), nil
}

func (p *probe) ints() []int64 {
	out := make([]int64, 0, len(p.marks))
	for _, m := range p.marks {
		if m.Kind() == vm.KindInt {
			out = append(out, m.Int())
		}
	}
	return out
}

// mark emits a call leaving tag in the probe.
func mark(tag int64) asm.Node {
	return asm.Method(opcode.SpatialMoveTo, asm.Asset(probeID), asm.Int(tag), asm.Int(0))
}

// drawRecorder is a compositor that remembers what was drawn.
type drawRecorder struct {
	at []image.Point
	z  []int
}

func (r *drawRecorder) Draw(_ image.Image, at image.Point, z int) {
	r.at = append(r.at, at)
	r.z = append(r.z, z)
}

func newTestRuntime(opts ...vm.Option) (*vm.Runtime, *probe) {
	rt := vm.NewRuntime(opts...)
	p := &probe{}
	rt.RegisterAsset(p)
	return rt, p
}

func mustLoad(t *testing.T, rt *vm.Runtime, header []byte) vm.Asset {
	t.Helper()
	a, err := Load(header)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	rt.RegisterAsset(a)
	return a
}

func frames(n int) []Frame {
	out := make([]Frame, n)
	for i := range out {
		out[i] = Frame{Index: i, Image: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	}
	return out
}

func equalInts(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind opcode.AssetType
		want any
	}{
		{opcode.AssetScreen, &Screen{}},
		{opcode.AssetStage, &Stage{}},
		{opcode.AssetCamera, &Camera{}},
		{opcode.AssetPath, &Path{}},
		{opcode.AssetSound, &Sound{}},
		{opcode.AssetXsndMidi, &Sound{}},
		{opcode.AssetTimer, &Timer{}},
		{opcode.AssetImage, &Image{}},
		{opcode.AssetCanvas, &Image{}},
		{opcode.AssetHotspot, &Hotspot{}},
		{opcode.AssetSprite, &Sprite{}},
		{opcode.AssetMovie, &Movie{}},
		{opcode.AssetPalette, &Palette{}},
		{opcode.AssetText, &Text{}},
		{opcode.AssetFont, &Document{}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			a, err := New(&Header{Type: tt.kind, ID: 7})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.ID() != 7 || a.Type() != tt.kind {
				t.Errorf("got id %d type %s", a.ID(), a.Type())
			}
			var ok bool
			switch tt.want.(type) {
			case *Screen:
				_, ok = a.(*Screen)
			case *Stage:
				_, ok = a.(*Stage)
			case *Camera:
				_, ok = a.(*Camera)
			case *Path:
				_, ok = a.(*Path)
			case *Sound:
				_, ok = a.(*Sound)
			case *Timer:
				_, ok = a.(*Timer)
			case *Image:
				_, ok = a.(*Image)
			case *Hotspot:
				_, ok = a.(*Hotspot)
			case *Sprite:
				_, ok = a.(*Sprite)
			case *Movie:
				_, ok = a.(*Movie)
			case *Palette:
				_, ok = a.(*Palette)
			case *Text:
				_, ok = a.(*Text)
			case *Document:
				_, ok = a.(*Document)
			}
			if !ok {
				t.Errorf("New(%s) returned %T", tt.kind, a)
			}
		})
	}

	t.Run("function headers are rejected", func(t *testing.T) {
		_, err := New(&Header{Type: opcode.AssetFunction})
		if !errors.Is(err, ErrFunctionAsset) {
			t.Errorf("expected ErrFunctionAsset, got %v", err)
		}
	})

	t.Run("unknown kinds are rejected", func(t *testing.T) {
		_, err := New(&Header{Type: opcode.AssetType(0x99)})
		if !errors.Is(err, ErrUnsupportedKind) {
			t.Errorf("expected ErrUnsupportedKind, got %v", err)
		}
	})
}

func TestUnsupportedMethods(t *testing.T) {
	rt := vm.NewRuntime()
	s := NewSound(&Header{Type: opcode.AssetSound, ID: 3})

	_, err := s.CallMethod(rt, opcode.SpatialShow, nil)
	if vm.ErrorTypeOf(err) != vm.ErrorTypeMismatch {
		t.Errorf("known method on wrong kind: expected TYPE, got %v", err)
	}

	_, err = s.CallMethod(rt, opcode.BuiltIn(9999), nil)
	if vm.ErrorTypeOf(err) != vm.ErrorUnsupported {
		t.Errorf("unknown method: expected UNSUPPORTED, got %v", err)
	}

	v, err := rt.CallMethod(s, opcode.BuiltIn(9999), nil)
	if err != nil || !v.IsEmpty() {
		t.Errorf("non-strict runtime should downgrade, got %v, %v", v, err)
	}
}

func TestTimerThresholds(t *testing.T) {
	t.Run("each threshold fires exactly once", func(t *testing.T) {
		rt, p := newTestRuntime()
		timer := mustLoad(t, rt, asm.NewHeader(1, opcode.AssetTimer, 10).
			Handler(asm.TimeHandler(0, mark(0))).
			Handler(asm.TimeHandler(1.0, mark(1000))).
			Handler(asm.TimeHandler(2.5, mark(2500))).
			Handler(asm.TimeHandler(3.0, mark(3000))).
			Bytes()).(*Timer)

		rt.SetNow(0)
		if err := timer.Play(rt); err != nil {
			t.Fatalf("play: %v", err)
		}
		for _, now := range []int64{0, 1000, 2400, 2600, 3000, 3001, 4000} {
			rt.SetNow(now)
			if err := timer.Process(rt, now); err != nil {
				t.Fatalf("process at %d: %v", now, err)
			}
		}
		if want := []int64{0, 1000, 2500, 3000}; !equalInts(p.ints(), want) {
			t.Errorf("fired %v, want %v", p.ints(), want)
		}
		if timer.IsPlaying() {
			t.Error("timer should stop after its last threshold")
		}
		if rt.IsRegisteredPlaying(timer) {
			t.Error("stopped timer still in the playing set")
		}
	})

	t.Run("play is idempotent", func(t *testing.T) {
		rt, p := newTestRuntime()
		timer := mustLoad(t, rt, asm.NewHeader(1, opcode.AssetTimer, 10).
			Handler(asm.TimeHandler(0, mark(1))).
			Bytes()).(*Timer)

		_ = timer.Play(rt)
		_ = timer.Play(rt)
		if n := len(rt.Playing()); n != 1 {
			t.Errorf("playing set has %d entries, want 1", n)
		}
		_ = timer.Process(rt, 0)
		if len(p.marks) != 1 {
			t.Errorf("handler fired %d times, want 1", len(p.marks))
		}
	})

	t.Run("stopping a stopped timer is a no-op", func(t *testing.T) {
		rt := vm.NewRuntime()
		timer := NewTimer(&Header{Type: opcode.AssetTimer, ID: 10})
		if err := timer.Stop(rt); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestThresholdWindowProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("every threshold up to the duration fires once whatever the tick spacing", prop.ForAll(
		func(step int) bool {
			rt, p := newTestRuntime()
			timer, err := Load(asm.NewHeader(1, opcode.AssetTimer, 10).
				Handler(asm.TimeHandler(0.25, mark(250))).
				Handler(asm.TimeHandler(0.5, mark(500))).
				Handler(asm.TimeHandler(1.2, mark(1200))).
				Bytes())
			if err != nil {
				return false
			}
			rt.RegisterAsset(timer)
			tm := timer.(*Timer)
			_ = tm.Play(rt)
			for now := int64(0); now <= 2000 && tm.IsPlaying(); now += int64(step) {
				if err := tm.Process(rt, now); err != nil {
					return false
				}
			}
			return equalInts(p.ints(), []int64{250, 500, 1200})
		},
		gen.IntRange(1, 700),
	))

	properties.TestingRun(t)
}

func TestSoundEnd(t *testing.T) {
	t.Run("end handler runs once when it stops the sound", func(t *testing.T) {
		rt, p := newTestRuntime()
		sound := mustLoad(t, rt, asm.NewHeader(1, opcode.AssetSound, 20).
			Handler(asm.EventHandler(opcode.EventSoundEnd,
				mark(1),
				asm.Method(opcode.TimeStop, asm.Asset(20)))).
			Handler(asm.EventHandler(opcode.EventSoundStopped, mark(2))).
			Bytes()).(*Sound)
		sound.SetPCM(make([]byte, 2*DefaultSampleRate))

		rt.SetNow(0)
		if err := sound.Play(rt); err != nil {
			t.Fatalf("play: %v", err)
		}
		for _, now := range []int64{500, 1000, 1001, 1500} {
			if err := sound.Process(rt, now); err != nil {
				t.Fatalf("process at %d: %v", now, err)
			}
		}
		if want := []int64{1}; !equalInts(p.ints(), want) {
			t.Errorf("fired %v, want %v", p.ints(), want)
		}
	})

	t.Run("explicit stop runs the stopped handler", func(t *testing.T) {
		rt, p := newTestRuntime()
		sound := mustLoad(t, rt, asm.NewHeader(1, opcode.AssetSound, 20).
			Handler(asm.EventHandler(opcode.EventSoundStopped, mark(2))).
			Bytes()).(*Sound)
		sound.SetPCM(make([]byte, 2*DefaultSampleRate))

		_ = sound.Play(rt)
		if err := sound.Stop(rt); err != nil {
			t.Fatalf("stop: %v", err)
		}
		_ = sound.Stop(rt)
		if want := []int64{2}; !equalInts(p.ints(), want) {
			t.Errorf("fired %v, want %v", p.ints(), want)
		}
	})

	t.Run("missing payload runs the failure handler", func(t *testing.T) {
		rt, p := newTestRuntime()
		sound := mustLoad(t, rt, asm.NewHeader(1, opcode.AssetSound, 20).
			Handler(asm.EventHandler(opcode.EventSoundFailure, mark(3))).
			Bytes()).(*Sound)

		if err := sound.Play(rt); err != nil {
			t.Fatalf("play: %v", err)
		}
		if sound.IsPlaying() {
			t.Error("failed sound should not be playing")
		}
		if want := []int64{3}; !equalInts(p.ints(), want) {
			t.Errorf("fired %v, want %v", p.ints(), want)
		}
	})

	t.Run("PCM duration follows the sample rate", func(t *testing.T) {
		s := NewSound(&Header{Type: opcode.AssetSound, ID: 1, SampleRate: 11025})
		s.SetPCM(make([]byte, 11025))
		if d := s.PCMDuration(); d != 500 {
			t.Errorf("got %d ms, want 500", d)
		}
	})
}

func TestSprite(t *testing.T) {
	t.Run("zero frame rate uses the default", func(t *testing.T) {
		s := NewSprite(&Header{Type: opcode.AssetSprite, ID: 30})
		s.SetFrames(frames(5))
		if s.FrameRate() != DefaultFrameRate {
			t.Errorf("got rate %d", s.FrameRate())
		}
		if d := s.Duration(); d != 500 {
			t.Errorf("got duration %d, want 500", d)
		}
	})

	t.Run("advances frames and keeps the last one", func(t *testing.T) {
		rt, p := newTestRuntime()
		s := mustLoad(t, rt, asm.NewHeader(1, opcode.AssetSprite, 30).
			Handler(asm.EventHandler(opcode.EventSpriteMovieEnd, mark(1))).
			Bytes()).(*Sprite)
		s.SetFrames(frames(5))

		_ = s.Play(rt)
		if !s.Visible() {
			t.Error("play should show the sprite")
		}
		_ = s.Process(rt, 250)
		if s.CurrentFrame() != 2 {
			t.Errorf("frame at 250ms = %d, want 2", s.CurrentFrame())
		}
		_ = s.Process(rt, 600)
		if s.CurrentFrame() != 4 || s.IsPlaying() {
			t.Errorf("after end: frame %d playing %v", s.CurrentFrame(), s.IsPlaying())
		}
		if len(p.marks) != 1 {
			t.Errorf("end handler fired %d times", len(p.marks))
		}

		rec := &drawRecorder{}
		s.Draw(rec)
		if len(rec.z) != 1 {
			t.Errorf("last frame should remain drawn, got %d draws", len(rec.z))
		}
	})

	t.Run("frames are drawn at their own origin", func(t *testing.T) {
		rt := vm.NewRuntime()
		s := NewSprite(&Header{
			Type:        opcode.AssetSprite,
			ID:          31,
			BoundingBox: image.Rect(100, 50, 140, 90),
		})
		fs := frames(2)
		fs[1].Origin = image.Pt(6, 3)
		s.SetFrames(fs)
		_ = s.Play(rt)

		rec := &drawRecorder{}
		s.Draw(rec)
		_ = s.Process(rt, rt.Now()+150)
		s.Draw(rec)
		want := []image.Point{image.Pt(100, 50), image.Pt(106, 53)}
		if len(rec.at) != 2 || rec.at[0] != want[0] || rec.at[1] != want[1] {
			t.Errorf("drawn at %v, want %v", rec.at, want)
		}
	})
}

func TestMovie(t *testing.T) {
	newMovie := func(t *testing.T, zs []int) *Movie {
		t.Helper()
		m := NewMovie(&Header{
			Type:        opcode.AssetMovie,
			ID:          40,
			BoundingBox: image.Rect(100, 50, 200, 150),
		})
		var fs []Frame
		var footers []Footer
		for i, z := range zs {
			fs = append(fs, Frame{Index: i, Image: image.NewRGBA(image.Rect(0, 0, 2, 2))})
			footers = append(footers, Footer{Index: i, Start: 0, End: 1000, Left: i, Z: z})
		}
		if err := m.SetFrames(fs, footers); err != nil {
			t.Fatalf("SetFrames: %v", err)
		}
		return m
	}

	t.Run("frames are drawn back to front and offset", func(t *testing.T) {
		rt := vm.NewRuntime()
		m := newMovie(t, []int{3, 1, 3, 2})
		_ = m.Play(rt)
		_ = m.Process(rt, 10)

		rec := &drawRecorder{}
		m.Draw(rec)
		wantZ := []int{3, 3, 2, 1}
		wantX := []int{100, 102, 103, 101}
		if len(rec.z) != len(wantZ) {
			t.Fatalf("got %d draws", len(rec.z))
		}
		for i := range wantZ {
			if rec.z[i] != wantZ[i] || rec.at[i].X != wantX[i] || rec.at[i].Y != 50 {
				t.Errorf("draw %d: z=%d at=%v", i, rec.z[i], rec.at[i])
			}
		}
	})

	t.Run("duration is the last frame end", func(t *testing.T) {
		m := newMovie(t, []int{1})
		if m.Duration() != 1000 {
			t.Errorf("got %d", m.Duration())
		}
	})

	t.Run("footer without a frame is a resource error", func(t *testing.T) {
		m := NewMovie(&Header{Type: opcode.AssetMovie, ID: 40})
		err := m.SetFrames([]Frame{{Index: 1}}, []Footer{{Index: 2, End: 100}})
		if vm.ErrorTypeOf(err) != vm.ErrorResource {
			t.Errorf("expected RESOURCE, got %v", err)
		}
	})

	t.Run("begin and end handlers", func(t *testing.T) {
		rt, p := newTestRuntime()
		m := mustLoad(t, rt, asm.NewHeader(1, opcode.AssetMovie, 41).
			Handler(asm.EventHandler(opcode.EventMovieBegin, mark(1))).
			Handler(asm.EventHandler(opcode.EventMovieEnd, mark(2))).
			Bytes()).(*Movie)
		_ = m.SetFrames([]Frame{{Index: 0}}, []Footer{{Index: 0, End: 100}})

		_ = m.Play(rt)
		for _, now := range []int64{50, 101, 200} {
			_ = m.Process(rt, now)
		}
		if want := []int64{1, 2}; !equalInts(p.ints(), want) {
			t.Errorf("fired %v, want %v", p.ints(), want)
		}
		if len(m.ActiveFrames()) != 0 {
			t.Error("finished movie should have no active frames")
		}
	})
}

func TestPath(t *testing.T) {
	t.Run("steps report percent complete", func(t *testing.T) {
		rt, p := newTestRuntime()
		path := mustLoad(t, rt, asm.NewHeader(1, opcode.AssetPath, 50).
			Int(opcode.SectionStepRate, 10).
			Int(opcode.SectionDuration, 1000).
			Handler(asm.EventHandler(opcode.EventPathStep,
				asm.Method(opcode.SpatialMoveTo, asm.Asset(probeID),
					asm.Method(opcode.PercentComplete, asm.Asset(50)), asm.Int(0)))).
			Handler(asm.EventHandler(opcode.EventPathEnd, mark(-1))).
			Bytes()).(*Path)

		if err := path.Play(rt); err != nil {
			t.Fatalf("play: %v", err)
		}
		if len(p.marks) != 11 {
			t.Fatalf("got %d marks, want 10 steps and an end", len(p.marks))
		}
		for i := 0; i < 10; i++ {
			got := p.marks[i].Float()
			if want := float64(i+1) / 10; math.Abs(got-want) > 1e-9 {
				t.Errorf("step %d: percent %v, want %v", i, got, want)
			}
		}
		if path.PercentComplete() != 0 || path.IsPlaying() {
			t.Error("path should reset after play")
		}
	})

	t.Run("zero step rate is a resource error", func(t *testing.T) {
		rt := vm.NewRuntime()
		path := NewPath(&Header{Type: opcode.AssetPath, ID: 50, Duration: 1000})
		if err := path.Play(rt); vm.ErrorTypeOf(err) != vm.ErrorResource {
			t.Errorf("expected RESOURCE, got %v", err)
		}
	})

	t.Run("stop from the step handler aborts", func(t *testing.T) {
		rt, p := newTestRuntime()
		path := mustLoad(t, rt, asm.NewHeader(1, opcode.AssetPath, 50).
			Int(opcode.SectionStepRate, 10).
			Int(opcode.SectionDuration, 1000).
			Handler(asm.EventHandler(opcode.EventPathStep,
				mark(1),
				asm.Method(opcode.TimeStop, asm.Asset(50)))).
			Handler(asm.EventHandler(opcode.EventPathStopped, mark(2))).
			Handler(asm.EventHandler(opcode.EventPathEnd, mark(3))).
			Bytes()).(*Path)

		if err := path.Play(rt); err != nil {
			t.Fatalf("play: %v", err)
		}
		if want := []int64{1, 2}; !equalInts(p.ints(), want) {
			t.Errorf("fired %v, want %v", p.ints(), want)
		}
	})

	t.Run("setDuration changes the step count", func(t *testing.T) {
		rt := vm.NewRuntime()
		path := NewPath(&Header{Type: opcode.AssetPath, ID: 50, StepRate: 10, Duration: 1000})
		if _, err := path.CallMethod(rt, opcode.SetDuration, []vm.Operand{vm.NewInt(300)}); err != nil {
			t.Fatalf("setDuration: %v", err)
		}
		if path.duration != 300 {
			t.Errorf("got duration %d", path.duration)
		}
	})
}

func TestSpatialMethods(t *testing.T) {
	rt := vm.NewRuntime()
	img := NewImage(&Header{Type: opcode.AssetImage, ID: 60, BoundingBox: image.Rect(10, 20, 40, 60), ZIndex: 5})

	call := func(id opcode.BuiltIn, args ...vm.Operand) vm.Operand {
		t.Helper()
		v, err := img.CallMethod(rt, id, args)
		if err != nil {
			t.Fatalf("%s: %v", id, err)
		}
		return v
	}

	if call(opcode.IsVisible).Truthy() {
		t.Error("image without startup should be hidden")
	}
	call(opcode.SpatialShow)
	call(opcode.SpatialMoveTo, vm.NewInt(100), vm.NewInt(200))
	call(opcode.SpatialMoveToByOffset, vm.NewInt(-10), vm.NewInt(5))
	call(opcode.SpatialZMoveTo, vm.NewInt(2))

	tests := []struct {
		id   opcode.BuiltIn
		want int64
	}{
		{opcode.XPosition, 90},
		{opcode.YPosition, 205},
		{opcode.Width, 30},
		{opcode.Height, 40},
		{opcode.ZIndex, 2},
	}
	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			if got := call(tt.id).Int(); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("draws only with a bitmap", func(t *testing.T) {
		rec := &drawRecorder{}
		img.Draw(rec)
		img.SetBitmap(image.NewRGBA(image.Rect(0, 0, 30, 40)))
		img.Draw(rec)
		if len(rec.at) != 1 || rec.at[0] != image.Pt(90, 205) || rec.z[0] != 2 {
			t.Errorf("got draws at %v z %v", rec.at, rec.z)
		}
	})

	t.Run("wrong argument count", func(t *testing.T) {
		_, err := img.CallMethod(rt, opcode.SpatialMoveTo, []vm.Operand{vm.NewInt(1)})
		if err == nil {
			t.Error("expected an argument error")
		}
	})
}

func TestHotspot(t *testing.T) {
	t.Run("rectangle hit test", func(t *testing.T) {
		h := NewHotspot(&Header{Type: opcode.AssetHotspot, ID: 70, BoundingBox: image.Rect(0, 0, 10, 10)})
		if !h.Active() {
			t.Error("hotspots start active")
		}
		if !h.Contains(image.Pt(5, 5)) || h.Contains(image.Pt(15, 5)) {
			t.Error("rectangle containment is wrong")
		}
	})

	t.Run("polygon follows the hotspot", func(t *testing.T) {
		h := NewHotspot(&Header{
			Type:            opcode.AssetHotspot,
			ID:              70,
			BoundingBox:     image.Rect(0, 0, 10, 10),
			MouseActiveArea: []image.Point{{0, 0}, {10, 0}, {0, 10}},
		})
		if !h.Contains(image.Pt(2, 2)) || h.Contains(image.Pt(8, 8)) {
			t.Error("triangle containment is wrong")
		}
		h.MoveTo(image.Pt(100, 100))
		if !h.Contains(image.Pt(102, 102)) || h.Contains(image.Pt(2, 2)) {
			t.Error("moved triangle containment is wrong")
		}
	})

	t.Run("activation methods", func(t *testing.T) {
		rt := vm.NewRuntime()
		h := NewHotspot(&Header{Type: opcode.AssetHotspot, ID: 70})
		_, _ = h.CallMethod(rt, opcode.MouseDeactivate, nil)
		v, _ := h.CallMethod(rt, opcode.IsActive, nil)
		if v.Truthy() || h.Active() {
			t.Error("hotspot should be inactive")
		}
	})
}

func TestText(t *testing.T) {
	rt := vm.NewRuntime()
	txt := NewText(&Header{Type: opcode.AssetText, ID: 80, Startup: true})
	if _, err := txt.CallMethod(rt, opcode.SetText, []vm.Operand{vm.NewString("Hello")}); err != nil {
		t.Fatalf("setText: %v", err)
	}
	v, _ := txt.CallMethod(rt, opcode.Text, nil)
	if v.Text() != "Hello" {
		t.Errorf("got %q", v.Text())
	}
	if _, err := txt.CallMethod(rt, opcode.SetText, []vm.Operand{vm.NewInt(1)}); vm.ErrorTypeOf(err) != vm.ErrorTypeMismatch {
		t.Errorf("expected TYPE error, got %v", err)
	}

	rec := &drawRecorder{}
	txt.Draw(rec)
	if len(rec.z) != 1 {
		t.Errorf("got %d draws", len(rec.z))
	}
}

// viewportRecorder also accepts viewport changes.
type viewportRecorder struct {
	drawRecorder
	origin image.Point
}

func (r *viewportRecorder) SetViewport(p image.Point) { r.origin = p }

func TestCamera(t *testing.T) {
	rec := &viewportRecorder{}
	rt := vm.NewRuntime(vm.WithCompositor(rec))
	cam := NewCamera(&Header{Type: opcode.AssetCamera, ID: 90, ViewportOrigin: image.Pt(3, 4)})

	v, _ := cam.CallMethod(rt, opcode.XViewportPosition, nil)
	if v.Int() != 3 {
		t.Errorf("initial x = %d", v.Int())
	}
	if _, err := cam.CallMethod(rt, opcode.PanTo, []vm.Operand{vm.NewInt(40), vm.NewInt(50)}); err != nil {
		t.Fatalf("panTo: %v", err)
	}
	v, _ = cam.CallMethod(rt, opcode.YViewportPosition, nil)
	if v.Int() != 50 || rec.origin != image.Pt(40, 50) {
		t.Errorf("viewport y = %d, compositor origin %v", v.Int(), rec.origin)
	}
}

func TestScreenPalette(t *testing.T) {
	rt := vm.NewRuntime()
	pal := NewPalette(&Header{Type: opcode.AssetPalette, ID: 5, Palette: blackAndWhite})
	rt.RegisterAsset(pal)

	own := NewScreen(&Header{Type: opcode.AssetScreen, ID: 1, Palette: blackAndWhite[:1]})
	if len(own.Palette(rt)) != 1 {
		t.Error("screen should prefer its own palette")
	}
	ref := NewScreen(&Header{Type: opcode.AssetScreen, ID: 2, AssetReference: 5})
	if len(ref.Palette(rt)) != 2 {
		t.Error("screen should use the referenced palette")
	}
	missing := NewScreen(&Header{Type: opcode.AssetScreen, ID: 3, AssetReference: 6})
	if missing.Palette(rt) != nil {
		t.Error("missing palette should be nil")
	}
}
