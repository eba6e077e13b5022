package asset

import (
	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

// Path runs its step handler a fixed number of times when played. Paths are
// used for palette animation and play synchronously inside the calling
// script.
type Path struct {
	base
	duration int64
	stepRate uint32
	percent  float64
	playing  bool
	stopped  bool
}

// NewPath creates a path.
func NewPath(h *Header) *Path {
	return &Path{base: base{header: h}, duration: int64(h.Duration), stepRate: h.StepRate}
}

// PercentComplete returns the progress of the current play, or 0.
func (a *Path) PercentComplete() float64 { return a.percent }

// SetDuration changes the play length in milliseconds.
func (a *Path) SetDuration(ms int64) { a.duration = ms }

func (a *Path) IsPlaying() bool { return a.playing }

func (a *Path) Play(rt *vm.Runtime) error {
	if a.playing {
		rt.Logger().Warn("Attempted to play an asset that is already playing", "id", a.ID(), "type", a.Type())
		return nil
	}
	if a.stepRate == 0 {
		return vm.NewResourceError("path %d has a zero step rate", a.ID())
	}
	if a.duration == 0 {
		rt.Logger().Warn("Path has zero duration", "id", a.ID())
	}
	total := a.duration * int64(a.stepRate) / 1000
	rt.Logger().Debug("Playing path", "id", a.ID(), "duration", a.duration, "steps", total)

	a.playing = true
	a.stopped = false
	a.percent = 0
	defer func() {
		a.playing = false
		a.percent = 0
	}()

	for i := int64(0); i < total; i++ {
		a.percent = float64(i+1) / float64(total)
		if err := a.header.Handlers.Run(rt, opcode.EventPathStep); err != nil {
			return err
		}
		if a.stopped {
			return a.header.Handlers.Run(rt, opcode.EventPathStopped)
		}
	}
	return a.header.Handlers.Run(rt, opcode.EventPathEnd)
}

// Stop aborts a play in progress after the current step.
func (a *Path) Stop(rt *vm.Runtime) error {
	if !a.playing {
		rt.Logger().Warn("Attempted to stop an asset that is not playing", "id", a.ID(), "type", a.Type())
		return nil
	}
	a.stopped = true
	return nil
}

// Process does nothing; paths finish inside Play.
func (a *Path) Process(*vm.Runtime, int64) error { return nil }

func (a *Path) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	switch id {
	case opcode.SetDuration:
		if err := vm.CheckArgs(id, args, 1, 1); err != nil {
			return vm.Empty(), err
		}
		ms, err := vm.IntArg(id, args, 0)
		if err != nil {
			return vm.Empty(), err
		}
		a.SetDuration(ms)
		return vm.Empty(), nil
	case opcode.PercentComplete:
		return vm.NewFloat(a.percent), nil
	}
	if v, ok, err := callTime(rt, a, id); ok {
		return v, err
	}
	return unsupported(a, id)
}
