package asset

import (
	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

// timeline is the playback clock shared by movies, sprites, sounds and
// timers. Times are milliseconds on the runtime's clock.
type timeline struct {
	self     vm.Playable
	handlers *vm.EventHandlers

	playing  bool
	start    int64
	last     int64
	duration int64
	run      int
}

func newTimeline(self vm.Playable, handlers *vm.EventHandlers) timeline {
	return timeline{self: self, handlers: handlers, last: -1}
}

// IsPlaying reports whether the clock is running.
func (t *timeline) IsPlaying() bool {
	return t.playing
}

// elapsed returns the time since start, or 0 when stopped.
func (t *timeline) elapsed(now int64) int64 {
	if !t.playing {
		return 0
	}
	return now - t.start
}

// begin starts the clock. It returns false, after logging, when the asset is
// already playing.
func (t *timeline) begin(rt *vm.Runtime, duration int64) bool {
	if t.playing {
		rt.Logger().Warn("Attempted to play an asset that is already playing", "id", t.self.ID(), "type", t.self.Type())
		return false
	}
	t.playing = true
	t.start = rt.Now()
	t.last = -1
	t.duration = duration
	t.run++
	rt.AddPlaying(t.self)
	return true
}

// advance runs the Time handlers whose threshold falls in
// (last, min(elapsed, duration)], in declaration order, and reports whether
// playback has run past its duration.
func (t *timeline) advance(rt *vm.Runtime, now int64) (bool, error) {
	if !t.playing {
		return false, nil
	}
	run := t.run
	elapsed := now - t.start
	horizon := elapsed
	if horizon > t.duration {
		horizon = t.duration
	}

	for _, h := range t.handlers.TimeHandlers() {
		threshold := h.Threshold()
		if threshold <= t.last || threshold > horizon {
			continue
		}
		rt.Logger().Debug("Running time handler", "id", t.self.ID(), "threshold", threshold, "elapsed", elapsed)
		if err := h.Execute(rt); err != nil {
			return false, err
		}
		// The handler stopped or restarted this asset.
		if !t.playing || t.run != run {
			return false, nil
		}
	}
	t.last = horizon
	return elapsed > t.duration, nil
}

// clear stops the clock without running any handler.
func (t *timeline) clear(rt *vm.Runtime) {
	t.playing = false
	t.start = 0
	t.last = -1
	rt.RemovePlaying(t.self)
}

// finish stops the clock, then runs the end handler. The clock is cleared
// first so the handler sees the asset as stopped.
func (t *timeline) finish(rt *vm.Runtime, end opcode.EventType) error {
	t.clear(rt)
	if end == 0 {
		return nil
	}
	return t.handlers.Run(rt, end)
}

// halt stops a playing asset and runs its stopped handler. Stopping an asset
// that is not playing logs a warning and does nothing.
func (t *timeline) halt(rt *vm.Runtime, stopped opcode.EventType) (bool, error) {
	if !t.playing {
		rt.Logger().Warn("Attempted to stop an asset that is not playing", "id", t.self.ID(), "type", t.self.Type())
		return false, nil
	}
	t.clear(rt)
	if stopped == 0 {
		return true, nil
	}
	return true, t.handlers.Run(rt, stopped)
}

// callTime handles the methods shared by every playable asset.
func callTime(rt *vm.Runtime, p vm.Playable, id opcode.BuiltIn) (vm.Operand, bool, error) {
	switch id {
	case opcode.TimePlay:
		return vm.Empty(), true, p.Play(rt)
	case opcode.TimeStop:
		return vm.Empty(), true, p.Stop(rt)
	case opcode.IsPlaying:
		return vm.NewBool(p.IsPlaying()), true, nil
	}
	return vm.Empty(), false, nil
}
