package asset

import (
	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

// Sound plays a PCM or MIDI payload through the runtime's audio sink.
type Sound struct {
	base
	timeline
	pcm  []byte
	midi []byte
}

// NewSound creates a sound asset for SOUND, XSND and XSND_MIDI headers.
func NewSound(h *Header) *Sound {
	s := &Sound{base: base{header: h}}
	s.timeline = newTimeline(s, &h.Handlers)
	return s
}

// SetPCM sets an s16le mono payload.
func (a *Sound) SetPCM(pcm []byte) {
	a.pcm = pcm
	a.midi = nil
}

// SetMIDI sets a Standard MIDI File payload.
func (a *Sound) SetMIDI(smf []byte) {
	a.midi = smf
	a.pcm = nil
}

func (a *Sound) sampleRate() int {
	if a.header.SampleRate != 0 {
		return int(a.header.SampleRate)
	}
	return DefaultSampleRate
}

// PCMDuration returns the length of the PCM payload in milliseconds.
func (a *Sound) PCMDuration() int64 {
	return int64(len(a.pcm)/2) * 1000 / int64(a.sampleRate())
}

func (a *Sound) Play(rt *vm.Runtime) error {
	if a.playing {
		rt.Logger().Warn("Attempted to play an asset that is already playing", "id", a.ID(), "type", a.Type())
		return nil
	}
	duration, err := a.startPayload(rt)
	if err != nil {
		rt.Logger().Error("Sound failed to start", "id", a.ID(), "error", err)
		return a.handlers.Run(rt, opcode.EventSoundFailure)
	}
	a.begin(rt, duration)
	return a.handlers.Run(rt, opcode.EventSoundBegin)
}

// startPayload hands the payload to the sink and returns its duration.
func (a *Sound) startPayload(rt *vm.Runtime) (int64, error) {
	switch {
	case a.midi != nil:
		d, err := rt.Audio().PlayMIDI(a.ID(), a.midi)
		if err != nil {
			return 0, err
		}
		return d.Milliseconds(), nil
	case a.header.SoundEncoding == EncodingIMAADPCM:
		return 0, vm.NewUnsupportedError("sound %d: IMA ADPCM encoding", a.ID())
	case len(a.pcm) == 0:
		return 0, vm.NewResourceError("sound %d has no audio payload", a.ID())
	}
	if err := rt.Audio().PlayPCM(a.ID(), a.pcm, a.sampleRate()); err != nil {
		return 0, err
	}
	return a.PCMDuration(), nil
}

func (a *Sound) Stop(rt *vm.Runtime) error {
	if a.playing {
		rt.Audio().Stop(a.ID())
	}
	_, err := a.halt(rt, opcode.EventSoundStopped)
	return err
}

func (a *Sound) Process(rt *vm.Runtime, now int64) error {
	done, err := a.advance(rt, now)
	if err != nil || !done {
		return err
	}
	return a.finish(rt, opcode.EventSoundEnd)
}

func (a *Sound) CallMethod(rt *vm.Runtime, id opcode.BuiltIn, args []vm.Operand) (vm.Operand, error) {
	if v, ok, err := callTime(rt, a, id); ok {
		return v, err
	}
	return unsupported(a, id)
}
