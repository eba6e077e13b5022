package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/sinshu/go-meltysynth/meltysynth"
)

// midiStream renders a sequencer into 16-bit stereo for an audio player.
type midiStream struct {
	sequencer *meltysynth.MidiFileSequencer
	stopped   bool
	mu        sync.Mutex
}

func (s *midiStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		clear(p)
		return len(p), nil
	}
	samples := len(p) / 4
	if samples == 0 {
		return 0, nil
	}
	left := make([]float32, samples)
	right := make([]float32, samples)
	s.sequencer.Render(left, right)
	for i := range samples {
		l := int16(clamp(left[i], -1, 1) * 32767)
		r := int16(clamp(right[i], -1, 1) * 32767)
		binary.LittleEndian.PutUint16(p[i*4:], uint16(l))
		binary.LittleEndian.PutUint16(p[i*4+2:], uint16(r))
	}
	return samples * 4, nil
}

// Stop makes further reads return silence.
func (s *midiStream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// MIDILength returns the playing time of a Standard MIDI File.
func MIDILength(smf []byte) (time.Duration, error) {
	midi, err := meltysynth.NewMidiFile(bytes.NewReader(smf))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMIDIInvalidFormat, err)
	}
	return midi.GetLength(), nil
}
