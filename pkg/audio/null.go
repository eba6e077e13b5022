package audio

import (
	"time"
)

// Null is a silent sink for headless runs. MIDI lengths are still computed
// so sound assets keep their timing.
type Null struct {
	// Started lists the ids passed to PlayPCM and PlayMIDI, in order.
	Started []uint32
}

func (n *Null) PlayPCM(id uint32, pcm []byte, sampleRate int) error {
	n.Started = append(n.Started, id)
	return nil
}

func (n *Null) PlayMIDI(id uint32, smf []byte) (time.Duration, error) {
	d, err := MIDILength(smf)
	if err != nil {
		return 0, err
	}
	n.Started = append(n.Started, id)
	return d, nil
}

func (n *Null) Stop(id uint32) {}
