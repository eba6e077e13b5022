// Package audio plays sound assets: s16le PCM through Ebitengine/audio and
// Standard MIDI Files rendered with go-meltysynth.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/sinshu/go-meltysynth/meltysynth"

	"github.com/zurustar/mediastation/pkg/logger"
)

// SampleRate is the output sample rate of the audio context.
const SampleRate = 44100

var (
	// ErrNoSoundFont is returned when a SoundFont is required but none was
	// given.
	ErrNoSoundFont = errors.New("SoundFont file is required for MIDI playback")

	// ErrSoundFontNotFound is returned when the SoundFont file cannot be
	// found.
	ErrSoundFontNotFound = errors.New("SoundFont file not found")

	// ErrMIDIInvalidFormat is returned for payloads that are not SMF.
	ErrMIDIInvalidFormat = errors.New("invalid MIDI file format")
)

var (
	sharedCtx   *audio.Context
	sharedCtxMu sync.Mutex
)

// sharedContext returns the process-wide audio context. Ebitengine allows only
// one.
func sharedContext() *audio.Context {
	sharedCtxMu.Lock()
	defer sharedCtxMu.Unlock()
	if sharedCtx == nil {
		sharedCtx = audio.NewContext(SampleRate)
	}
	return sharedCtx
}

// Sink plays sounds keyed by asset id. Starting an id that is already
// playing replaces the old player.
type Sink struct {
	ctx       *audio.Context
	soundFont *meltysynth.SoundFont
	players   map[uint32]*audio.Player
	streams   map[uint32]*midiStream
	muted     bool
	log       *slog.Logger
	mu        sync.Mutex
}

// NewSink creates a sink. An empty soundFontPath is allowed: MIDI sounds
// then keep their timing but are silent.
func NewSink(soundFontPath string) (*Sink, error) {
	s := &Sink{
		ctx:     sharedContext(),
		players: make(map[uint32]*audio.Player),
		streams: make(map[uint32]*midiStream),
		log:     logger.GetLogger().With("component", "audio"),
	}
	if soundFontPath == "" {
		s.log.Warn("No SoundFont; MIDI sounds will be silent")
		return s, nil
	}
	if err := s.LoadSoundFont(soundFontPath); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSoundFont loads a .sf2 file for MIDI synthesis.
func (s *Sink) LoadSoundFont(path string) error {
	if path == "" {
		return ErrNoSoundFont
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSoundFontNotFound, path)
		}
		return fmt.Errorf("failed to read SoundFont file: %w", err)
	}
	sf, err := meltysynth.NewSoundFont(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse SoundFont: %w", err)
	}
	s.mu.Lock()
	s.soundFont = sf
	s.mu.Unlock()
	s.log.Info("Loaded SoundFont", "path", path)
	return nil
}

// SetMuted silences current and future playback.
func (s *Sink) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
	for _, p := range s.players {
		p.SetVolume(volume(muted))
	}
}

func volume(muted bool) float64 {
	if muted {
		return 0
	}
	return 1
}

// PlayPCM plays 16-bit little-endian mono samples at sampleRate.
func (s *Sink) PlayPCM(id uint32, pcm []byte, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sound %d: invalid sample rate %d", id, sampleRate)
	}
	stereo := monoToStereo(pcm)
	var src io.Reader = bytes.NewReader(stereo)
	if sampleRate != SampleRate {
		src = audio.Resample(bytes.NewReader(stereo), int64(len(stereo)), sampleRate, SampleRate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start(id, src)
}

// PlayMIDI starts a Standard MIDI File and returns its length.
func (s *Sink) PlayMIDI(id uint32, smf []byte) (time.Duration, error) {
	midi, err := meltysynth.NewMidiFile(bytes.NewReader(smf))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMIDIInvalidFormat, err)
	}
	length := midi.GetLength()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.soundFont == nil {
		s.log.Debug("MIDI sound without SoundFont", "id", id, "length", length)
		return length, nil
	}

	synth, err := meltysynth.NewSynthesizer(s.soundFont, meltysynth.NewSynthesizerSettings(SampleRate))
	if err != nil {
		return 0, fmt.Errorf("failed to create synthesizer: %w", err)
	}
	seq := meltysynth.NewMidiFileSequencer(synth)
	seq.Play(midi, false)
	stream := &midiStream{sequencer: seq}
	if err := s.start(id, stream); err != nil {
		return 0, err
	}
	s.streams[id] = stream
	return length, nil
}

// start replaces any player for id with one reading src. s.mu must be held.
func (s *Sink) start(id uint32, src io.Reader) error {
	s.stopLocked(id)
	player, err := s.ctx.NewPlayer(src)
	if err != nil {
		return fmt.Errorf("failed to create audio player: %w", err)
	}
	player.SetVolume(volume(s.muted))
	player.Play()
	s.players[id] = player
	s.log.Debug("Sound started", "id", id)
	return nil
}

// Stop stops the sound playing for id, if any.
func (s *Sink) Stop(id uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(id)
}

func (s *Sink) stopLocked(id uint32) {
	if st, ok := s.streams[id]; ok {
		st.Stop()
		delete(s.streams, id)
	}
	if p, ok := s.players[id]; ok {
		_ = p.Close()
		delete(s.players, id)
	}
}

// StopAll stops every sound.
func (s *Sink) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.players {
		s.stopLocked(id)
	}
}

// Cleanup releases players that have finished.
func (s *Sink) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.players {
		if !p.IsPlaying() {
			s.stopLocked(id)
		}
	}
}

// monoToStereo duplicates each 16-bit sample into both channels. A trailing
// odd byte is dropped.
func monoToStereo(pcm []byte) []byte {
	n := len(pcm) / 2
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		lo, hi := pcm[i*2], pcm[i*2+1]
		out[i*4], out[i*4+1] = lo, hi
		out[i*4+2], out[i*4+3] = lo, hi
	}
	return out
}
