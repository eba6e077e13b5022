package graphics

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"

	"github.com/zurustar/mediastation/pkg/logger"
)

// Operation kinds recorded by Recorder.
const (
	OpFrame    = "frame"
	OpDraw     = "draw"
	OpPalette  = "palette"
	OpViewport = "viewport"
)

// OperationRecord is one recorded compositor call.
type OperationRecord struct {
	Operation string
	At        image.Point // draw position or viewport origin
	Z         int
	Size      image.Point // surface size, or palette length in X
}

// Recorder is the headless compositor. It performs no drawing and keeps a
// history of the calls it received.
type Recorder struct {
	frames        int
	current       []OperationRecord
	history       []OperationRecord
	palette       color.Palette
	viewport      image.Point
	log           *slog.Logger
	logOperations bool
	mu            sync.RWMutex
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderLogger sets the logger.
func WithRecorderLogger(log *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.log = log
	}
}

// WithLogOperations enables debug logging of each call.
func WithLogOperations(enabled bool) RecorderOption {
	return func(r *Recorder) {
		r.logOperations = enabled
	}
}

// NewRecorder creates a Recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		log: logger.GetLogger().With("component", "graphics"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) record(op OperationRecord) {
	if r.logOperations {
		r.log.Debug(fmt.Sprintf("[Headless] %s", op.Operation), "at", op.At, "z", op.Z, "size", op.Size)
	}
	r.history = append(r.history, op)
	if op.Operation != OpFrame {
		r.current = append(r.current, op)
	}
}

// BeginFrame starts a new frame.
func (r *Recorder) BeginFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
	r.current = nil
	r.record(OperationRecord{Operation: OpFrame})
}

// Draw records a surface draw.
func (r *Recorder) Draw(surface image.Image, at image.Point, z int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(OperationRecord{Operation: OpDraw, At: at, Z: z, Size: surface.Bounds().Size()})
}

// SetPalette records a palette change.
func (r *Recorder) SetPalette(p color.Palette) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.palette = p
	r.record(OperationRecord{Operation: OpPalette, Size: image.Pt(len(p), 0)})
}

// SetViewport records a viewport move.
func (r *Recorder) SetViewport(origin image.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewport = origin
	r.record(OperationRecord{Operation: OpViewport, At: origin})
}

// Frames returns the number of frames begun.
func (r *Recorder) Frames() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frames
}

// CurrentFrame returns the operations since the last BeginFrame.
func (r *Recorder) CurrentFrame() []OperationRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]OperationRecord(nil), r.current...)
}

// GetOperationHistory returns every recorded operation.
func (r *Recorder) GetOperationHistory() []OperationRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]OperationRecord(nil), r.history...)
}

// ClearOperationHistory drops the history.
func (r *Recorder) ClearOperationHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = nil
}

// Palette returns the last palette set.
func (r *Recorder) Palette() color.Palette {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.palette
}

// Viewport returns the last viewport origin.
func (r *Recorder) Viewport() image.Point {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.viewport
}
