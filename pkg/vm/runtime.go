package vm

import (
	"errors"
	"image/color"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/zurustar/mediastation/pkg/logger"
	"github.com/zurustar/mediastation/pkg/opcode"
)

// MaxCallDepth is the maximum nesting of code chunk activations.
const MaxCallDepth = 1000

// BuiltinFunc is a host-implemented free function.
type BuiltinFunc func(rt *Runtime, args []Operand) (Operand, error)

// Runtime is the execution context shared by the interpreter, the built-in
// table and the assets: asset registry, user functions, global variables,
// the playing set and the host services.
type Runtime struct {
	assets    map[uint32]Asset
	functions map[uint32]*Function
	globals   *Globals
	builtins  map[opcode.BuiltIn]BuiltinFunc

	playing []Playable

	compositor Compositor
	palette    PaletteSetter
	audio      AudioSink
	navigator  Navigator

	log    *slog.Logger
	rand   *rand.Rand
	strict bool
	now    int64
	depth  int
}

// Option is a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithLogger sets a custom logger for the Runtime.
func WithLogger(log *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.log = log
	}
}

// WithStrict makes unsupported built-in ids fatal instead of logged no-ops.
func WithStrict(strict bool) Option {
	return func(rt *Runtime) {
		rt.strict = strict
	}
}

// WithCompositor sets where frames are drawn.
func WithCompositor(c Compositor) Option {
	return func(rt *Runtime) {
		rt.compositor = c
	}
}

// WithPaletteSetter sets the palette receiver.
func WithPaletteSetter(p PaletteSetter) Option {
	return func(rt *Runtime) {
		rt.palette = p
	}
}

// WithAudioSink sets the sound output.
func WithAudioSink(a AudioSink) Option {
	return func(rt *Runtime) {
		rt.audio = a
	}
}

// WithNavigator sets the handler for screen and context built-ins.
func WithNavigator(n Navigator) Option {
	return func(rt *Runtime) {
		rt.navigator = n
	}
}

// WithRandSeed makes the random built-in deterministic.
func WithRandSeed(seed int64) Option {
	return func(rt *Runtime) {
		rt.rand = rand.New(rand.NewSource(seed))
	}
}

// NewRuntime creates an empty execution context.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		assets:     make(map[uint32]Asset),
		functions:  make(map[uint32]*Function),
		globals:    NewGlobals(),
		builtins:   make(map[opcode.BuiltIn]BuiltinFunc),
		compositor: discardCompositor{},
		palette:    discardPalette{},
		audio:      silentAudio{},
		log:        logger.GetLogger(),
		rand:       rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.log = rt.log.With("component", "vm")
	rt.registerDefaultBuiltins()
	return rt
}

// Logger returns the runtime's logger.
func (rt *Runtime) Logger() *slog.Logger { return rt.log }

// Strict reports whether unsupported built-ins are fatal.
func (rt *Runtime) Strict() bool { return rt.strict }

// Compositor returns the frame compositor.
func (rt *Runtime) Compositor() Compositor { return rt.compositor }

// Audio returns the sound output.
func (rt *Runtime) Audio() AudioSink { return rt.audio }

// Globals returns the global variable store.
func (rt *Runtime) Globals() *Globals { return rt.globals }

// SetPalette forwards a palette to the host. Empty palettes are ignored.
func (rt *Runtime) SetPalette(p color.Palette) {
	if len(p) == 0 {
		return
	}
	rt.palette.SetPalette(p)
}

// SetNavigator replaces the navigator. The engine installs itself after the
// runtime is created.
func (rt *Runtime) SetNavigator(n Navigator) { rt.navigator = n }

// Now returns the time of the frame being processed, in milliseconds.
func (rt *Runtime) Now() int64 { return rt.now }

// SetNow sets the frame time. The scheduler calls it before processing.
func (rt *Runtime) SetNow(now int64) { rt.now = now }

// Asset resolves an asset id.
func (rt *Runtime) Asset(id uint32) (Asset, bool) {
	a, ok := rt.assets[id]
	return a, ok
}

// RegisterAsset adds an asset. Redefining an id replaces the old asset and
// logs a warning.
func (rt *Runtime) RegisterAsset(a Asset) {
	if old, ok := rt.assets[a.ID()]; ok && old != a {
		rt.log.Warn("Asset id redefined", "id", a.ID(), "old", old.Type(), "new", a.Type())
	}
	rt.assets[a.ID()] = a
}

// UnregisterAsset removes an asset and stops tracking it as playing.
func (rt *Runtime) UnregisterAsset(id uint32) {
	a, ok := rt.assets[id]
	if !ok {
		return
	}
	if p, ok := a.(Playable); ok {
		rt.RemovePlaying(p)
	}
	delete(rt.assets, id)
}

// Assets returns every registered asset ordered by id.
func (rt *Runtime) Assets() []Asset {
	out := make([]Asset, 0, len(rt.assets))
	for _, a := range rt.assets {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// RegisterFunction adds a user function under its offset id.
func (rt *Runtime) RegisterFunction(fn *Function) {
	if _, ok := rt.functions[fn.ID]; ok {
		rt.log.Warn("Function redefined", "id", fn.ID)
	}
	rt.functions[fn.ID] = fn
}

// UnregisterFunction removes a user function.
func (rt *Runtime) UnregisterFunction(id uint32) {
	delete(rt.functions, id)
}

// Function looks up a user function by its offset id.
func (rt *Runtime) Function(id uint32) (*Function, bool) {
	fn, ok := rt.functions[id]
	return fn, ok
}

// RegisterBuiltinFunction adds or replaces a free built-in function.
func (rt *Runtime) RegisterBuiltinFunction(id opcode.BuiltIn, fn BuiltinFunc) {
	rt.builtins[id] = fn
}

// AddPlaying registers an asset as playing. It is idempotent.
func (rt *Runtime) AddPlaying(p Playable) {
	for _, q := range rt.playing {
		if q == p {
			return
		}
	}
	rt.playing = append(rt.playing, p)
}

// RemovePlaying removes an asset from the playing set.
func (rt *Runtime) RemovePlaying(p Playable) {
	for i, q := range rt.playing {
		if q == p {
			rt.playing = append(rt.playing[:i], rt.playing[i+1:]...)
			return
		}
	}
}

// IsRegisteredPlaying reports whether p is in the playing set.
func (rt *Runtime) IsRegisteredPlaying(p Playable) bool {
	for _, q := range rt.playing {
		if q == p {
			return true
		}
	}
	return false
}

// Playing returns a snapshot of the playing set in insertion order.
func (rt *Runtime) Playing() []Playable {
	return append([]Playable(nil), rt.playing...)
}

func (rt *Runtime) enter() error {
	if rt.depth >= MaxCallDepth {
		return NewStackOverflowError(MaxCallDepth)
	}
	rt.depth++
	return nil
}

func (rt *Runtime) leave() {
	rt.depth--
}

// Depth returns the number of active code chunk activations.
func (rt *Runtime) Depth() int { return rt.depth }

func (rt *Runtime) readGlobal(id uint32) (Operand, error) {
	v, ok := rt.globals.Lookup(id)
	if !ok {
		rt.log.Warn("Read of undeclared global", "id", id)
		return Empty(), nil
	}
	return v.Read(rt)
}

func (rt *Runtime) writeGlobal(id uint32, val Operand) error {
	v, ok := rt.globals.Lookup(id)
	if !ok {
		rt.log.Warn("Assignment creates undeclared global", "id", id)
		v = NewVariable(id, VarUntyped)
		rt.globals.Declare(v)
	}
	return v.Assign(rt, val)
}

// CallRoutine calls the user function with id, or the built-in function with
// the same id when no user function exists.
func (rt *Runtime) CallRoutine(id uint32, args []Operand) (Operand, error) {
	if fn, ok := rt.functions[id]; ok {
		return fn.Execute(rt, args)
	}
	if b, ok := rt.builtins[opcode.BuiltIn(id)]; ok {
		return rt.downgrade(b(rt, args))
	}
	return rt.downgrade(Empty(), NewUnsupportedError("unknown function %d", id))
}

// CallMethod dispatches a method to an asset.
func (rt *Runtime) CallMethod(a Asset, id opcode.BuiltIn, args []Operand) (Operand, error) {
	rt.log.Debug("Calling method", "method", id, "asset", a.ID(), "type", a.Type())
	return rt.downgrade(a.CallMethod(rt, id, args))
}

// downgrade turns UNSUPPORTED errors into warnings unless the runtime is
// strict.
func (rt *Runtime) downgrade(v Operand, err error) (Operand, error) {
	if err == nil || rt.strict {
		return v, err
	}
	var re *RuntimeError
	if errors.As(err, &re) && re.Type == ErrorUnsupported {
		rt.log.Warn("Unsupported built-in ignored", "error", re.Message)
		return Empty(), nil
	}
	return v, err
}

// Navigator returns the screen and context handler, or nil.
func (rt *Runtime) Navigator() Navigator { return rt.navigator }
