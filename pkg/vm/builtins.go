package vm

import (
	"image/color"
	"strings"

	"github.com/zurustar/mediastation/pkg/opcode"
)

// Transition types accepted by effectTransition.
const (
	TransitionFadeToBlack   = 300
	TransitionFadeToPalette = 301
	TransitionSetToPalette  = 302
	TransitionSetToBlack    = 303
)

// PaletteHolder is implemented by palette assets.
type PaletteHolder interface {
	Palette() color.Palette
}

func (rt *Runtime) registerDefaultBuiltins() {
	rt.builtins[opcode.EffectTransition] = builtinEffectTransition
	rt.builtins[opcode.Random] = builtinRandom
	rt.builtins[opcode.DebugPrint] = builtinDebugPrint
	rt.builtins[opcode.BranchToScreen] = navigate(opcode.BranchToScreen, Navigator.BranchToScreen)
	rt.builtins[opcode.LoadContext] = navigate(opcode.LoadContext, Navigator.LoadContext)
	rt.builtins[opcode.ReleaseContext] = navigate(opcode.ReleaseContext, Navigator.ReleaseContext)

	rt.builtins[opcode.CollectionAppend] = collectionAppend
	rt.builtins[opcode.CollectionCount] = collectionCount
	rt.builtins[opcode.CollectionEmpty] = collectionEmpty
	rt.builtins[opcode.CollectionGetAt] = collectionGetAt
	rt.builtins[opcode.CollectionIsEmpty] = collectionIsEmpty
	rt.builtins[opcode.CollectionSeek] = collectionSeek
	rt.builtins[opcode.CollectionSend] = collectionSend
	rt.builtins[opcode.CollectionDeleteAt] = collectionDeleteAt
	rt.builtins[opcode.CollectionSort] = collectionSort
}

// CheckArgs returns a TYPE error unless len(args) is between min and max.
// A negative max means no upper bound.
func CheckArgs(id opcode.BuiltIn, args []Operand, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		switch {
		case min == max:
			return NewTypeError("%s expects %d arguments, got %d", id, min, len(args))
		case max < 0:
			return NewTypeError("%s expects at least %d arguments, got %d", id, min, len(args))
		}
		return NewTypeError("%s expects %d to %d arguments, got %d", id, min, max, len(args))
	}
	return nil
}

// IntArg returns args[i] as an integer. Floats are truncated.
func IntArg(id opcode.BuiltIn, args []Operand, i int) (int64, error) {
	switch args[i].Kind() {
	case KindInt:
		return args[i].Int(), nil
	case KindFloat:
		return int64(args[i].Float()), nil
	}
	return 0, NewTypeError("%s argument %d must be numeric, got %s", id, i+1, args[i].Kind())
}

// FloatArg returns args[i] as a float.
func FloatArg(id opcode.BuiltIn, args []Operand, i int) (float64, error) {
	if n, ok := args[i].Number(); ok {
		return n, nil
	}
	return 0, NewTypeError("%s argument %d must be numeric, got %s", id, i+1, args[i].Kind())
}

// AssetIDArg returns the asset id named by args[i]: an asset reference or an
// integer id.
func AssetIDArg(id opcode.BuiltIn, args []Operand, i int) (uint32, error) {
	switch args[i].Kind() {
	case KindAsset:
		if a := args[i].Asset(); a != nil {
			return a.ID(), nil
		}
		return 0, nil
	case KindInt:
		return uint32(args[i].Int()), nil
	}
	return 0, NewTypeError("%s argument %d must be an asset, got %s", id, i+1, args[i].Kind())
}

func builtinEffectTransition(rt *Runtime, args []Operand) (Operand, error) {
	id := opcode.EffectTransition
	if err := CheckArgs(id, args, 1, -1); err != nil {
		return Empty(), err
	}
	kind, err := IntArg(id, args, 0)
	if err != nil {
		return Empty(), err
	}

	// Fades are applied immediately; only the final palette is shown.
	switch kind {
	case TransitionFadeToBlack, TransitionSetToBlack:
		rt.SetPalette(blackPalette())
		return Empty(), nil

	case TransitionFadeToPalette, TransitionSetToPalette:
		if err := CheckArgs(id, args, 2, -1); err != nil {
			return Empty(), err
		}
		if args[1].Kind() != KindAsset || args[1].Asset() == nil {
			return Empty(), NewTypeError("%s palette argument is %s", id, args[1].Kind()).wrap(ErrNotAnAsset)
		}
		p, ok := args[1].Asset().(PaletteHolder)
		if !ok {
			return Empty(), NewTypeError("%s on asset %d which is not a palette", id, args[1].Asset().ID())
		}
		rt.SetPalette(p.Palette())
		return Empty(), nil
	}
	return Empty(), NewUnsupportedError("transition type %d", kind)
}

func blackPalette() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.RGBA{A: 0xff}
	}
	return p
}

// builtinRandom returns an integer in [low, high].
func builtinRandom(rt *Runtime, args []Operand) (Operand, error) {
	id := opcode.Random
	if err := CheckArgs(id, args, 2, 2); err != nil {
		return Empty(), err
	}
	low, err := IntArg(id, args, 0)
	if err != nil {
		return Empty(), err
	}
	high, err := IntArg(id, args, 1)
	if err != nil {
		return Empty(), err
	}
	if high < low {
		low, high = high, low
	}
	span := high - low + 1
	if span <= 0 {
		return Empty(), NewTypeError("%s range %d..%d is too wide", id, low, high)
	}
	return NewInt(low + rt.rand.Int63n(span)), nil
}

func builtinDebugPrint(rt *Runtime, args []Operand) (Operand, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		if a.Kind() == KindString {
			parts[i] = a.Text()
		} else {
			parts[i] = a.String()
		}
	}
	rt.log.Info("debugPrint", "message", strings.Join(parts, " "))
	return Empty(), nil
}

func navigate(id opcode.BuiltIn, call func(Navigator, uint32) error) BuiltinFunc {
	return func(rt *Runtime, args []Operand) (Operand, error) {
		if err := CheckArgs(id, args, 1, 1); err != nil {
			return Empty(), err
		}
		target, err := AssetIDArg(id, args, 0)
		if err != nil {
			return Empty(), err
		}
		if rt.navigator == nil {
			return Empty(), NewUnsupportedError("%s(%d) without a navigator", id, target)
		}
		return Empty(), call(rt.navigator, target)
	}
}
