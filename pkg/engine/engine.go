// Package engine runs a Media Station title: it loads contexts into the
// script runtime, moves between screens and ticks the scheduler.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/zurustar/mediastation/pkg/asset"
	"github.com/zurustar/mediastation/pkg/logger"
	"github.com/zurustar/mediastation/pkg/opcode"
	"github.com/zurustar/mediastation/pkg/vm"
)

var (
	// ErrTerminated is returned by Tick after Terminate.
	ErrTerminated = errors.New("engine terminated")

	// ErrUnknownScreen is returned when a branch target has no screen asset.
	ErrUnknownScreen = errors.New("context has no screen")
)

// Engine owns the script runtime and drives it from host events.
type Engine struct {
	rt        *vm.Runtime
	scheduler *Scheduler
	loader    Loader
	log       *slog.Logger

	contexts map[uint32]*Context
	rootID   uint32
	current  *Context
	hovered  *asset.Hotspot

	terminated atomic.Bool
}

// New creates an engine. The engine installs itself as the runtime's
// navigator.
func New(rt *vm.Runtime, loader Loader) *Engine {
	e := &Engine{
		rt:        rt,
		scheduler: NewScheduler(rt),
		loader:    loader,
		log:       logger.GetLogger().With("component", "engine"),
		contexts:  make(map[uint32]*Context),
	}
	rt.SetNavigator(e)
	return e
}

// Runtime returns the script runtime.
func (e *Engine) Runtime() *vm.Runtime { return e.rt }

// Current returns the context of the active screen, or nil.
func (e *Engine) Current() *Context { return e.current }

// Start loads the root context, if any, and enters the entry screen.
func (e *Engine) Start(rootID, entryID uint32) error {
	if rootID != 0 {
		if err := e.LoadContext(rootID); err != nil {
			return fmt.Errorf("root context %d: %w", rootID, err)
		}
		e.rootID = rootID
	} else {
		e.log.Warn("Title has no root context")
	}
	return e.BranchToScreen(entryID)
}

// Load registers a context's parameters and assets with the runtime.
// Loading a context twice is a no-op.
func (e *Engine) Load(c *Context) {
	if _, ok := e.contexts[c.ID]; ok {
		e.log.Debug("Context already loaded", "context", c.ID)
		return
	}
	if c.Parameters != nil {
		c.Parameters.Apply(e.rt)
	}
	for _, a := range c.Assets {
		e.rt.RegisterAsset(a)
	}
	e.contexts[c.ID] = c
	e.log.Info("Loaded context", "context", c.ID, "assets", len(c.Assets))
}

// LoadContext loads a context through the loader unless it is already
// loaded.
func (e *Engine) LoadContext(id uint32) error {
	if _, ok := e.contexts[id]; ok {
		return nil
	}
	if e.loader == nil {
		return vm.NewResourceError("no loader for context %d", id)
	}
	c, err := e.loader.LoadContext(id)
	if err != nil {
		return err
	}
	e.Load(c)
	return nil
}

// ReleaseContext unregisters a context's assets and parameters. Playing
// assets of the context are stopped first.
func (e *Engine) ReleaseContext(id uint32) error {
	c, ok := e.contexts[id]
	if !ok {
		e.log.Warn("Attempted to release a context that is not loaded", "context", id)
		return nil
	}
	for _, a := range c.Assets {
		if p, ok := a.(vm.Playable); ok && p.IsPlaying() {
			if err := p.Stop(e.rt); err != nil && vm.IsFatal(err) {
				return err
			}
		}
		if h, ok := a.(*asset.Hotspot); ok && h == e.hovered {
			e.hovered = nil
		}
		e.rt.UnregisterAsset(a.ID())
	}
	if c.Parameters != nil {
		c.Parameters.Release(e.rt)
	}
	delete(e.contexts, id)
	if e.current == c {
		e.current = nil
	}
	e.log.Info("Released context", "context", id)
	return nil
}

// BranchToScreen leaves the current screen and enters the screen of
// context id: the old screen's Exit handler runs, playing assets stop, the
// old context is released, and the new screen's palette is applied before
// its Entry handler runs.
func (e *Engine) BranchToScreen(id uint32) error {
	e.log.Info("Branching to screen", "context", id)
	prev := e.current
	if prev != nil {
		if err := prev.Screen.Handlers().Run(e.rt, opcode.EventExit); err != nil {
			return err
		}
		for _, p := range e.rt.Playing() {
			if err := p.Stop(e.rt); err != nil && vm.IsFatal(err) {
				return err
			}
		}
	}

	if err := e.LoadContext(id); err != nil {
		return err
	}
	next := e.contexts[id]
	if next.Screen == nil {
		return fmt.Errorf("context %d: %w", id, ErrUnknownScreen)
	}
	if prev != nil && prev != next && prev.ID != e.rootID {
		if err := e.ReleaseContext(prev.ID); err != nil {
			return err
		}
	}
	e.current = next

	if p := next.Screen.Palette(e.rt); len(p) > 0 {
		e.rt.SetPalette(p)
	} else {
		e.log.Warn("Screen has no palette; keeping the current one", "screen", next.Screen.ID())
	}
	return next.Screen.Handlers().Run(e.rt, opcode.EventEntry)
}

// Terminate makes the next Tick return ErrTerminated.
func (e *Engine) Terminate() {
	if !e.terminated.Swap(true) {
		e.log.Info("Engine termination requested")
	}
}

// IsTerminated reports whether Terminate was called.
func (e *Engine) IsTerminated() bool { return e.terminated.Load() }

// Tick advances the title to now, in milliseconds since start.
func (e *Engine) Tick(now int64) error {
	if e.terminated.Load() {
		return ErrTerminated
	}
	return e.scheduler.Tick(now)
}
