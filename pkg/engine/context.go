package engine

import (
	"github.com/zurustar/mediastation/pkg/asset"
	"github.com/zurustar/mediastation/pkg/vm"
)

// Context is one loaded unit of a title: its parameters and its assets.
// Screen contexts carry the screen asset that branchToScreen enters.
type Context struct {
	ID         uint32
	Parameters *vm.ContextParameters
	Assets     []vm.Asset
	Screen     *asset.Screen
}

// NewContext groups assets and parameters, picking out the screen asset.
func NewContext(id uint32, params *vm.ContextParameters, assets []vm.Asset) *Context {
	c := &Context{ID: id, Parameters: params, Assets: assets}
	for _, a := range assets {
		if s, ok := a.(*asset.Screen); ok {
			c.Screen = s
			break
		}
	}
	return c
}

// Loader reads contexts from a title.
type Loader interface {
	LoadContext(id uint32) (*Context, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(id uint32) (*Context, error)

func (f LoaderFunc) LoadContext(id uint32) (*Context, error) { return f(id) }
