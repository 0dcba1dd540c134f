// Package recipe holds the texture catalogue: small stateless functions that
// turn a normalised pixel position into a colour by composing calls to the
// noise engine.
package recipe

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"sync"
)

// ErrUnknownRecipe is returned by Lookup for names not in the registry.
var ErrUnknownRecipe = errors.New("unknown recipe")

// Recipe maps a pixel position with x, y in [0, 1) to a colour.
type Recipe func(x, y float64) color.RGBA

// Registry maps recipe names to recipes. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	recipes map[string]Recipe
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{recipes: make(map[string]Recipe)}
}

// Register adds or replaces a recipe.
func (r *Registry) Register(name string, fn Recipe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes[name] = fn
}

// Lookup returns the recipe registered under name.
func (r *Registry) Lookup(name string) (Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.recipes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRecipe, name)
	}
	return fn, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.recipes))
	for name := range r.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered recipes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.recipes)
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the built-in catalogue.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = NewRegistry()
		for name, fn := range builtin() {
			defaultReg.Register(name, fn)
		}
	})
	return defaultReg
}
