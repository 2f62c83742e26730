package render

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUnknownRenderer is returned by Registry.Get for names never registered.
var ErrUnknownRenderer = errors.New("render: unknown renderer")

// Registry maps renderer names to renderers. Names are kept sorted so the
// orchestrator's first-registered fallback and the CLI listing are stable.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
	names  []string
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Renderer)}
}

// Register adds renderer under its Name. Names must be unique.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: nil renderer")
	}
	name := renderer.Name()
	if name == "" {
		return errors.New("render: renderer has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	pos, found := slices.BinarySearch(r.names, name)
	if found {
		return fmt.Errorf("render: %q registered twice", name)
	}
	r.names = slices.Insert(r.names, pos, name)
	r.byName[name] = renderer
	return nil
}

// MustRegister is Register for wiring code that cannot recover.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRenderer, name)
	}
	return renderer, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.names)
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}
