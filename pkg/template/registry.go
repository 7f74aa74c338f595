package template

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jddutz/nexus/internal/suggest"
	"github.com/jddutz/nexus/pkg/component"
)

// Factory constructs a component of one registered type. The name
// argument comes from the template's name field and may be empty.
type Factory func(name string) component.Component

// Registry maps template type names to component factories. Hosts
// register their component set once at startup; templates may then
// only name what the host registered.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under typeName, replacing any previous
// entry. Type names conventionally carry a package-like prefix
// ("hud.Label") to keep host vocabularies apart.
func (r *Registry) Register(typeName string, f Factory) {
	if typeName == "" || f == nil {
		panic("template: Register with empty type name or nil factory")
	}
	r.mu.Lock()
	r.factories[typeName] = f
	r.mu.Unlock()
}

// Names lists the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// New constructs a component of the given registered type. An unknown
// type errors, with a closest-match hint when one exists.
func (r *Registry) New(typeName, name string) (component.Component, error) {
	r.mu.RLock()
	f, ok := r.factories[typeName]
	r.mu.RUnlock()
	if !ok {
		if hint := suggest.Closest(typeName, r.Names()); hint != "" {
			return nil, fmt.Errorf("unknown component type %q (did you mean %q?)", typeName, hint)
		}
		return nil, fmt.Errorf("unknown component type %q", typeName)
	}
	c := f(name)
	if c == nil {
		return nil, fmt.Errorf("factory for %q returned nil", typeName)
	}
	return c, nil
}
