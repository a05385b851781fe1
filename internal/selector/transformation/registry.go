package transformation

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registered selector names.
const (
	NameInstalled = "Installed"
	NameStaged    = "Staged"
)

// Registry manages transformation selector factories.
type Registry struct {
	selectors map[string]func() Selector
	mu        sync.RWMutex
}

// NewRegistry creates a registry with the built-in selectors.
func NewRegistry() *Registry {
	r := &Registry{
		selectors: make(map[string]func() Selector),
	}

	r.Register(NameInstalled, func() Selector { return NewInstalled() })
	r.Register(NameStaged, func() Selector { return NewStaged() })

	return r
}

// Register registers a selector factory. Names are matched case-insensitively.
func (r *Registry) Register(name string, factory func() Selector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selectors[strings.ToLower(name)] = factory
}

// Get returns a new instance of the named selector.
func (r *Registry) Get(name string) (Selector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.selectors[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown transformation selector: %s", name)
	}
	return factory(), nil
}

// GetOrDefault returns the named selector, or Installed if name is empty.
func (r *Registry) GetOrDefault(name string) (Selector, error) {
	if name == "" {
		name = NameInstalled
	}
	return r.Get(name)
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.selectors))
	for name := range r.selectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the default transformation selector registry.
var DefaultRegistry = NewRegistry()

// Get returns a selector from the default registry.
func Get(name string) (Selector, error) {
	return DefaultRegistry.Get(name)
}
