package site

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/swarmourr/pegasus-sub001/internal/selector/transformation"
)

// Registered mapper names.
const (
	NameRoundRobin = "RoundRobin"
	NameRandom     = "Random"
)

// Options configures a JobMapper built by a Registry.
type Options struct {
	// Catalog is consulted to find sites able to run a job; nil allows every site.
	Catalog TransformationLookup
	// Selector filters catalog entries; nil means Installed.
	Selector transformation.Selector
	// Seed seeds randomized mappers.
	Seed   int64
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Factory builds a JobMapper.
type Factory func(opts Options) JobMapper

// Registry manages JobMapper factories.
type Registry struct {
	mappers map[string]Factory
	mu      sync.RWMutex
}

// NewRegistry creates a registry with the built-in mappers.
func NewRegistry() *Registry {
	r := &Registry{
		mappers: make(map[string]Factory),
	}

	r.Register(NameRoundRobin, func(opts Options) JobMapper { return NewRoundRobin(opts) })
	r.Register(NameRandom, func(opts Options) JobMapper { return NewRandom(opts) })

	return r
}

// Register registers a mapper factory. Names are matched case-insensitively.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers[strings.ToLower(name)] = factory
}

// Get builds the named mapper.
func (r *Registry) Get(name string, opts Options) (JobMapper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.mappers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown site selector: %s", name)
	}
	return factory(opts), nil
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.mappers))
	for name := range r.mappers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the default mapper registry.
var DefaultRegistry = NewRegistry()

// Get builds a mapper from the default registry.
func Get(name string, opts Options) (JobMapper, error) {
	return DefaultRegistry.Get(name, opts)
}
