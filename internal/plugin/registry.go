package plugin

import (
	"fmt"
	"sort"
	"sync"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	"git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
)

// Factory constructs a configured plugin. Setup errors (such as a missing
// required option) are returned here, before any file is processed.
type Factory func(cfg *config.Config) (Plugin, error)

// Registry maps plugin names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
// Returns an error if the name is empty, the factory nil, or the name taken.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if factory == nil {
		return fmt.Errorf("cannot register nil factory for plugin %s", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("plugin %s already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Has checks if a plugin with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered plugin names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

// Build constructs the plugins named in cfg.Plugins, in order.
func (r *Registry) Build(cfg *config.Config) ([]Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]Plugin, 0, len(cfg.Plugins))
	for _, name := range cfg.Plugins {
		factory, ok := r.factories[name]
		if !ok {
			return nil, errors.ConfigError("unknown plugin").
				WithContext("plugin", name).
				WithContext("available", r.namesLocked()).
				Build()
		}
		p, err := factory(cfg)
		if err != nil {
			return nil, NewPluginError(name, "setup", err)
		}
		if err := p.Metadata().Validate(); err != nil {
			return nil, NewPluginError(name, "setup", errors.WrapError(err, errors.CategoryInternal, "invalid plugin metadata").Build())
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// globalRegistry is the default plugin registry plugins add themselves to.
var globalRegistry = NewRegistry()

// DefaultRegistry returns the global plugin registry.
func DefaultRegistry() *Registry {
	return globalRegistry
}

// Register adds a factory to the global registry.
func Register(name string, factory Factory) error {
	return globalRegistry.Register(name, factory)
}
