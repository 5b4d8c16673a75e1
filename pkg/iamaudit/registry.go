package iamaudit

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages provider registration and lookup by provider tag.
// It provides thread-safe access to registered providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[ProviderName]Provider
}

// DefaultRegistry is the global provider registry.
// Providers register themselves via init() functions.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[ProviderName]Provider),
	}
}

// Register adds a provider to the registry.
// This is typically called from provider package init() functions.
func (r *Registry) Register(p Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider already registered: %s", name)
	}

	r.providers[name] = p
	return nil
}

// Get retrieves a registered provider by name.
func (r *Registry) Get(name ProviderName) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.providers[name]
	if !exists {
		return nil, ErrUnsupportedProvider(name)
	}
	return p, nil
}

// List returns all registered provider names in lexical order.
func (r *Registry) List() []ProviderName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]ProviderName, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ListByCapability returns providers that have a specific capability.
func (r *Registry) ListByCapability(cap Capability) []ProviderName {
	var names []ProviderName
	for _, name := range r.List() {
		p, err := r.Get(name)
		if err == nil && p.HasCapability(cap) {
			names = append(names, name)
		}
	}
	return names
}

// Unregister removes a provider from the registry.
// This is mainly useful for testing.
func (r *Registry) Unregister(name ProviderName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.providers, name)
}

// Register adds a provider to the default registry.
func Register(p Provider) error {
	return DefaultRegistry.Register(p)
}

// GetProvider retrieves a provider from the default registry.
func GetProvider(name ProviderName) (Provider, error) {
	return DefaultRegistry.Get(name)
}

// ListProviders returns all providers in the default registry.
func ListProviders() []ProviderName {
	return DefaultRegistry.List()
}

// ProviderInfo contains metadata about a registered provider.
type ProviderInfo struct {
	Name                 ProviderName
	Capabilities         []Capability
	RuleSet              string
	DefaultThresholdDays int
}

// Describe returns detailed info about all registered providers.
func (r *Registry) Describe() []ProviderInfo {
	var infos []ProviderInfo
	for _, name := range r.List() {
		p, err := r.Get(name)
		if err != nil {
			continue
		}
		infos = append(infos, ProviderInfo{
			Name:                 name,
			Capabilities:         p.Capabilities(),
			RuleSet:              p.Rules().Name(),
			DefaultThresholdDays: p.DefaultStaleThresholdDays(),
		})
	}
	return infos
}

// DescribeProviders returns detailed info about all providers in the default registry.
func DescribeProviders() []ProviderInfo {
	return DefaultRegistry.Describe()
}

// HasCapability reports whether caps contains cap. Providers use it to
// implement Provider.HasCapability.
func HasCapability(caps []Capability, cap Capability) bool {
	for _, c := range caps {
		if c == cap {
			return true
		}
	}
	return false
}
