package core

import (
	"fmt"
	"sync"
)

// Global registry for domain source self-registration.
var globalRegistry = &Registry{
	prototypes: make(map[DomainType]DomainSource),
	sources:    make(map[DomainType]DomainSource),
}

// Registry tracks domain source prototypes and the live instances built
// from them. Prototypes register themselves during init(); instances are
// created once a backing store is available.
type Registry struct {
	prototypes map[DomainType]DomainSource
	sources    map[DomainType]DomainSource
	mu         sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		prototypes: make(map[DomainType]DomainSource),
		sources:    make(map[DomainType]DomainSource),
	}
}

// RegisterSourcePrototype allows domain packages to register themselves
// during init().
func RegisterSourcePrototype(domain DomainType, prototype DomainSource) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.prototypes[domain] = prototype
}

// GetGlobalRegistry returns a copy of the global registry carrying all
// registered prototypes and no live instances.
func GetGlobalRegistry() *Registry {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	registry := NewRegistry()
	for domain, prototype := range globalRegistry.prototypes {
		registry.prototypes[domain] = prototype
	}
	return registry
}

// CreateSource instantiates the prototype for domain against the given
// store, replacing any existing instance.
func (r *Registry) CreateSource(domain DomainType, store RecordQuerier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prototype, exists := r.prototypes[domain]
	if !exists {
		return fmt.Errorf("%w: no source prototype for %q", ErrUnknownDomain, domain)
	}

	source, err := prototype.Factory(store)
	if err != nil {
		return fmt.Errorf("creating source for %s: %w", domain, err)
	}

	if existing, exists := r.sources[domain]; exists {
		if err := existing.Close(); err != nil {
			return fmt.Errorf("closing existing source for %s: %w", domain, err)
		}
	}

	r.sources[domain] = source
	return nil
}

// GetSource returns the live source for domain.
func (r *Registry) GetSource(domain DomainType) (DomainSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, exists := r.sources[domain]
	if !exists {
		return nil, fmt.Errorf("%w: no active source for %q", ErrUnknownDomain, domain)
	}
	return source, nil
}

// ActiveDomains lists the domains with live sources, in canonical
// search order.
func (r *Registry) ActiveDomains() []DomainType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var domains []DomainType
	for _, d := range SearchableDomains {
		if _, ok := r.sources[d]; ok {
			domains = append(domains, d)
		}
	}
	return domains
}

// Close shuts down all live sources. Prototypes stay registered.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for domain, source := range r.sources {
		if err := source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing source %s: %w", domain, err))
		}
	}
	r.sources = make(map[DomainType]DomainSource)

	if len(errs) > 0 {
		return fmt.Errorf("errors closing sources: %v", errs)
	}
	return nil
}
