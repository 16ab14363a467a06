package llm

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a Provider from an API key and model name. An empty
// model selects the provider's default model.
type Factory func(apiKey, model string) Provider

// Registry maps provider names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a provider factory under the given name.
func (r *Registry) Register(name string, f Factory) error {
	if f == nil {
		return fmt.Errorf("cannot register nil factory")
	}
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("provider already registered: %s", name)
	}

	r.factories[name] = f
	return nil
}

// New builds a provider by name.
func (r *Registry) New(name, apiKey, model string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return f(apiKey, model), nil
}

// List returns all registered provider names (sorted).
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has checks if a provider is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Unregister removes a provider from the registry.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; !ok {
		return fmt.Errorf("unknown provider: %s", name)
	}
	delete(r.factories, name)
	return nil
}

// DefaultRegistry holds the built-in providers.
var DefaultRegistry = NewRegistry()

func init() {
	builtins := map[string]Factory{
		"anthropic": func(apiKey, model string) Provider { return NewAnthropicProvider(apiKey, model) },
		"openai":    func(apiKey, model string) Provider { return NewOpenAIProvider(apiKey, model) },
		"gemini":    func(apiKey, model string) Provider { return NewGeminiProvider(apiKey, model) },
	}
	for name, f := range builtins {
		if err := DefaultRegistry.Register(name, f); err != nil {
			panic(err)
		}
	}
}

// NewProvider builds a provider from the default registry.
func NewProvider(name, apiKey, model string) (Provider, error) {
	return DefaultRegistry.New(name, apiKey, model)
}

// List returns the built-in provider names.
func List() []string {
	return DefaultRegistry.List()
}
