package engine

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var registryYAML []byte

// Info describes one registered engine for the catalog endpoints.
type Info struct {
	ID                 string   `yaml:"id" json:"id"`
	Name               string   `yaml:"name" json:"name"`
	Type               string   `yaml:"type" json:"type"`
	SupportedLanguages []string `yaml:"supported_languages" json:"supported_languages"`
	RequiresKey        string   `yaml:"requires_key" json:"requires_key"`
}

// Registry is the immutable engine catalog. It is loaded once from the
// embedded table; nothing mutates it after construction, so it is safe for
// concurrent reads.
type Registry struct {
	order   []string
	engines map[string]Info
}

// NewRegistry loads the embedded engine catalog.
func NewRegistry() (*Registry, error) {
	var doc struct {
		Engines []Info `yaml:"engines"`
	}
	if err := yaml.Unmarshal(registryYAML, &doc); err != nil {
		return nil, fmt.Errorf("load engine registry: %w", err)
	}
	if len(doc.Engines) == 0 {
		return nil, fmt.Errorf("engine registry is empty")
	}

	r := &Registry{engines: make(map[string]Info, len(doc.Engines))}
	for _, e := range doc.Engines {
		if _, dup := r.engines[e.ID]; dup {
			return nil, fmt.Errorf("duplicate engine id %q in registry", e.ID)
		}
		r.engines[e.ID] = e
		r.order = append(r.order, e.ID)
	}
	return r, nil
}

// List returns all registered engines in registration order.
func (r *Registry) List() []Info {
	out := make([]Info, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.engines[id])
	}
	return out
}

// Get returns the engine with the given id.
func (r *Registry) Get(id string) (Info, bool) {
	info, ok := r.engines[id]
	return info, ok
}

// Has reports whether an engine with the given id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.engines[id]
	return ok
}
