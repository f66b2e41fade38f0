package registry

import "github.com/aretw0/introspection"

// RegistryState exposes internal state for observability.
type RegistryState struct {
	Types    int      `json:"types"`
	Builtins int      `json:"builtins"`
	Slugs    []string `json:"slugs"`
}

// State implements introspection.Introspectable.
func (r *Registry) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := RegistryState{Types: len(r.order), Slugs: make([]string, 0, len(r.order))}
	for _, id := range r.order {
		t := r.types[id]
		if t.IsSystem {
			s.Builtins++
		}
		s.Slugs = append(s.Slugs, t.Slug)
	}
	return s
}

// ComponentType implements introspection.Component.
func (r *Registry) ComponentType() string {
	return "type-registry"
}

var _ introspection.Introspectable = (*Registry)(nil)
var _ introspection.Component = (*Registry)(nil)
