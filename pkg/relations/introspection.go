package relations

import "github.com/aretw0/introspection"

// GraphState exposes internal state for observability.
type GraphState struct {
	Edges  int            `json:"edges"`
	ByType map[string]int `json:"by_type"`
}

// State implements introspection.Introspectable.
func (g *Graph) State() any {
	g.mu.RLock()
	defer g.mu.RUnlock()

	s := GraphState{Edges: len(g.order), ByType: map[string]int{}}
	for _, r := range g.edges {
		s.ByType[string(r.Type)]++
	}
	return s
}

// ComponentType implements introspection.Component.
func (g *Graph) ComponentType() string {
	return "relation-graph"
}

var _ introspection.Introspectable = (*Graph)(nil)
var _ introspection.Component = (*Graph)(nil)
