// Package relations keeps an in-memory directed multigraph of typed edges
// between record ids.
package relations

import (
	"slices"
	"sync"

	"github.com/aretw0/minions/pkg/core"
)

// Graph stores relations keyed by id, enumerated in insertion order.
// Duplicate edges (same endpoints and type) are allowed and counted
// separately by every query.
type Graph struct {
	mu    sync.RWMutex
	edges map[string]core.Relation
	order []string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{edges: make(map[string]core.Relation)}
}

// Add creates and stores an edge with a fresh id and timestamp.
func (g *Graph) Add(input core.CreateRelationInput) core.Relation {
	r := core.Relation{
		ID:        core.NewID(),
		SourceID:  input.SourceID,
		TargetID:  input.TargetID,
		Type:      input.Type,
		CreatedAt: core.Now(),
		Metadata:  input.Metadata,
		CreatedBy: input.CreatedBy,
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges[r.ID] = r
	g.order = append(g.order, r.ID)
	return r
}

// Remove deletes one edge and reports whether it existed.
func (g *Graph) Remove(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.edges[id]; !ok {
		return false
	}
	delete(g.edges, id)
	g.order = slices.DeleteFunc(g.order, func(v string) bool { return v == id })
	return true
}

// RemoveByMinionID deletes every edge whose source or target is id and
// returns how many were removed.
func (g *Graph) RemoveByMinionID(id string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	kept := g.order[:0]
	for _, eid := range g.order {
		r := g.edges[eid]
		if r.SourceID == id || r.TargetID == id {
			delete(g.edges, eid)
			removed++
			continue
		}
		kept = append(kept, eid)
	}
	g.order = kept
	return removed
}

// Get returns the edge with the given id.
func (g *Graph) Get(id string) (core.Relation, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.edges[id]
	return r, ok
}

// List returns every edge in insertion order.
func (g *Graph) List() []core.Relation {
	return g.filter(func(core.Relation) bool { return true })
}

// Len returns the number of edges.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// FromSource returns the edges leaving sourceID, optionally restricted to
// the given types.
func (g *Graph) FromSource(sourceID string, types ...core.RelationType) []core.Relation {
	return g.filter(func(r core.Relation) bool {
		return r.SourceID == sourceID && matchType(r.Type, types)
	})
}

// ToTarget returns the edges entering targetID, optionally restricted to
// the given types.
func (g *Graph) ToTarget(targetID string, types ...core.RelationType) []core.Relation {
	return g.filter(func(r core.Relation) bool {
		return r.TargetID == targetID && matchType(r.Type, types)
	})
}

// Children returns the targets of parent_of edges from parentID.
func (g *Graph) Children(parentID string) []string {
	edges := g.FromSource(parentID, core.RelParentOf)
	out := make([]string, 0, len(edges))
	for _, r := range edges {
		out = append(out, r.TargetID)
	}
	return out
}

// Parents returns the sources of parent_of edges into childID.
func (g *Graph) Parents(childID string) []string {
	edges := g.ToTarget(childID, core.RelParentOf)
	out := make([]string, 0, len(edges))
	for _, r := range edges {
		out = append(out, r.SourceID)
	}
	return out
}

// Tree walks parent_of edges depth-first from rootID and returns every
// reachable descendant once. Cycles end the branch; the root itself is
// listed only when a cycle leads back to it.
func (g *Graph) Tree(rootID string) []string {
	var out []string
	visited := map[string]bool{}
	emitted := map[string]bool{}
	stack := []string{rootID}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true

		children := g.Children(current)
		for _, c := range children {
			if !emitted[c] {
				emitted[c] = true
				out = append(out, c)
			}
		}
		// Push in reverse so the first child is explored first.
		for i := len(children) - 1; i >= 0; i-- {
			if !visited[children[i]] {
				stack = append(stack, children[i])
			}
		}
	}
	return out
}

// Network returns every id joined to id by an edge of any type in either
// direction, deduplicated, in order of first appearance.
func (g *Graph) Network(id string) []string {
	var out []string
	seen := map[string]bool{}
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	for _, r := range g.List() {
		if r.SourceID == id {
			add(r.TargetID)
		}
		if r.TargetID == id {
			add(r.SourceID)
		}
	}
	return out
}

func (g *Graph) filter(keep func(core.Relation) bool) []core.Relation {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := []core.Relation{}
	for _, id := range g.order {
		if r := g.edges[id]; keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func matchType(t core.RelationType, types []core.RelationType) bool {
	return len(types) == 0 || slices.Contains(types, t)
}
