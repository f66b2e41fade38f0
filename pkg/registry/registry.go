// Package registry holds MinionType definitions indexed by id and slug.
package registry

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/minions/pkg/core"
)

// Registry is an in-memory set of MinionTypes, listed in registration order.
// Registered types are read-only: callers must not mutate returned values.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]core.MinionType
	slugs  map[string]string
	order  []string
	logger *slog.Logger
}

type options struct {
	builtins bool
	logger   *slog.Logger
	types    []core.MinionType
}

// Option configures a Registry.
type Option func(*options)

// WithoutBuiltins skips registering the system types.
func WithoutBuiltins() Option {
	return func(o *options) {
		o.builtins = false
	}
}

// WithLogger sets the logger used to report registrations.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTypes registers additional types after the builtins.
func WithTypes(types ...core.MinionType) Option {
	return func(o *options) {
		o.types = append(o.types, types...)
	}
}

// New creates a registry pre-populated with Builtins unless WithoutBuiltins
// is given. It fails if an extra type collides with a registered one.
func New(opts ...Option) (*Registry, error) {
	o := options{builtins: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Registry{
		types:  make(map[string]core.MinionType),
		slugs:  make(map[string]string),
		logger: o.logger,
	}

	var initial []core.MinionType
	if o.builtins {
		initial = Builtins()
	}
	initial = append(initial, o.types...)
	for _, t := range initial {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a type. It fails with core.ErrDuplicateKey if the id or the
// slug is already registered.
func (r *Registry) Register(t core.MinionType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[t.ID]; ok {
		return fmt.Errorf("type with id %q is already registered: %w", t.ID, core.ErrDuplicateKey)
	}
	if _, ok := r.slugs[t.Slug]; ok {
		return fmt.Errorf("type with slug %q is already registered: %w", t.Slug, core.ErrDuplicateKey)
	}
	r.types[t.ID] = t
	r.slugs[t.Slug] = t.ID
	r.order = append(r.order, t.ID)
	r.logger.Debug("registered minion type", "id", t.ID, "slug", t.Slug)
	return nil
}

// GetByID returns the type with the given id.
func (r *Registry) GetByID(id string) (core.MinionType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[id]
	return t, ok
}

// GetBySlug returns the type with the given slug.
func (r *Registry) GetBySlug(slug string) (core.MinionType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.slugs[slug]
	if !ok {
		return core.MinionType{}, false
	}
	t, ok := r.types[id]
	return t, ok
}

// List returns every registered type in registration order.
func (r *Registry) List() []core.MinionType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.MinionType, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.types[id])
	}
	return out
}

// Match returns the types whose slug matches a doublestar glob, in
// registration order.
func (r *Registry) Match(pattern string) ([]core.MinionType, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid slug pattern %q", pattern)
	}
	var out []core.MinionType
	for _, t := range r.List() {
		ok, err := doublestar.Match(pattern, t.Slug)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// Has reports whether a type with the given id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[id]
	return ok
}

// Remove deletes a type and its slug entry. It reports whether anything
// was removed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.types[id]
	if !ok {
		return false
	}
	delete(r.types, id)
	delete(r.slugs, t.Slug)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.logger.Debug("removed minion type", "id", id, "slug", t.Slug)
	return true
}
