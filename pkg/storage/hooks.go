package storage

import (
	"context"

	"github.com/aretw0/minions/pkg/core"
)

// Hooks are optional callbacks around each storage operation. A before
// hook returning an error aborts the operation. BeforeSet may return a
// replacement record to persist instead of the one passed in.
type Hooks struct {
	BeforeGet    func(ctx context.Context, id string) error
	AfterGet     func(ctx context.Context, id string, m core.Minion, found bool)
	BeforeSet    func(ctx context.Context, m core.Minion) (*core.Minion, error)
	AfterSet     func(ctx context.Context, m core.Minion)
	BeforeDelete func(ctx context.Context, id string) error
	AfterDelete  func(ctx context.Context, id string)
	BeforeList   func(ctx context.Context, f core.Filter) error
	AfterList    func(ctx context.Context, results []core.Minion, f core.Filter)
	BeforeSearch func(ctx context.Context, query string) error
	AfterSearch  func(ctx context.Context, results []core.Minion, query string)
}

// Hooked decorates a core.Storage with Hooks.
type Hooked struct {
	next  core.Storage
	hooks Hooks
}

// WithHooks wraps s so that every operation runs through hooks.
func WithHooks(s core.Storage, hooks Hooks) *Hooked {
	return &Hooked{next: s, hooks: hooks}
}

// Unwrap returns the decorated storage.
func (h *Hooked) Unwrap() core.Storage {
	return h.next
}

func (h *Hooked) Get(ctx context.Context, id string) (core.Minion, bool, error) {
	if h.hooks.BeforeGet != nil {
		if err := h.hooks.BeforeGet(ctx, id); err != nil {
			return core.Minion{}, false, err
		}
	}
	m, ok, err := h.next.Get(ctx, id)
	if err != nil {
		return m, ok, err
	}
	if h.hooks.AfterGet != nil {
		h.hooks.AfterGet(ctx, id, m, ok)
	}
	return m, ok, nil
}

func (h *Hooked) Set(ctx context.Context, m core.Minion) error {
	if h.hooks.BeforeSet != nil {
		replacement, err := h.hooks.BeforeSet(ctx, m)
		if err != nil {
			return err
		}
		if replacement != nil {
			m = *replacement
		}
	}
	if err := h.next.Set(ctx, m); err != nil {
		return err
	}
	if h.hooks.AfterSet != nil {
		h.hooks.AfterSet(ctx, m)
	}
	return nil
}

func (h *Hooked) Delete(ctx context.Context, id string) error {
	if h.hooks.BeforeDelete != nil {
		if err := h.hooks.BeforeDelete(ctx, id); err != nil {
			return err
		}
	}
	if err := h.next.Delete(ctx, id); err != nil {
		return err
	}
	if h.hooks.AfterDelete != nil {
		h.hooks.AfterDelete(ctx, id)
	}
	return nil
}

func (h *Hooked) List(ctx context.Context, f core.Filter) ([]core.Minion, error) {
	if h.hooks.BeforeList != nil {
		if err := h.hooks.BeforeList(ctx, f); err != nil {
			return nil, err
		}
	}
	results, err := h.next.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if h.hooks.AfterList != nil {
		h.hooks.AfterList(ctx, results, f)
	}
	return results, nil
}

func (h *Hooked) Search(ctx context.Context, query string) ([]core.Minion, error) {
	if h.hooks.BeforeSearch != nil {
		if err := h.hooks.BeforeSearch(ctx, query); err != nil {
			return nil, err
		}
	}
	results, err := h.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if h.hooks.AfterSearch != nil {
		h.hooks.AfterSearch(ctx, results, query)
	}
	return results, nil
}

var _ core.Storage = (*Hooked)(nil)
