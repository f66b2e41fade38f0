package fs

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/minions/pkg/core"
)

// Transaction implements core.Transaction for the filesystem.
// Staged writes are applied file by file on Commit; each file write is
// atomic but the batch as a whole is not.
type Transaction struct {
	repo    *Repository
	staged  map[string]core.Minion // ID -> record
	order   []string
	deleted map[string]bool // ID -> bool
	mu      sync.Mutex
	closed  bool
}

// NewTransaction creates a new transaction.
func NewTransaction(repo *Repository) *Transaction {
	return &Transaction{
		repo:    repo,
		staged:  make(map[string]core.Minion),
		deleted: make(map[string]bool),
	}
}

// Set stages a record for saving.
func (t *Transaction) Set(ctx context.Context, m core.Minion) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.ErrTransactionClosed
	}
	if _, err := t.repo.relPath(m.ID); err != nil {
		return err
	}

	if _, ok := t.staged[m.ID]; !ok {
		t.order = append(t.order, m.ID)
	}
	t.staged[m.ID] = m.Clone()
	delete(t.deleted, m.ID)
	return nil
}

// Get retrieves a record, favoring staged changes.
func (t *Transaction) Get(ctx context.Context, id string) (core.Minion, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.Minion{}, false, core.ErrTransactionClosed
	}
	if t.deleted[id] {
		return core.Minion{}, false, nil
	}
	if m, ok := t.staged[id]; ok {
		return m.Clone(), true, nil
	}
	return t.repo.Get(ctx, id)
}

// Delete stages a record for deletion.
func (t *Transaction) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.ErrTransactionClosed
	}

	t.deleted[id] = true
	if _, ok := t.staged[id]; ok {
		delete(t.staged, id)
		t.order = slices.DeleteFunc(t.order, func(v string) bool { return v == id })
	}
	return nil
}

// Commit applies all staged changes and persists the index.
func (t *Transaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return core.ErrTransactionClosed
	}
	if t.repo.isReadOnly() {
		return core.ErrReadOnly
	}

	for _, id := range t.order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.repo.write(t.staged[id]); err != nil {
			return err
		}
	}
	for id := range t.deleted {
		if err := t.repo.remove(id); err != nil {
			return err
		}
	}

	if err := t.repo.cache.Save(); err != nil {
		t.repo.config.Logger.Warn("failed to persist index after commit", "error", err)
	}

	t.repo.config.Logger.Debug("transaction committed", "written", len(t.order), "deleted", len(t.deleted))
	t.closed = true
	return nil
}

// Rollback discards all staged changes.
func (t *Transaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.staged = nil
	t.deleted = nil
	t.order = nil
	t.closed = true
	return nil
}

var _ core.Transaction = (*Transaction)(nil)
