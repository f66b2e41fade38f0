// Package fs implements a sharded file-backed core.Storage.
//
// Each record lives in its own file at
//
//	<root>/<hex[0:2]>/<hex[2:4]>/<id><ext>
//
// where hex is the id with hyphens removed. An in-memory index, persisted
// under the system directory, serves reads, listings and searches.
package fs

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/minions/pkg/core"
	"github.com/aretw0/minions/pkg/storage"
)

// DefaultSystemDir holds the persisted index inside the storage root.
const DefaultSystemDir = ".index"

// Repository implements core.TransactionalStorage on the filesystem.
type Repository struct {
	Path       string
	config     Config
	cache      *cache
	serializer Serializer

	mu            sync.RWMutex
	readOnly      bool
	watcherActive bool
	lastReconcile *time.Time

	// Checksums of files written by this process, used to drop the watcher
	// events our own writes produce.
	ownMu     sync.Mutex
	ownWrites map[string][32]byte
	ownDels   map[string]bool
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path       string
	MustExist  bool
	ReadOnly   bool
	Logger     *slog.Logger
	SystemDir  string     // defaults to DefaultSystemDir
	Serializer Serializer // defaults to JSON
	// ErrorHandler receives asynchronous watcher errors.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository. Call
// Initialize before use.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Serializer == nil {
		config.Serializer = NewJSONSerializer(false)
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Repository{
		Path:       config.Path,
		config:     config,
		cache:      newCache(config.Path, config.SystemDir),
		serializer: config.Serializer,
		readOnly:   config.ReadOnly,
		ownWrites:  make(map[string][32]byte),
		ownDels:    make(map[string]bool),
	}
}

// Initialize creates the root directory (unless MustExist) and builds the
// index from disk. Unreadable or corrupt files are skipped and logged.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("storage path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("storage path is not a directory: %s", r.Path)
		}
	} else if !r.readOnly {
		if err := os.MkdirAll(r.Path, 0755); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	if err := r.cache.Load(); err != nil {
		return err
	}
	if _, err := r.Reconcile(ctx); err != nil {
		return err
	}
	return nil
}

// Reconcile rescans the storage root, refreshes the index and returns the
// changes found on disk since the last scan.
func (r *Repository) Reconcile(ctx context.Context) ([]core.Event, error) {
	seen := make(map[string]bool)
	var events []core.Event

	err := filepath.WalkDir(r.Path, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == r.Path {
				return filepath.SkipAll
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != r.Path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !r.isRecordFile(path) {
			return nil
		}

		rel, err := filepath.Rel(r.Path, path)
		if err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		seen[rel] = true

		if _, fresh := r.cache.Get(rel, info.ModTime()); fresh {
			return nil
		}
		_, known := r.cache.Lookup(rel)

		m, err := r.readFile(path)
		if err != nil {
			r.config.Logger.Warn("skipping unreadable record file", "path", rel, "error", err)
			return nil
		}
		r.cache.Set(rel, &indexEntry{ID: m.ID, Record: m, LastModified: info.ModTime()})

		eType := core.EventCreate
		if known {
			eType = core.EventModify
		}
		events = append(events, core.Event{Type: eType, ID: m.ID, Timestamp: time.Now().Unix()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan storage: %w", err)
	}

	r.cache.index.mu.RLock()
	for rel, e := range r.cache.index.Entries {
		if !seen[rel] {
			events = append(events, core.Event{Type: core.EventDelete, ID: e.ID, Timestamp: time.Now().Unix()})
		}
	}
	r.cache.index.mu.RUnlock()
	r.cache.Prune(seen)

	if !r.readOnly {
		if err := r.cache.Save(); err != nil {
			r.config.Logger.Warn("failed to persist index", "error", err)
		}
	}
	r.recordReconcile()
	r.config.Logger.Debug("index reconciled", "records", r.cache.Len(), "changes", len(events))
	return events, nil
}

// relPath returns the sharded path of id relative to the root. Ids are
// limited to ASCII letters, digits, '-' and '_' so that every shard part
// stays a plain directory name inside the root.
func (r *Repository) relPath(id string) (string, error) {
	if !validID(id) {
		return "", fmt.Errorf("invalid record id %q", id)
	}
	hex := strings.ReplaceAll(id, "-", "")
	a := min(2, len(hex))
	b := min(4, len(hex))
	return filepath.Join(hex[:a], hex[a:b], id+r.serializer.Ext()), nil
}

func validID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

func (r *Repository) isRecordFile(path string) bool {
	return filepath.Ext(path) == r.serializer.Ext() && !isTempFile(path)
}

// resolveID derives a record id from a record file path.
func (r *Repository) resolveID(path string) (string, error) {
	if !r.isRecordFile(path) {
		return "", fmt.Errorf("not a record file: %s", path)
	}
	return strings.TrimSuffix(filepath.Base(path), r.serializer.Ext()), nil
}

func (r *Repository) readFile(path string) (core.Minion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Minion{}, err
	}
	return r.serializer.Unmarshal(data)
}

// Get retrieves a record from the index.
func (r *Repository) Get(ctx context.Context, id string) (core.Minion, bool, error) {
	rel, err := r.relPath(id)
	if err != nil {
		return core.Minion{}, false, nil
	}
	e, ok := r.cache.Lookup(rel)
	if !ok {
		return core.Minion{}, false, nil
	}
	return e.Record.Clone(), true, nil
}

// Set writes a record atomically and updates the index.
func (r *Repository) Set(ctx context.Context, m core.Minion) error {
	if r.isReadOnly() {
		return core.ErrReadOnly
	}
	if err := r.write(m); err != nil {
		return err
	}
	return r.cache.Save()
}

func (r *Repository) write(m core.Minion) error {
	rel, err := r.relPath(m.ID)
	if err != nil {
		return err
	}
	data, err := r.serializer.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to serialize record %s: %w", m.ID, err)
	}

	r.markOwnWrite(rel, data)
	full := filepath.Join(r.Path, rel)
	if err := writeRecordFile(full, data); err != nil {
		return err
	}

	mtime := time.Now()
	if info, err := os.Stat(full); err == nil {
		mtime = info.ModTime()
	}
	r.cache.Set(rel, &indexEntry{ID: m.ID, Record: m.Clone(), LastModified: mtime})
	return nil
}

// Delete removes a record file. Deleting an absent id is a no-op.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.isReadOnly() {
		return core.ErrReadOnly
	}
	if err := r.remove(id); err != nil {
		return err
	}
	return r.cache.Save()
}

func (r *Repository) remove(id string) error {
	rel, err := r.relPath(id)
	if err != nil {
		return nil
	}
	if _, ok := r.cache.Lookup(rel); ok {
		r.markOwnDelete(rel)
	}
	if err := removeRecordFile(filepath.Join(r.Path, rel)); err != nil {
		return err
	}
	r.cache.Delete(rel)
	return nil
}

// List returns the indexed records matching f. Without a sort key records
// are ordered by creation time, then id.
func (r *Repository) List(ctx context.Context, f core.Filter) ([]core.Minion, error) {
	return storage.ApplyFilter(r.records(), f), nil
}

// Search matches query tokens against the indexed records.
func (r *Repository) Search(ctx context.Context, query string) ([]core.Minion, error) {
	return storage.Search(r.records(), query), nil
}

func (r *Repository) records() []core.Minion {
	all := r.cache.Records()
	slices.SortFunc(all, func(a, b core.Minion) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return all
}

// Begin starts a new transaction.
func (r *Repository) Begin(ctx context.Context) (core.Transaction, error) {
	if r.isReadOnly() {
		return nil, core.ErrReadOnly
	}
	return NewTransaction(r), nil
}

// SetReadOnly toggles read-only mode.
func (r *Repository) SetReadOnly(readOnly bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readOnly = readOnly
}

func (r *Repository) isReadOnly() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.readOnly
}

func (r *Repository) markOwnWrite(rel string, data []byte) {
	r.ownMu.Lock()
	defer r.ownMu.Unlock()
	r.ownWrites[rel] = sha256.Sum256(data)
	delete(r.ownDels, rel)
}

func (r *Repository) markOwnDelete(rel string) {
	r.ownMu.Lock()
	defer r.ownMu.Unlock()
	r.ownDels[rel] = true
	delete(r.ownWrites, rel)
}

// isOwnChange reports whether the file at rel is in the state this process
// last left it in.
func (r *Repository) isOwnChange(rel string, exists bool, data []byte) bool {
	r.ownMu.Lock()
	defer r.ownMu.Unlock()
	if !exists {
		if r.ownDels[rel] {
			delete(r.ownDels, rel)
			return true
		}
		return false
	}
	sum, ok := r.ownWrites[rel]
	return ok && sum == sha256.Sum256(data)
}

var (
	_ core.TransactionalStorage = (*Repository)(nil)
	_ core.Initializer          = (*Repository)(nil)
	_ core.Watchable            = (*Repository)(nil)
)
