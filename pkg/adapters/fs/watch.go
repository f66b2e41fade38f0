package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/minions/pkg/core"
)

// Watch streams changes made to record files by other processes. Only
// records whose id matches the doublestar pattern are reported ("" and
// "*" match everything). Writes made through this repository are not
// reported. The channel is closed once ctx is done.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	events := make(chan core.Event, 16)
	w := newWatchWorker(r, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.Stop(stopCtx); err != nil {
			r.config.Logger.Debug("watcher stop", "error", err)
		}
		close(events)
		return nil
	})

	return events, nil
}

// recursiveAdd registers dir and every non-hidden subdirectory.
func (r *Repository) recursiveAdd(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != r.Path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// shouldIgnore filters temp files, hidden paths and ids outside pattern.
func (r *Repository) shouldIgnore(path, pattern string) bool {
	if !r.isRecordFile(path) {
		return true
	}
	rel, err := filepath.Rel(r.Path, path)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	id, err := r.resolveID(path)
	if err != nil {
		return true
	}
	ok, err := doublestar.Match(pattern, id)
	return err != nil || !ok
}

// refresh brings the index entry for path in line with the disk and
// returns the resulting event type. An empty type means nothing to report.
func (r *Repository) refresh(path string) core.EventType {
	rel, err := filepath.Rel(r.Path, path)
	if err != nil {
		return ""
	}
	_, known := r.cache.Lookup(rel)

	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.config.Logger.Debug("stat failed", "path", rel, "error", err)
			return ""
		}
		if r.isOwnChange(rel, false, nil) || !known {
			return ""
		}
		r.cache.Delete(rel)
		r.saveIndex()
		return core.EventDelete
	}
	if _, fresh := r.cache.Get(rel, info.ModTime()); fresh {
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		r.config.Logger.Debug("read failed", "path", rel, "error", err)
		return ""
	}
	if r.isOwnChange(rel, true, data) {
		return ""
	}
	m, err := r.serializer.Unmarshal(data)
	if err != nil {
		// Possibly a partial write; the next write event retries.
		r.config.Logger.Debug("skipping unparsable record", "path", rel, "error", err)
		return ""
	}

	r.cache.Set(rel, &indexEntry{ID: m.ID, Record: m, LastModified: info.ModTime()})
	r.saveIndex()

	if known {
		return core.EventModify
	}
	return core.EventCreate
}

func (r *Repository) saveIndex() {
	if r.isReadOnly() {
		return
	}
	if err := r.cache.Save(); err != nil {
		r.config.Logger.Warn("failed to persist index", "error", err)
	}
}
