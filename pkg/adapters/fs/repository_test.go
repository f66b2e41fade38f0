package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/minions/pkg/core"
)

const (
	idA = "0a1b2c3d-0000-4000-8000-00000000000a"
	idB = "0a1b2c3d-0000-4000-8000-00000000000b"
	idC = "9f8e7d6c-0000-4000-8000-00000000000c"
)

func newTestRepo(t *testing.T, cfg Config) *Repository {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = t.TempDir()
	}
	repo := NewRepository(cfg)
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	return repo
}

func record(id, title string, created time.Time) core.Minion {
	return core.Minion{
		ID:           id,
		Title:        title,
		MinionTypeID: "builtin-note",
		Fields:       map[string]any{"content": title + " body"},
		CreatedAt:    created,
		UpdatedAt:    created,
		Status:       core.StatusActive,
	}
}

func TestRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, Config{})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Set Writes Sharded File", func(t *testing.T) {
		if err := repo.Set(ctx, record(idA, "Alpha", base)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		path := filepath.Join(repo.Path, "0a", "1b", idA+".json")
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected record file at %s: %v", path, err)
		}
	})

	t.Run("Get Returns Stored Record", func(t *testing.T) {
		got, ok, err := repo.Get(ctx, idA)
		if err != nil || !ok {
			t.Fatalf("Get failed: ok=%v err=%v", ok, err)
		}
		if got.Title != "Alpha" || got.Fields["content"] != "Alpha body" {
			t.Errorf("unexpected record: %+v", got)
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, ok, err := repo.Get(ctx, "does-not-exist")
		if err != nil || ok {
			t.Errorf("expected absent record, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("Returned Records Are Copies", func(t *testing.T) {
		got, _, _ := repo.Get(ctx, idA)
		got.Fields["content"] = "mutated"
		again, _, _ := repo.Get(ctx, idA)
		if again.Fields["content"] != "Alpha body" {
			t.Error("expected stored record to be unaffected")
		}
	})

	t.Run("Rejects Path-Like IDs", func(t *testing.T) {
		for _, id := range []string{"", "..", "a/b", `a\b`, "..ab", ".hidden", "ab.cd", "a b", "été"} {
			if err := repo.Set(ctx, record(id, "bad", base)); err == nil {
				t.Errorf("expected error for id %q", id)
			}
		}
	})

	t.Run("Dot Prefixed ID Stays Inside Root", func(t *testing.T) {
		outside := filepath.Join(filepath.Dir(repo.Path), "ab", "..ab.json")
		_ = repo.Set(ctx, record("..ab", "escape", base))
		if _, err := os.Stat(outside); !os.IsNotExist(err) {
			t.Fatalf("expected no file outside the root at %s, stat err = %v", outside, err)
		}
		if _, ok, err := repo.Get(ctx, "..ab"); ok || err != nil {
			t.Errorf("expected Get to report absent, got ok=%v err=%v", ok, err)
		}
		if err := repo.Delete(ctx, "..ab"); err != nil {
			t.Errorf("expected Delete to be a no-op, got %v", err)
		}
	})

	t.Run("Delete Removes File", func(t *testing.T) {
		if err := repo.Set(ctx, record(idB, "Beta", base.Add(time.Hour))); err != nil {
			t.Fatal(err)
		}
		if err := repo.Delete(ctx, idB); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, ok, _ := repo.Get(ctx, idB); ok {
			t.Error("expected record to be gone")
		}
		if _, err := os.Stat(filepath.Join(repo.Path, "0a", "1b", idB+".json")); !os.IsNotExist(err) {
			t.Error("expected file to be removed")
		}
	})

	t.Run("Delete Absent Is No-op", func(t *testing.T) {
		if err := repo.Delete(ctx, idC); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestRepository_ListAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t, Config{})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c := record(idC, "charlie", base)
	a := record(idA, "Alpha", base.Add(time.Minute))
	b := record(idB, "bravo", base.Add(2*time.Minute))
	b.MinionTypeID = "builtin-task"
	b.Status = core.StatusTodo
	for _, m := range []core.Minion{a, b, c} {
		if err := repo.Set(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("Default Order Is Creation Time", func(t *testing.T) {
		got, err := repo.List(ctx, core.Filter{})
		if err != nil {
			t.Fatal(err)
		}
		assertIDs(t, got, idC, idA, idB)
	})

	t.Run("Sort By Title", func(t *testing.T) {
		got, _ := repo.List(ctx, core.Filter{SortBy: core.SortByTitle})
		assertIDs(t, got, idA, idB, idC)
	})

	t.Run("Filter By Type", func(t *testing.T) {
		got, _ := repo.List(ctx, core.Filter{MinionTypeID: "builtin-task"})
		assertIDs(t, got, idB)
	})

	t.Run("Search", func(t *testing.T) {
		got, err := repo.Search(ctx, "BRAVO")
		if err != nil {
			t.Fatal(err)
		}
		assertIDs(t, got, idB)
	})
}

func TestRepository_Persistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := newTestRepo(t, Config{Path: dir})
	if err := repo.Set(ctx, record(idA, "Alpha", time.Now().UTC())); err != nil {
		t.Fatal(err)
	}

	t.Run("Reopen Sees Records", func(t *testing.T) {
		reopened := newTestRepo(t, Config{Path: dir})
		if _, ok, _ := reopened.Get(ctx, idA); !ok {
			t.Error("expected record after reopen")
		}
		if _, err := os.Stat(filepath.Join(dir, DefaultSystemDir, "index.json")); err != nil {
			t.Errorf("expected persisted index: %v", err)
		}
	})

	t.Run("Reconcile Detects External Changes", func(t *testing.T) {
		ser := NewJSONSerializer(false)

		// External create.
		data, _ := ser.Marshal(record(idC, "External", time.Now().UTC()))
		extPath := filepath.Join(dir, "9f", "8e", idC+".json")
		if err := os.MkdirAll(filepath.Dir(extPath), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(extPath, data, 0644); err != nil {
			t.Fatal(err)
		}

		// External modify with a distinct mtime.
		edited := record(idA, "Edited", time.Now().UTC())
		data, _ = ser.Marshal(edited)
		aPath := filepath.Join(dir, "0a", "1b", idA+".json")
		if err := os.WriteFile(aPath, data, 0644); err != nil {
			t.Fatal(err)
		}
		future := time.Now().Add(time.Hour)
		_ = os.Chtimes(aPath, future, future)

		events, err := repo.Reconcile(ctx)
		if err != nil {
			t.Fatalf("Reconcile failed: %v", err)
		}
		types := map[string]core.EventType{}
		for _, e := range events {
			types[e.ID] = e.Type
		}
		if types[idC] != core.EventCreate {
			t.Errorf("expected CREATE for %s, got %q", idC, types[idC])
		}
		if types[idA] != core.EventModify {
			t.Errorf("expected MODIFY for %s, got %q", idA, types[idA])
		}
		got, _, _ := repo.Get(ctx, idA)
		if got.Title != "Edited" {
			t.Errorf("expected refreshed title, got %q", got.Title)
		}

		// External delete.
		_ = os.Remove(extPath)
		events, _ = repo.Reconcile(ctx)
		if len(events) != 1 || events[0].Type != core.EventDelete || events[0].ID != idC {
			t.Errorf("expected single DELETE event, got %v", events)
		}
	})

	t.Run("Skips Corrupt Files", func(t *testing.T) {
		bad := filepath.Join(dir, "ff", "ff", "ffff.json")
		_ = os.MkdirAll(filepath.Dir(bad), 0755)
		_ = os.WriteFile(bad, []byte("{broken"), 0644)

		if _, err := repo.Reconcile(ctx); err != nil {
			t.Fatalf("expected corrupt file to be skipped, got %v", err)
		}
		if _, ok, _ := repo.Get(ctx, "ffff"); ok {
			t.Error("corrupt record should not be indexed")
		}
	})
}

func TestRepository_Options(t *testing.T) {
	ctx := context.Background()

	t.Run("MustExist", func(t *testing.T) {
		repo := NewRepository(Config{Path: filepath.Join(t.TempDir(), "missing"), MustExist: true})
		if err := repo.Initialize(ctx); err == nil {
			t.Error("expected error for missing root")
		}
	})

	t.Run("ReadOnly", func(t *testing.T) {
		repo := newTestRepo(t, Config{})
		repo.SetReadOnly(true)
		if err := repo.Set(ctx, record(idA, "x", time.Now())); !errors.Is(err, core.ErrReadOnly) {
			t.Errorf("expected ErrReadOnly, got %v", err)
		}
		if err := repo.Delete(ctx, idA); !errors.Is(err, core.ErrReadOnly) {
			t.Errorf("expected ErrReadOnly, got %v", err)
		}
		if _, err := repo.Begin(ctx); !errors.Is(err, core.ErrReadOnly) {
			t.Errorf("expected ErrReadOnly, got %v", err)
		}
	})

	t.Run("YAML Format", func(t *testing.T) {
		repo := newTestRepo(t, Config{Serializer: NewYAMLSerializer(false)})
		if err := repo.Set(ctx, record(idA, "Yaml", time.Now().UTC())); err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(filepath.Join(repo.Path, "0a", "1b", idA+".yaml")); err != nil {
			t.Errorf("expected yaml record file: %v", err)
		}
		state := repo.State().(RepositoryState)
		if state.Format != "yaml" || state.Records != 1 {
			t.Errorf("unexpected state: %+v", state)
		}
	})

	t.Run("State", func(t *testing.T) {
		repo := newTestRepo(t, Config{})
		state, ok := repo.State().(RepositoryState)
		if !ok {
			t.Fatalf("unexpected state type %T", repo.State())
		}
		if state.SystemDir != DefaultSystemDir || state.LastReconcile == nil || state.WatcherActive {
			t.Errorf("unexpected state: %+v", state)
		}
		if repo.ComponentType() != "repository" {
			t.Errorf("unexpected component type %q", repo.ComponentType())
		}
	})
}

func assertIDs(t *testing.T, got []core.Minion, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got[i].ID, want[i])
		}
	}
}
