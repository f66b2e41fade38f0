package fs

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"

	"github.com/aretw0/minions/pkg/core"
)

// A supervised watch worker that loses its fsnotify watcher is replaced,
// and the replacement keeps reporting records written by other processes.
func TestWatchWorker_SupervisedRestartKeepsStreaming(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newTestRepo(t, Config{SystemDir: ".minions-index"})

	events := make(chan core.Event, 8)
	spawned := make(chan *watchWorker, 2)

	sup := supervisor.New("minions-watch", supervisor.StrategyOneForOne, supervisor.Spec{
		Name: "fs-watch",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			w := newWatchWorker(repo, "*", events)
			spawned <- w
			return w, nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      1,
			ResetDuration:   50 * time.Millisecond,
			MaxRestarts:     2,
			MaxDuration:     200 * time.Millisecond,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	})
	if err := sup.Start(ctx); err != nil {
		t.Fatalf("supervisor start: %v", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer stopCancel()
		if err := sup.Stop(stopCtx); err != nil {
			t.Errorf("supervisor stop: %v", err)
		}
	}()

	first := nextWorker(t, spawned)
	awaitWatcherReady(t, first)
	waitForWatcher(t, repo, true)

	// Kill the underlying fsnotify watcher; the run loop fails and the
	// supervisor spawns a fresh worker.
	_ = first.watcher.Close()

	second := nextWorker(t, spawned)
	if first == second {
		t.Fatal("expected a new worker after the watcher failed")
	}
	awaitWatcherReady(t, second)
	waitForWatcher(t, repo, true)

	// Another process writes into the same store.
	other := NewRepository(Config{Path: repo.Path, SystemDir: ".minions-index"})
	if err := other.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if err := other.Set(ctx, record(idC, "External", time.Now())); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case e := <-events:
			if e.ID != idC {
				continue
			}
			if e.Type != core.EventCreate {
				t.Fatalf("expected %s for %s, got %s", core.EventCreate, idC, e.Type)
			}
			if _, ok, _ := repo.Get(ctx, idC); !ok {
				t.Error("expected the watched repository to index the external record")
			}
			return
		case <-deadline:
			t.Fatalf("no event for externally created record %s", idC)
		}
	}
}

func nextWorker(t *testing.T, ch <-chan *watchWorker) *watchWorker {
	t.Helper()

	select {
	case w := <-ch:
		return w
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for the supervisor to spawn a worker")
		return nil
	}
}

// awaitWatcherReady polls until the worker has created its fsnotify watcher.
func awaitWatcherReady(t *testing.T, w *watchWorker) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for w.watcher == nil {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for the fsnotify watcher")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// waitForWatcher polls the repository state until WatcherActive equals want.
func waitForWatcher(t *testing.T, repo *Repository, want bool) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		if state, ok := repo.State().(RepositoryState); ok && state.WatcherActive == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for WatcherActive=%v", want)
		case <-time.After(10 * time.Millisecond):
		}
	}
}
