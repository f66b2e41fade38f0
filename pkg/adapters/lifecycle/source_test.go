package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/minions/pkg/core"
)

type fakeWatchable struct {
	ch      chan core.Event
	err     error
	pattern string
}

func (f *fakeWatchable) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	f.pattern = pattern
	return f.ch, f.err
}

func TestNewSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 1)
	src := NewSource(in)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventCreate, ID: "abc"}

	select {
	case e := <-src.Events():
		got, ok := e.(core.Event)
		require.True(t, ok)
		assert.Equal(t, "abc", got.ID)
		assert.Equal(t, core.EventCreate, got.Type)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for bridged event")
	}

	close(in)
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "expected output to close with input")
	case <-time.After(time.Second):
		t.Fatal("output channel was not closed")
	}
}

func TestWatchSource(t *testing.T) {
	t.Run("Opens Watch On Start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		w := &fakeWatchable{ch: make(chan core.Event, 1)}
		src := WatchSource(w, "task-*")
		require.NoError(t, src.Start(ctx))
		assert.Equal(t, "task-*", w.pattern)

		w.ch <- core.Event{Type: core.EventDelete, ID: "task-1"}
		select {
		case e := <-src.Events():
			assert.Contains(t, e.String(), "task-1")
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for event")
		}

		cancel()
		select {
		case _, ok := <-src.Events():
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("output channel was not closed on cancel")
		}
	})

	t.Run("Propagates Watch Error", func(t *testing.T) {
		w := &fakeWatchable{err: errors.New("boom")}
		err := WatchSource(w, "*").Start(context.Background())
		assert.ErrorContains(t, err, "boom")
	})
}
