package client_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/minions/pkg/adapters/memory"
	"github.com/aretw0/minions/pkg/client"
	"github.com/aretw0/minions/pkg/core"
)

func recorder(name string, trace *[]string) client.Middleware {
	return func(ctx context.Context, mc *client.Context, next client.Next) error {
		*trace = append(*trace, name+":before")
		err := next()
		*trace = append(*trace, name+":after")
		return err
	}
}

func TestMiddleware_OnionOrder(t *testing.T) {
	var trace []string
	c, err := client.New(client.WithMiddleware(recorder("outer", &trace), recorder("inner", &trace)))
	require.NoError(t, err)

	_, err = c.Create(context.Background(), "note", note("x"))
	require.NoError(t, err)

	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, trace)
}

func TestMiddleware_Context(t *testing.T) {
	var seen *client.Context
	capture := func(ctx context.Context, mc *client.Context, next client.Next) error {
		mc.Metadata["traceId"] = "t-1"
		err := next()
		seen = mc
		return err
	}
	c, err := client.New(client.WithMiddleware(capture))
	require.NoError(t, err)

	w, err := c.Create(context.Background(), "note", note("x"))
	require.NoError(t, err)

	assert.Equal(t, client.OpCreate, seen.Operation)
	assert.Equal(t, "note", seen.Args["typeSlug"])
	assert.Same(t, w, seen.Result)
	assert.Equal(t, "t-1", seen.Metadata["traceId"])
}

func TestMiddleware_ShortCircuit(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	t.Run("Skips Core Operation", func(t *testing.T) {
		block := func(ctx context.Context, mc *client.Context, next client.Next) error {
			if mc.Operation == client.OpSave {
				return nil
			}
			return next()
		}
		c, err := client.New(client.WithStorage(store), client.WithMiddleware(block))
		require.NoError(t, err)

		w, err := c.Create(ctx, "note", note("x"))
		require.NoError(t, err)
		require.NoError(t, w.Save(ctx))
		assert.Zero(t, store.Len())
	})

	t.Run("Missing Result", func(t *testing.T) {
		skip := func(ctx context.Context, mc *client.Context, next client.Next) error { return nil }
		c, err := client.New(client.WithMiddleware(skip))
		require.NoError(t, err)

		_, err = c.Create(ctx, "note", note("x"))
		assert.ErrorIs(t, err, core.ErrNoResult)
	})

	t.Run("Injected Result", func(t *testing.T) {
		cached := core.Minion{ID: "cached", Title: "From cache"}
		hit := func(ctx context.Context, mc *client.Context, next client.Next) error {
			if mc.Operation == client.OpLoad {
				mc.Result = cached
				return nil
			}
			return next()
		}
		c, err := client.New(client.WithStorage(store), client.WithMiddleware(hit))
		require.NoError(t, err)

		got, ok, err := c.Load(ctx, "anything")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "From cache", got.Title)
	})

	t.Run("Error Propagates", func(t *testing.T) {
		deny := func(ctx context.Context, mc *client.Context, next client.Next) error {
			return errors.New("denied")
		}
		c, err := client.New(client.WithMiddleware(deny))
		require.NoError(t, err)

		_, err = c.Create(ctx, "note", note("x"))
		assert.EqualError(t, err, "denied")
	})
}

func TestMiddleware_NextCalledTwice(t *testing.T) {
	calls := 0
	counter := func(ctx context.Context, mc *client.Context, next client.Next) error {
		calls++
		return next()
	}
	twice := func(ctx context.Context, mc *client.Context, next client.Next) error {
		if err := next(); err != nil {
			return err
		}
		return next()
	}
	c, err := client.New(client.WithMiddleware(twice, counter))
	require.NoError(t, err)

	_, err = c.Create(context.Background(), "note", note("x"))
	assert.ErrorIs(t, err, core.ErrNextCalledTwice)
	assert.Equal(t, 1, calls)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := client.NewMetrics(reg)
	c, err := client.New(client.WithMiddleware(m.Middleware()))
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = c.Create(ctx, "note", note("a"))
	_, _ = c.Create(ctx, "note", note("b"))
	_, _ = c.Create(ctx, "note", core.CreateMinionInput{Title: "invalid"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("create", "error")))

	count, err := testutil.GatherAndCount(reg, "minions_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c, err := client.New(client.WithMiddleware(client.Logging(logger)))
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = c.Create(ctx, "note", note("a"))
	_, _ = c.Create(ctx, "missing-type", note("a"))

	out := buf.String()
	assert.Contains(t, out, "operation completed")
	assert.Contains(t, out, "op=create")
	assert.Contains(t, out, "operation failed")
	assert.Contains(t, out, "unknown minion type")
}
