package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/minions/pkg/adapters/memory"
	"github.com/aretw0/minions/pkg/core"
	"github.com/aretw0/minions/pkg/storage"
)

func TestWithHooks(t *testing.T) {
	ctx := context.Background()
	var calls []string

	s := storage.WithHooks(memory.New(), storage.Hooks{
		BeforeSet: func(ctx context.Context, m core.Minion) (*core.Minion, error) {
			calls = append(calls, "beforeSet")
			m.Title = strings.ToUpper(m.Title)
			return &m, nil
		},
		AfterSet: func(ctx context.Context, m core.Minion) {
			calls = append(calls, "afterSet:"+m.Title)
		},
		AfterGet: func(ctx context.Context, id string, m core.Minion, found bool) {
			calls = append(calls, "afterGet")
		},
		BeforeDelete: func(ctx context.Context, id string) error {
			if id == "protected" {
				return errors.New("protected record")
			}
			return nil
		},
		AfterSearch: func(ctx context.Context, results []core.Minion, query string) {
			calls = append(calls, "afterSearch:"+query)
		},
		AfterList: func(ctx context.Context, results []core.Minion, f core.Filter) {
			calls = append(calls, "afterList")
		},
	})

	require.NoError(t, s.Set(ctx, core.Minion{ID: "1", Title: "hello", SearchableText: "hello"}))
	got, ok, err := s.Get(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "HELLO", got.Title)

	_, err = s.Search(ctx, "hello")
	require.NoError(t, err)
	_, err = s.List(ctx, core.Filter{})
	require.NoError(t, err)

	assert.Equal(t, []string{"beforeSet", "afterSet:HELLO", "afterGet", "afterSearch:hello", "afterList"}, calls)

	require.NoError(t, s.Set(ctx, core.Minion{ID: "protected"}))
	assert.Error(t, s.Delete(ctx, "protected"))
	_, ok, _ = s.Unwrap().Get(ctx, "protected")
	assert.True(t, ok)
}
