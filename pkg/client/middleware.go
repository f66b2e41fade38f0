package client

import (
	"context"
	"fmt"

	"github.com/aretw0/minions/pkg/core"
)

// Operation names an interceptable client operation.
type Operation string

const (
	OpCreate     Operation = "create"
	OpUpdate     Operation = "update"
	OpSoftDelete Operation = "softDelete"
	OpHardDelete Operation = "hardDelete"
	OpRestore    Operation = "restore"
	OpSave       Operation = "save"
	OpLoad       Operation = "load"
	OpRemove     Operation = "remove"
	OpList       Operation = "list"
	OpSearch     Operation = "search"
	OpMigrate    Operation = "migrate"
)

// Context is the mutable state shared by one operation's middleware chain.
type Context struct {
	Operation Operation
	// Args holds the operation arguments keyed by name (e.g. "typeSlug",
	// "input", "minion", "id", "filter", "query").
	Args map[string]any
	// Result is set by the core operation, or by a middleware that
	// short-circuits.
	Result   any
	Metadata map[string]any
}

// Next continues with the rest of the chain. It may be called at most once.
type Next func() error

// Middleware intercepts an operation. Work placed after next() runs once
// every inner layer has finished. Not calling next skips the operation.
type Middleware func(ctx context.Context, mc *Context, next Next) error

// run executes the middleware chain around fn.
func (c *Client) run(ctx context.Context, op Operation, args map[string]any, fn func(mc *Context) error) (*Context, error) {
	mc := &Context{
		Operation: op,
		Args:      args,
		Metadata:  make(map[string]any),
	}

	index := -1
	var dispatch func(i int) error
	dispatch = func(i int) error {
		if i <= index {
			return fmt.Errorf("%s: %w", op, core.ErrNextCalledTwice)
		}
		index = i
		if i == len(c.middleware) {
			return fn(mc)
		}
		return c.middleware[i](ctx, mc, func() error { return dispatch(i + 1) })
	}

	return mc, dispatch(0)
}

// resultAs extracts the typed result of a finished chain.
func resultAs[T any](mc *Context, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if mc.Result == nil {
		return zero, fmt.Errorf("%s: %w", mc.Operation, core.ErrNoResult)
	}
	v, ok := mc.Result.(T)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected result type %T", mc.Operation, mc.Result)
	}
	return v, nil
}
