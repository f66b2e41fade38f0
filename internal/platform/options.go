package platform

import (
	"log/slog"

	"github.com/aretw0/minions/pkg/client"
	"github.com/aretw0/minions/pkg/core"
)

// options holds the internal configuration for a minions store.
type options struct {
	storage    core.Storage
	logger     *slog.Logger
	adapter    string
	config     map[string]interface{}
	types      []core.MinionType
	plugins    []client.Plugin
	middleware []client.Middleware
}

// Option defines a functional option for configuring minions.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterJSON,
		config:  make(map[string]interface{}),
	}
}

// Adapter names accepted by WithAdapter.
const (
	AdapterMemory = "memory"
	AdapterJSON   = "json"
	AdapterYAML   = "yaml"
)

// WithLogger sets the logger for the store and the client.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorage injects a storage adapter. The adapter name and path are
// then ignored.
func WithStorage(s core.Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithAdapter selects the storage adapter by name: "memory", "json"
// (default) or "yaml".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithPath overrides the storage path passed to New or OpenStorage.
func WithPath(path string) Option {
	return func(o *options) {
		o.config["path"] = path
	}
}

// WithPlugins mounts client plugins.
func WithPlugins(p ...client.Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, p...)
	}
}

// WithMiddleware appends client middleware, outermost first.
func WithMiddleware(mw ...client.Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, mw...)
	}
}

// WithTypes registers additional record types.
func WithTypes(types ...core.MinionType) Option {
	return func(o *options) {
		o.types = append(o.types, types...)
	}
}

// WithoutBuiltins starts with an empty type registry.
func WithoutBuiltins() Option {
	return func(o *options) {
		o.config["without_builtins"] = true
	}
}

// WithMustExist requires the storage directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithSystemDir sets the hidden directory holding the persisted index.
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithStrict makes file serializers decode numbers as json.Number.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.config["strict"] = strict
	}
}

// WithWatcherErrorHandler receives errors raised while watching files.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Writes return core.ErrReadOnly.
// 2. The storage directory is not created.
// 3. Index updates are not persisted.
// 4. The dev sandbox is bypassed (uses the real path).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
// By default (true), file stores are redirected into a temporary directory
// so a development run cannot clobber real data.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithForceTemp forces the sandbox even outside development runs.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}
