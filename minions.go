package minions

import (
	"log/slog"

	"github.com/aretw0/minions/internal/platform"
	"github.com/aretw0/minions/pkg/client"
	"github.com/aretw0/minions/pkg/core"
)

// --- Configuration ---

// Option defines a functional option for configuring a minions client.
type Option = platform.Option

// Adapter names accepted by WithAdapter.
const (
	AdapterMemory = platform.AdapterMemory
	AdapterJSON   = platform.AdapterJSON
	AdapterYAML   = platform.AdapterYAML
)

// WithLogger sets the logger for the store and the client.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStorage allows injecting a custom storage adapter.
func WithStorage(s core.Storage) Option {
	return platform.WithStorage(s)
}

// WithAdapter selects the storage adapter by name ("memory", "json", "yaml").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithPath overrides the storage directory.
func WithPath(path string) Option {
	return platform.WithPath(path)
}

// WithPlugins mounts client plugins in order.
func WithPlugins(p ...client.Plugin) Option {
	return platform.WithPlugins(p...)
}

// WithMiddleware appends operation middleware, outermost first.
func WithMiddleware(mw ...client.Middleware) Option {
	return platform.WithMiddleware(mw...)
}

// WithTypes registers additional record types.
func WithTypes(types ...core.MinionType) Option {
	return platform.WithTypes(types...)
}

// WithoutBuiltins starts with an empty type registry.
func WithoutBuiltins() Option {
	return platform.WithoutBuiltins()
}

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist ensures the storage directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithSystemDir sets the hidden directory holding the file index.
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithStrict decodes stored numbers as json.Number.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithDevSafety controls the temp-dir sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// --- Factory ---

// New opens the configured storage at path and returns a client wired to it.
func New(path string, opts ...Option) (*client.Client, error) {
	return platform.New(path, opts...)
}

// OpenStorage opens the configured storage without a client.
func OpenStorage(path string, opts ...Option) (core.Storage, error) {
	return platform.OpenStorage(path, opts...)
}

// --- Safety & Utils ---

// ResolvePath determines the actual storage path based on safety rules.
func ResolvePath(userPath string, forceTemp bool) string {
	return platform.ResolvePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory holding .minions or minions.yaml.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
