package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/minions/pkg/adapters/fs"
	"github.com/aretw0/minions/pkg/adapters/memory"
	"github.com/aretw0/minions/pkg/core"
)

// OpenStorage builds and initializes the storage adapter selected by opts.
// The uri is adapter-specific: a directory for the file adapters, ignored
// by the memory adapter.
func OpenStorage(uri string, opts ...Option) (core.Storage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return openStorage(context.Background(), uri, o)
}

func openStorage(ctx context.Context, uri string, o *options) (core.Storage, error) {
	if o.storage != nil {
		return o.storage, nil
	}
	if p, ok := o.config["path"].(string); ok && p != "" {
		uri = p
	}

	switch o.adapter {
	case AdapterMemory:
		return memory.New(), nil
	case AdapterJSON, AdapterYAML, "":
		repo, err := initFS(uri, o)
		if err != nil {
			return nil, err
		}
		if err := repo.Initialize(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// initFS handles the configuration of the file adapters.
func initFS(path string, o *options) (*fs.Repository, error) {
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	strict, _ := o.config["strict"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))
	isReadOnly, _ := o.config["read_only"].(bool)

	// Default to true (safe) if not present.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Read-only stores cannot damage anything.
	bypassSafety := isReadOnly || !devSafety

	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolvedPath := ResolvePath(path, useTemp)

	if o.logger != nil && useTemp {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolvedPath)
	}

	serializer, err := fs.SerializerFor(o.adapter, strict)
	if err != nil {
		return nil, err
	}

	return fs.NewRepository(fs.Config{
		Path:         resolvedPath,
		MustExist:    mustExist,
		ReadOnly:     isReadOnly,
		Logger:       o.logger,
		SystemDir:    systemDir,
		Serializer:   serializer,
		ErrorHandler: errorHandler,
	}), nil
}
