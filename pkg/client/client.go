// Package client is the facade over the registry, the relation graph and
// an optional storage adapter. Every operation runs through an onion-style
// middleware chain, and plugins can mount extra APIs under a namespace.
package client

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/minions/pkg/core"
	"github.com/aretw0/minions/pkg/registry"
	"github.com/aretw0/minions/pkg/relations"
)

// Client orchestrates types, relations and persistence.
type Client struct {
	registry   *registry.Registry
	graph      *relations.Graph
	storage    core.Storage
	middleware []Middleware
	plugins    map[string]any
	pluginIDs  []string
	logger     *slog.Logger
	validate   *validator.Validate
}

type options struct {
	registry     *registry.Registry
	registryOpts []registry.Option
	graph        *relations.Graph
	storage      core.Storage
	middleware   []Middleware
	plugins      []Plugin
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*options)

// WithStorage enables the persistence operations.
func WithStorage(s core.Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithMiddleware appends middleware. The first one registered is the
// outermost layer.
func WithMiddleware(mw ...Middleware) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, mw...)
	}
}

// WithPlugins mounts plugins in order during New.
func WithPlugins(p ...Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, p...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry uses an existing registry instead of building one.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithGraph uses an existing relation graph.
func WithGraph(g *relations.Graph) Option {
	return func(o *options) {
		o.graph = g
	}
}

// WithTypes registers additional types in the client's registry.
func WithTypes(types ...core.MinionType) Option {
	return func(o *options) {
		o.registryOpts = append(o.registryOpts, registry.WithTypes(types...))
	}
}

// WithoutBuiltins starts the client's registry empty.
func WithoutBuiltins() Option {
	return func(o *options) {
		o.registryOpts = append(o.registryOpts, registry.WithoutBuiltins())
	}
}

// New builds a Client and mounts its plugins.
func New(opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	reg := o.registry
	if reg == nil {
		var err error
		reg, err = registry.New(append([]registry.Option{registry.WithLogger(o.logger)}, o.registryOpts...)...)
		if err != nil {
			return nil, fmt.Errorf("failed to build type registry: %w", err)
		}
	}
	graph := o.graph
	if graph == nil {
		graph = relations.New()
	}

	c := &Client{
		registry:   reg,
		graph:      graph,
		storage:    o.storage,
		middleware: o.middleware,
		plugins:    make(map[string]any),
		logger:     o.logger,
		validate:   newValidator(),
	}

	for _, p := range o.plugins {
		ns := p.Namespace()
		if ns == "" {
			return nil, fmt.Errorf("plugin has an empty namespace")
		}
		if _, exists := c.plugins[ns]; exists {
			return nil, fmt.Errorf("plugin namespace %q: %w", ns, core.ErrDuplicateKey)
		}
		api, err := p.Init(c)
		if err != nil {
			return nil, fmt.Errorf("failed to init plugin %q: %w", ns, err)
		}
		c.plugins[ns] = api
		c.pluginIDs = append(c.pluginIDs, ns)
		c.logger.Debug("plugin mounted", "namespace", ns)
	}

	c.logger.Debug("client ready",
		"types", len(reg.List()),
		"middleware", len(c.middleware),
		"plugins", len(c.pluginIDs),
		"storage", c.storage != nil,
	)
	return c, nil
}

// Registry returns the type registry.
func (c *Client) Registry() *registry.Registry { return c.registry }

// Graph returns the relation graph.
func (c *Client) Graph() *relations.Graph { return c.graph }

// Storage returns the configured storage, or nil.
func (c *Client) Storage() core.Storage { return c.storage }

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger { return c.logger }

// Plugin returns the API mounted under namespace ns.
func (c *Client) Plugin(ns string) (any, bool) {
	api, ok := c.plugins[ns]
	return api, ok
}

func (c *Client) requireStorage() (core.Storage, error) {
	if c.storage == nil {
		return nil, core.ErrNoStorage
	}
	return c.storage, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json names in errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
