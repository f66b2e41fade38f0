package platform

import (
	"context"

	"github.com/aretw0/minions/pkg/client"
)

// New opens the storage selected by opts and returns a client wired to it.
//
//	c, err := minions.New("./data", minions.WithAdapter("yaml"))
func New(uri string, opts ...Option) (*client.Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	store, err := openStorage(context.Background(), uri, o)
	if err != nil {
		return nil, err
	}

	clientOpts := []client.Option{
		client.WithStorage(store),
		client.WithTypes(o.types...),
		client.WithPlugins(o.plugins...),
		client.WithMiddleware(o.middleware...),
	}
	if o.logger != nil {
		clientOpts = append(clientOpts, client.WithLogger(o.logger))
	}
	if without, _ := o.config["without_builtins"].(bool); without {
		clientOpts = append(clientOpts, client.WithoutBuiltins())
	}
	return client.New(clientOpts...)
}
