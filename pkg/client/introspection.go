package client

import (
	"github.com/aretw0/introspection"
)

// ClientState exposes internal state for observability.
type ClientState struct {
	Types      int      `json:"types"`
	Relations  int      `json:"relations"`
	Plugins    []string `json:"plugins"`
	Middleware int      `json:"middleware"`
	HasStorage bool     `json:"has_storage"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	return ClientState{
		Types:      len(c.registry.List()),
		Relations:  c.graph.Len(),
		Plugins:    append([]string(nil), c.pluginIDs...),
		Middleware: len(c.middleware),
		HasStorage: c.storage != nil,
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "client"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
