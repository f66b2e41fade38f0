package client

// Plugin mounts an extension API on a Client.
type Plugin interface {
	// Namespace is the key the API is mounted under.
	Namespace() string
	// Init is called once by New. The returned value is what Client.Plugin
	// hands back.
	Init(c *Client) (any, error)
}

// PluginFunc adapts a namespace and an init function to Plugin.
type PluginFunc struct {
	Name string
	Fn   func(c *Client) (any, error)
}

func (p PluginFunc) Namespace() string { return p.Name }

func (p PluginFunc) Init(c *Client) (any, error) { return p.Fn(c) }
