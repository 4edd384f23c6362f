package bridge

import (
	"log/slog"
)

// PostOptions carries the arguments of a post. The zero value posts no
// positional and no named arguments.
type PostOptions struct {
	Args   []any
	Kwargs map[string]any
}

// Invoker is the part of a Client a View needs.
type Invoker interface {
	InvokeRemote(caller Descriptor, target string, opts PostOptions) error
}

// Client turns calls into messages posted to a host registry. It keeps no
// state between calls and may be shared by any number of views.
type Client struct {
	registry Registry
	locator  Locator
	logger   *slog.Logger
}

var (
	_ Invoker    = (*Client)(nil)
	_ Descriptor = (*Client)(nil)
)

func NewClient(registry Registry, locator Locator, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		registry: registry,
		locator:  locator,
		logger:   logger,
	}
}

func (c *Client) DescriptorKind() Kind {
	return KindApp
}

// PostToHandler delivers one message to the named handler. A missing
// handler yields a *LookupError and nothing is delivered; encoding and
// handler errors are returned as they are.
func (c *Client) PostToHandler(name string, opts PostOptions) error {
	h, ok := c.registry.Lookup(name)
	if !ok {
		return &LookupError{Name: name}
	}

	msg := NewMessage(c.locator.Href(), opts.Args, opts.Kwargs)
	body, err := msg.Encode()
	if err != nil {
		return err
	}

	c.logger.Debug("bridge post",
		"handler", name,
		"href", msg.Href,
		"args", len(msg.Args),
		"kwargs", len(msg.Kwargs),
	)
	return h.PostMessage(body)
}

// InvokeRemote asks the host to call target in the context selected by the
// caller's kind. The payload args are [kind, context, target, args, kwargs].
func (c *Client) InvokeRemote(caller Descriptor, target string, opts PostOptions) error {
	args := opts.Args
	if args == nil {
		args = []any{}
	}
	kwargs := opts.Kwargs
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	return c.PostToHandler(HandlerInvoke, PostOptions{
		Args: []any{
			caller.DescriptorKind(),
			map[string]any{},
			target,
			args,
			kwargs,
		},
	})
}

// RequestExit asks the host to end the session.
func (c *Client) RequestExit() error {
	return c.InvokeRemote(c, TargetExit, PostOptions{})
}
