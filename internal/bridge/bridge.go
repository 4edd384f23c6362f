// Package bridge posts invocation messages from a page into the handler
// registry its host exposes (window.webkit.messageHandlers on WebKit, a
// bound function table elsewhere).
//
// Delivery is one-way: a post either reaches exactly one handler or fails,
// and nothing comes back besides the error.
package bridge

// Handler is one entry of the host's registry. It accepts a single text
// payload per call.
type Handler interface {
	PostMessage(body string) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(body string) error

func (f HandlerFunc) PostMessage(body string) error {
	return f(body)
}

// Registry resolves handler names. Implementations are owned by the host;
// the client only ever reads from them.
type Registry interface {
	Lookup(name string) (Handler, bool)
}

// Locator reports the address of the page a post originates from.
type Locator interface {
	Href() string
}

// LocatorFunc adapts a plain function to Locator.
type LocatorFunc func() string

func (f LocatorFunc) Href() string {
	return f()
}

// StaticLocator always reports the same address.
type StaticLocator string

func (l StaticLocator) Href() string {
	return string(l)
}

// Kind identifies which logical caller issued an invoke so the host can
// pick the context to dispatch into.
type Kind string

const (
	KindApp  Kind = "app"
	KindView Kind = "view"
)

// Descriptor is implemented by every type that can appear as the caller
// of InvokeRemote.
type Descriptor interface {
	DescriptorKind() Kind
}

// Well known handler names.
const (
	HandlerInvoke  = "invoke"
	HandlerConsole = "javascript_console_message"
)

// Target names understood by every host.
const (
	TargetExit = "exit"
)
