package bridge

import (
	"errors"
	"fmt"
	"sort"

	"github.com/puzpuzpuz/xsync/v4"
)

var ErrLookup = errors.New("bridge: handler not found")

// LookupError is returned when a post names a handler the registry does
// not have.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("bridge: no handler registered for %q", e.Name)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}

// MapRegistry is an in-process Registry safe for concurrent use. Hosts
// register their handlers here before binding them into a window.
type MapRegistry struct {
	handlers *xsync.Map[string, Handler]
}

func NewMapRegistry() *MapRegistry {
	return &MapRegistry{
		handlers: xsync.NewMap[string, Handler](),
	}
}

// Register adds or replaces the handler for name.
func (r *MapRegistry) Register(name string, h Handler) {
	r.handlers.Store(name, h)
}

func (r *MapRegistry) Unregister(name string) {
	r.handlers.Delete(name)
}

func (r *MapRegistry) Lookup(name string) (Handler, bool) {
	return r.handlers.Load(name)
}

// Names returns the registered handler names in sorted order.
func (r *MapRegistry) Names() []string {
	names := make([]string, 0, r.handlers.Size())
	r.handlers.Range(func(name string, _ Handler) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}

// Deliver posts an already encoded body to the named handler. Transports
// that receive raw bodies from a page use this instead of a Client.
func (r *MapRegistry) Deliver(name, body string) error {
	h, ok := r.Lookup(name)
	if !ok {
		return &LookupError{Name: name}
	}
	return h.PostMessage(body)
}
