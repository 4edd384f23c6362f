package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/wkapp-go/wkapp/internal/bridge"
)

var (
	ErrMalformedInvoke = errors.New("service: malformed invoke payload")
	ErrUnknownKind     = errors.New("service: unknown caller kind")
	ErrTargetNotFound  = errors.New("service: target not found")
)

// AnyView registers a view target on every page.
const AnyView = ""

// Call is a decoded invoke as a target sees it.
type Call struct {
	Href   string
	Kind   bridge.Kind
	Target string
	Args   []any
	Kwargs map[string]any
}

// Path is the page path the call came from.
func (c Call) Path() string {
	return pagePath(c.Href)
}

type Target func(ctx context.Context, call Call) error

type targets = xsync.Map[string, Target]

// Dispatcher consumes the invoke handler. App calls go to the targets
// registered with HandleApp; view calls go to the targets of the page the
// call came from, then to those registered for AnyView.
type Dispatcher struct {
	ctx    context.Context
	app    *targets
	views  *xsync.Map[string, *targets]
	logger *slog.Logger
}

var _ bridge.Handler = (*Dispatcher)(nil)

func NewDispatcher(ctx context.Context, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		ctx:    ctx,
		app:    xsync.NewMap[string, Target](),
		views:  xsync.NewMap[string, *targets](),
		logger: logger,
	}
}

func (d *Dispatcher) HandleApp(name string, fn Target) {
	d.app.Store(name, fn)
}

// HandleView registers fn for calls from the page at path. Use AnyView to
// register on every page.
func (d *Dispatcher) HandleView(path, name string, fn Target) {
	if path != AnyView {
		path = normalizePath(path)
	}
	t, _ := d.views.LoadOrStore(path, xsync.NewMap[string, Target]())
	t.Store(name, fn)
}

func (d *Dispatcher) PostMessage(body string) error {
	call, err := decodeInvoke(body)
	if err != nil {
		d.logger.Warn("invoke rejected", "err", err)
		return err
	}

	d.logger.Debug("invoke",
		"kind", call.Kind,
		"target", call.Target,
		"href", call.Href,
	)

	fn, err := d.resolve(call)
	if err != nil {
		d.logger.Warn("invoke unresolved",
			"kind", call.Kind,
			"target", call.Target,
			"href", call.Href,
			"err", err,
		)
		return err
	}
	return fn(d.ctx, call)
}

func (d *Dispatcher) resolve(call Call) (Target, error) {
	switch call.Kind {
	case bridge.KindApp:
		if fn, ok := d.app.Load(call.Target); ok {
			return fn, nil
		}
	case bridge.KindView:
		for _, path := range []string{call.Path(), AnyView} {
			t, ok := d.views.Load(path)
			if !ok {
				continue
			}
			if fn, ok := t.Load(call.Target); ok {
				return fn, nil
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, call.Kind)
	}
	return nil, fmt.Errorf("%w: %s %q", ErrTargetNotFound, call.Kind, call.Target)
}

func decodeInvoke(body string) (Call, error) {
	msg := bridge.Decode(body)
	if len(msg.Args) != 5 {
		return Call{}, fmt.Errorf("%w: want 5 args, got %d", ErrMalformedInvoke, len(msg.Args))
	}

	kind, ok := msg.Args[0].(string)
	if !ok {
		return Call{}, fmt.Errorf("%w: caller kind is %T", ErrMalformedInvoke, msg.Args[0])
	}
	target, ok := msg.Args[2].(string)
	if !ok || target == "" {
		return Call{}, fmt.Errorf("%w: missing target", ErrMalformedInvoke)
	}

	call := Call{
		Href:   msg.Href,
		Kind:   bridge.Kind(kind),
		Target: target,
		Args:   []any{},
		Kwargs: map[string]any{},
	}
	if args, ok := msg.Args[3].([]any); ok {
		call.Args = args
	} else if msg.Args[3] != nil {
		return Call{}, fmt.Errorf("%w: args is %T", ErrMalformedInvoke, msg.Args[3])
	}
	if kwargs, ok := msg.Args[4].(map[string]any); ok {
		call.Kwargs = kwargs
	} else if msg.Args[4] != nil {
		return Call{}, fmt.Errorf("%w: kwargs is %T", ErrMalformedInvoke, msg.Args[4])
	}
	return call, nil
}

// pagePath is the path of the page at href. Directory paths, the site
// root included, name their index.html.
func pagePath(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return normalizePath("")
	}
	return normalizePath(u.Path)
}

func normalizePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	return p
}
