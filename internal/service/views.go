package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
)

// View targets the lifecycle script invokes on every page.
const (
	TargetLoading = "loading"
	TargetLoaded  = "loaded"
)

// LifecycleScript reports page progress to the host. Pages that also
// include wkapp.js report once.
const LifecycleScript = `(function () {
  if (window.__wkappLifecycle) return;
  window.__wkappLifecycle = true;
  var post = function (target) {
    try {
      window.webkit.messageHandlers.invoke.postMessage(JSON.stringify({
        href: window.location.href,
        args: ["view", {}, target, [], {}],
        kwargs: {}
      }));
    } catch (e) {}
  };
  post("loading");
  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", function () { post("loaded"); });
  } else {
    post("loaded");
  }
})();`

type Phase int

const (
	PhaseNew Phase = iota
	PhasePrepared
	PhaseLoading
	PhaseLoaded
)

func (p Phase) String() string {
	switch p {
	case PhasePrepared:
		return "prepared"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	default:
		return "new"
	}
}

// Evaluator runs script in the page shown by the host.
type Evaluator interface {
	EvalJS(js string) error
}

// View is the host-side state of one page, created the first time its path
// is seen and kept for the life of the process.
type View struct {
	Path string

	eval Evaluator

	mu    sync.Mutex
	href  string
	phase Phase
}

func (v *View) Href() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.href
}

func (v *View) Phase() Phase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase
}

// Eval runs js in the page this view belongs to.
func (v *View) Eval(js string) error {
	return v.eval.EvalJS(js)
}

func (v *View) set(href string, phase Phase) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if href != "" {
		v.href = href
	}
	v.phase = phase
}

type ViewHook func(ctx context.Context, v *View) error

// ViewHooks are called as a page moves through its lifecycle. Any of them
// may be nil.
type ViewHooks struct {
	OnInit    ViewHook
	OnPrepare ViewHook
	OnLoading ViewHook
	OnLoaded  ViewHook
}

// Views tracks one View per page path and fires hooks registered for that
// path, then those registered for AnyView.
type Views struct {
	ctx    context.Context
	eval   Evaluator
	logger *slog.Logger

	hooks *xsync.Map[string, ViewHooks]
	views *xsync.Map[string, *View]

	mu      sync.Mutex
	current *View
}

func NewViews(ctx context.Context, eval Evaluator, logger *slog.Logger) *Views {
	return &Views{
		ctx:    ctx,
		eval:   eval,
		logger: logger,
		hooks:  xsync.NewMap[string, ViewHooks](),
		views:  xsync.NewMap[string, *View](),
	}
}

func (vs *Views) Hook(path string, hooks ViewHooks) {
	if path != AnyView {
		path = normalizePath(path)
	}
	vs.hooks.Store(path, hooks)
}

// Get returns the view for path, creating it and firing OnInit the first
// time.
func (vs *Views) Get(path string) (*View, error) {
	path = normalizePath(path)
	if v, ok := vs.views.Load(path); ok {
		return v, nil
	}

	v, loaded := vs.views.LoadOrStore(path, &View{Path: path, eval: vs.eval})
	if loaded {
		return v, nil
	}
	vs.logger.Debug("view created", "path", path)
	return v, vs.fire(v, func(h ViewHooks) ViewHook { return h.OnInit })
}

// Current is the view that most recently finished loading, or nil.
func (vs *Views) Current() *View {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.current
}

// Prepare is called when the server is asked for the page at path.
func (vs *Views) Prepare(path string) error {
	return vs.advance(path, "", PhasePrepared, func(h ViewHooks) ViewHook { return h.OnPrepare })
}

func (vs *Views) Loading(href string) error {
	return vs.advance(pagePath(href), href, PhaseLoading, func(h ViewHooks) ViewHook { return h.OnLoading })
}

func (vs *Views) Loaded(href string) error {
	return vs.advance(pagePath(href), href, PhaseLoaded, func(h ViewHooks) ViewHook { return h.OnLoaded })
}

func (vs *Views) advance(path, href string, phase Phase, pick func(ViewHooks) ViewHook) error {
	v, err := vs.Get(path)
	if err != nil {
		return err
	}
	v.set(href, phase)
	if phase == PhaseLoaded {
		vs.mu.Lock()
		vs.current = v
		vs.mu.Unlock()
	}
	vs.logger.Debug("view "+phase.String(), "path", v.Path, "href", href)
	return vs.fire(v, pick)
}

func (vs *Views) fire(v *View, pick func(ViewHooks) ViewHook) error {
	var errs []error
	for _, path := range []string{v.Path, AnyView} {
		hooks, ok := vs.hooks.Load(path)
		if !ok {
			continue
		}
		if fn := pick(hooks); fn != nil {
			if err := fn(vs.ctx, v); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RegisterTargets lets every page report its progress through invoke.
func (vs *Views) RegisterTargets(d *Dispatcher) {
	d.HandleView(AnyView, TargetLoading, func(ctx context.Context, call Call) error {
		return vs.Loading(call.Href)
	})
	d.HandleView(AnyView, TargetLoaded, func(ctx context.Context, call Call) error {
		return vs.Loaded(call.Href)
	})
}

// Middleware prepares the view for every page request passing through.
func (vs *Views) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && isPage(r.URL.Path) {
			if err := vs.Prepare(r.URL.Path); err != nil {
				vs.logger.Warn("view prepare failed", "path", r.URL.Path, "err", err)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func isPage(p string) bool {
	return strings.HasSuffix(normalizePath(p), ".html")
}
