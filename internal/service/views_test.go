package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wkapp-go/wkapp/internal/bridge"
)

type fakeEvaluator struct {
	mu    sync.Mutex
	calls []string
}

func (e *fakeEvaluator) EvalJS(js string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, js)
	return nil
}

type hookLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *hookLog) hook(name string) ViewHook {
	return func(ctx context.Context, v *View) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.calls = append(l.calls, name+":"+v.Path)
		return nil
	}
}

func (l *hookLog) all(prefix string) ViewHooks {
	return ViewHooks{
		OnInit:    l.hook(prefix + "init"),
		OnPrepare: l.hook(prefix + "prepare"),
		OnLoading: l.hook(prefix + "loading"),
		OnLoaded:  l.hook(prefix + "loaded"),
	}
}

func TestViewLifecycleThroughInvoke(t *testing.T) {
	views := NewViews(context.Background(), &fakeEvaluator{}, testLogger())
	d := NewDispatcher(context.Background(), testLogger())
	views.RegisterTargets(d)

	log := &hookLog{}
	views.Hook("/", log.all(""))

	view := bridge.NewView(wire(d, "http://127.0.0.1:8080/"))
	require.NoError(t, view.Invoke(TargetLoading))
	require.NoError(t, view.Invoke(TargetLoaded))
	require.NoError(t, view.Invoke(TargetLoading))

	assert.Equal(t, []string{
		"init:/index.html",
		"loading:/index.html",
		"loaded:/index.html",
		"loading:/index.html",
	}, log.calls)

	current := views.Current()
	require.NotNil(t, current)
	assert.Equal(t, "/index.html", current.Path)
	assert.Equal(t, "http://127.0.0.1:8080/", current.Href())
	assert.Equal(t, PhaseLoading, current.Phase())
}

func TestViewHooksForAnyView(t *testing.T) {
	views := NewViews(context.Background(), &fakeEvaluator{}, testLogger())

	log := &hookLog{}
	views.Hook("/a.html", ViewHooks{OnLoaded: log.hook("a")})
	views.Hook(AnyView, ViewHooks{OnLoaded: log.hook("any")})

	require.NoError(t, views.Loaded("http://h/a.html"))
	require.NoError(t, views.Loaded("http://h/b.html"))

	assert.Equal(t, []string{"a:/a.html", "any:/a.html", "any:/b.html"}, log.calls)
	assert.Equal(t, "/b.html", views.Current().Path)
}

func TestViewGetCreatesOnce(t *testing.T) {
	views := NewViews(context.Background(), &fakeEvaluator{}, testLogger())

	inits := 0
	views.Hook(AnyView, ViewHooks{OnInit: func(ctx context.Context, v *View) error {
		inits++
		return nil
	}})

	first, err := views.Get("/page.html")
	require.NoError(t, err)
	second, err := views.Get("page.html")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, inits)
	assert.Equal(t, PhaseNew, first.Phase())
	assert.Nil(t, views.Current())
}

func TestViewHookErrors(t *testing.T) {
	views := NewViews(context.Background(), &fakeEvaluator{}, testLogger())
	boom := errors.New("boom")
	views.Hook("/x.html", ViewHooks{OnLoaded: func(ctx context.Context, v *View) error { return boom }})

	called := false
	views.Hook(AnyView, ViewHooks{OnLoaded: func(ctx context.Context, v *View) error {
		called = true
		return nil
	}})

	err := views.Loaded("http://h/x.html")
	assert.ErrorIs(t, err, boom)
	assert.True(t, called)
}

func TestViewEval(t *testing.T) {
	eval := &fakeEvaluator{}
	views := NewViews(context.Background(), eval, testLogger())
	views.Hook(AnyView, ViewHooks{OnLoaded: func(ctx context.Context, v *View) error {
		return v.Eval(`document.body.dataset.ready = "1"`)
	}})

	require.NoError(t, views.Loaded("http://h/"))
	assert.Equal(t, []string{`document.body.dataset.ready = "1"`}, eval.calls)
}

func TestViewEvalReachesMainWindow(t *testing.T) {
	f := &fakeFactory{}
	svc := NewWebViewService(f.New, "WKApp", testLogger())
	views := NewViews(context.Background(), svc, testLogger())
	views.Hook(AnyView, ViewHooks{OnLoaded: func(ctx context.Context, v *View) error {
		return v.Eval("ready()")
	}})

	assert.ErrorIs(t, views.Loaded("http://h/"), ErrNoWindow)

	w, errc := startMainWindow(t, svc, f, bridge.NewMapRegistry())
	require.NoError(t, views.Loaded("http://h/"))
	assert.Equal(t, []string{"ready()"}, w.Evals())

	svc.CloseMainWindow()
	require.NoError(t, <-errc)
}

func TestViewsMiddlewarePrepares(t *testing.T) {
	views := NewViews(context.Background(), &fakeEvaluator{}, testLogger())
	log := &hookLog{}
	views.Hook(AnyView, ViewHooks{OnPrepare: log.hook("prepare")})

	served := 0
	h := views.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
	}))

	for _, target := range []string{"/", "/docs/intro.html", "/static/wkapp.js", "/bridge/ws"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/form.html", nil))

	assert.Equal(t, 5, served)
	assert.Equal(t, []string{"prepare:/index.html", "prepare:/docs/intro.html"}, log.calls)

	v, err := views.Get("/docs/intro.html")
	require.NoError(t, err)
	assert.Equal(t, PhasePrepared, v.Phase())
}

func TestLifecycleScript(t *testing.T) {
	assert.Contains(t, LifecycleScript, `window.__wkappLifecycle`)
	assert.Contains(t, LifecycleScript, `post("loaded")`)
	assert.Contains(t, LifecycleScript, `args: ["view", {}, target, [], {}]`)
}
