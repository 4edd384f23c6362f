package service

import (
	"io"
	"log/slog"
	"sync"

	"github.com/wkapp-go/wkapp/internal/webview"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeWindow records what the service does to it. Run blocks until
// Terminate is called.
type fakeWindow struct {
	mu         sync.Mutex
	title      string
	width      int
	height     int
	hint       webview.Hint
	url        string
	scripts    []string
	evals      []string
	bindings   map[string]any
	destroyed  bool
	terminated chan struct{}
	termOnce   sync.Once
	running    chan struct{}
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{
		bindings:   map[string]any{},
		terminated: make(chan struct{}),
		running:    make(chan struct{}),
	}
}

func (w *fakeWindow) Run() {
	close(w.running)
	<-w.terminated
}

func (w *fakeWindow) Terminate() {
	w.termOnce.Do(func() { close(w.terminated) })
}

func (w *fakeWindow) Dispatch(f func()) { f() }

func (w *fakeWindow) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.destroyed = true
}

func (w *fakeWindow) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.title = title
}

func (w *fakeWindow) SetSize(width, height int, hint webview.Hint) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height, w.hint = width, height, hint
}

func (w *fakeWindow) Navigate(url string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.url = url
}

func (w *fakeWindow) Init(js string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scripts = append(w.scripts, js)
}

func (w *fakeWindow) Eval(js string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.evals = append(w.evals, js)
}

func (w *fakeWindow) Evals() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.evals...)
}

func (w *fakeWindow) Bind(name string, f any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bindings[name] = f
	return nil
}

func (w *fakeWindow) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func (w *fakeWindow) Destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

type fakeFactory struct {
	mu      sync.Mutex
	windows []*fakeWindow
}

func (f *fakeFactory) New(debug bool) webview.Window {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := newFakeWindow()
	f.windows = append(f.windows, w)
	return w
}

func (f *fakeFactory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.windows)
}

func (f *fakeFactory) Window(i int) *fakeWindow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.windows[i]
}
