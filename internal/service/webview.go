package service

import (
	"context"
	"encoding/json"
	"fmt"
	"errors"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/toqueteos/webbrowser"

	"github.com/wkapp-go/wkapp/internal/bridge"
	"github.com/wkapp-go/wkapp/internal/webview"
)

const bindPrefix = "__wkapp_post_"

var ErrNoWindow = errors.New("service: no window open")

// externalLinksScript sends clicks on off-host links to the system browser.
const externalLinksScript = `
    document.addEventListener("click", function(e) {
        const a = e.target.closest("a");
        if (!a || !a.href) return;
        if (a.origin === window.location.origin || a.href.startsWith("/")) return;
        e.preventDefault();
        window.webkit.messageHandlers.invoke.postMessage(JSON.stringify({
            href: window.location.href,
            args: ["app", {}, "open_external", [a.href], {}],
            kwargs: {}
        }));
    });
`

type WindowOptions struct {
	URL    string
	Width  int
	Height int
	Debug  bool
	// Scripts run in every page before its own scripts.
	Scripts []string
}

// WebViewService owns the main window and any child windows and exposes
// them to pages as app targets.
type WebViewService struct {
	newWindow webview.Factory
	openURL   func(url string) error
	logger    *slog.Logger
	baseTitle string

	mu           sync.Mutex
	mainWindow   webview.Window
	title        string
	childWindows *xsync.Map[string, *childWindow]

	done     chan struct{}
	doneOnce sync.Once
}

func NewWebViewService(
	factory webview.Factory,
	baseTitle string,
	logger *slog.Logger,
) *WebViewService {
	return &WebViewService{
		newWindow:    factory,
		openURL:      webbrowser.Open,
		logger:       logger,
		baseTitle:    baseTitle,
		title:        baseTitle,
		childWindows: xsync.NewMap[string, *childWindow](),
		done:         make(chan struct{}),
	}
}

// Done is closed once a page asks to exit.
func (s *WebViewService) Done() <-chan struct{} {
	return s.done
}

// InitializeWebView opens the main window on opts.URL, binds every handler
// in registry into it and runs the UI loop until the window closes.
func (s *WebViewService) InitializeWebView(opts WindowOptions, registry *bridge.MapRegistry) error {
	w := s.newWindow(opts.Debug)
	defer w.Destroy()

	w.SetTitle(s.GetTitle())
	w.SetSize(opts.Width, opts.Height, webview.HintMin)

	if err := s.bindRegistry(w, registry); err != nil {
		return err
	}
	for _, script := range opts.Scripts {
		w.Init(script)
	}
	w.Init(externalLinksScript)
	w.Navigate(opts.URL)

	s.mu.Lock()
	s.mainWindow = w
	s.mu.Unlock()

	w.Run()

	s.mu.Lock()
	s.mainWindow = nil
	s.mu.Unlock()
	s.markDone()
	return nil
}

func (s *WebViewService) bindRegistry(w webview.Window, registry *bridge.MapRegistry) error {
	names := registry.Names()
	for _, name := range names {
		if err := w.Bind(bindPrefix+name, func(body string) error {
			return registry.Deliver(name, body)
		}); err != nil {
			return fmt.Errorf("bind %s: %w", name, err)
		}
	}

	shim, err := messageHandlersShim(names)
	if err != nil {
		return err
	}
	w.Init(shim)
	return nil
}

// messageHandlersShim defines window.webkit.messageHandlers entries backed
// by bound functions, leaving native entries untouched.
func messageHandlersShim(names []string) (string, error) {
	list, err := json.Marshal(names)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(function () {
  window.webkit = window.webkit || {};
  var handlers = window.webkit.messageHandlers || {};
  %s.forEach(function (name) {
    if (handlers[name]) return;
    handlers[name] = {
      postMessage: function (body) {
        return window[%q + name](typeof body === "string" ? body : JSON.stringify(body));
      }
    };
  });
  window.webkit.messageHandlers = handlers;
})();`, list, bindPrefix), nil
}

func (s *WebViewService) GetTitle() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.title
}

func (s *WebViewService) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		s.title = s.baseTitle
	} else {
		s.title = fmt.Sprintf("%s | %s", s.baseTitle, trimmed)
	}

	if s.mainWindow != nil {
		w, newTitle := s.mainWindow, s.title
		w.Dispatch(func() {
			w.SetTitle(newTitle)
		})
	}
}

// childWindow is stored before its native window exists; ready is closed
// once w is set.
type childWindow struct {
	ready chan struct{}
	w     webview.Window
}

func (s *WebViewService) OpenChildWindow(id, title, url string, width, height int) {
	cw := &childWindow{ready: make(chan struct{})}
	if _, loaded := s.childWindows.LoadOrStore(id, cw); loaded {
		return
	}

	go func() {
		// The native window must be created and run on the same OS thread.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer s.childWindows.Delete(id)

		w := s.newWindow(false)
		defer w.Destroy()
		cw.w = w
		close(cw.ready)

		w.SetTitle(title)
		w.SetSize(width, height, webview.HintNone)
		w.Navigate(url)
		w.Run()
	}()
}

func (s *WebViewService) CloseChildWindow(id string) {
	cw, exists := s.childWindows.Load(id)
	if !exists {
		return
	}

	<-cw.ready
	w := cw.w
	w.Dispatch(func() {
		w.Terminate()
	})
}

// EvalJS runs js in the page of the main window.
func (s *WebViewService) EvalJS(js string) error {
	s.mu.Lock()
	w := s.mainWindow
	s.mu.Unlock()

	if w == nil {
		return ErrNoWindow
	}
	w.Dispatch(func() {
		w.Eval(js)
	})
	return nil
}

// CloseMainWindow ends the main window's loop, or just signals Done when
// no window is open.
func (s *WebViewService) CloseMainWindow() {
	s.mu.Lock()
	w := s.mainWindow
	s.mu.Unlock()

	if w != nil {
		w.Dispatch(func() {
			w.Terminate()
		})
	}
	s.markDone()
}

func (s *WebViewService) markDone() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// OpenExternal opens url in the system browser.
func (s *WebViewService) OpenExternal(url string) error {
	return s.openURL(url)
}

// RegisterTargets exposes window control to pages as app targets.
func (s *WebViewService) RegisterTargets(d *Dispatcher) {
	d.HandleApp(bridge.TargetExit, func(ctx context.Context, call Call) error {
		s.logger.Info("exit requested", "href", call.Href)
		s.CloseMainWindow()
		return nil
	})

	d.HandleApp("set_title", func(ctx context.Context, call Call) error {
		title, err := call.StringArg(0)
		if err != nil {
			return err
		}
		s.SetTitle(title)
		return nil
	})

	d.HandleApp("open_window", func(ctx context.Context, call Call) error {
		id, err := call.StringArg(0)
		if err != nil {
			return err
		}
		title, err := call.StringArg(1)
		if err != nil {
			return err
		}
		url, err := call.StringArg(2)
		if err != nil {
			return err
		}
		width, height := 800, 600
		if len(call.Args) > 3 {
			if width, err = call.IntArg(3); err != nil {
				return err
			}
		}
		if len(call.Args) > 4 {
			if height, err = call.IntArg(4); err != nil {
				return err
			}
		}
		s.OpenChildWindow(id, title, url, width, height)
		return nil
	})

	d.HandleApp("close_window", func(ctx context.Context, call Call) error {
		id, err := call.StringArg(0)
		if err != nil {
			return err
		}
		s.CloseChildWindow(id)
		return nil
	})

	d.HandleApp("open_external", func(ctx context.Context, call Call) error {
		url, err := call.StringArg(0)
		if err != nil {
			return err
		}
		return s.OpenExternal(url)
	})
}
