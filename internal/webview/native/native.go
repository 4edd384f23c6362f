// Package native backs webview.Window with github.com/webview/webview_go.
package native

import (
	wv "github.com/webview/webview_go"

	"github.com/wkapp-go/wkapp/internal/webview"
)

var _ webview.Factory = New

// New creates a new webview in a new window.
func New(debug bool) webview.Window {
	return &window{w: wv.New(debug)}
}

type window struct {
	w wv.WebView
}

func (w *window) Run()                { w.w.Run() }
func (w *window) Terminate()          { w.w.Terminate() }
func (w *window) Dispatch(f func())   { w.w.Dispatch(f) }
func (w *window) Destroy()            { w.w.Destroy() }
func (w *window) SetTitle(t string)   { w.w.SetTitle(t) }
func (w *window) Navigate(url string) { w.w.Navigate(url) }
func (w *window) Init(js string)      { w.w.Init(js) }
func (w *window) Eval(js string)      { w.w.Eval(js) }

func (w *window) SetSize(width, height int, hint webview.Hint) {
	w.w.SetSize(width, height, hints[hint])
}

func (w *window) Bind(name string, f any) error {
	return w.w.Bind(name, f)
}

var hints = map[webview.Hint]wv.Hint{
	webview.HintNone:  wv.HintNone,
	webview.HintFixed: wv.HintFixed,
	webview.HintMin:   wv.HintMin,
	webview.HintMax:   wv.HintMax,
}
