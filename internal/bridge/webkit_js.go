//go:build js && wasm

package bridge

import (
	"syscall/js"
)

// WebKitRegistry resolves handlers against window.webkit.messageHandlers.
// Hosts without native WebKit handlers install a shim with the same shape.
type WebKitRegistry struct{}

func (WebKitRegistry) Lookup(name string) (Handler, bool) {
	webkit := js.Global().Get("webkit")
	if webkit.IsUndefined() || webkit.IsNull() {
		return nil, false
	}
	handlers := webkit.Get("messageHandlers")
	if handlers.IsUndefined() || handlers.IsNull() {
		return nil, false
	}
	h := handlers.Get(name)
	if h.IsUndefined() || h.IsNull() {
		return nil, false
	}
	return webKitHandler{h}, true
}

type webKitHandler struct {
	v js.Value
}

func (h webKitHandler) PostMessage(body string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = jsErr
				return
			}
			panic(r)
		}
	}()
	h.v.Call("postMessage", body)
	return nil
}

// WindowLocation reads window.location.href at call time.
type WindowLocation struct{}

func (WindowLocation) Href() string {
	return js.Global().Get("location").Get("href").String()
}
