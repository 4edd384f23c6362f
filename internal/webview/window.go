// Package webview describes the window surface the host drives. The
// native implementation lives in the native subpackage so that code which
// only needs the interface does not pull in cgo.
package webview

type Hint int

const (
	// HintNone specifies that width and height are default size
	HintNone Hint = iota

	// HintFixed specifies that window size can not be changed by a user
	HintFixed

	// HintMin specifies that width and height are minimum bounds
	HintMin

	// HintMax specifies that width and height are maximum bounds
	HintMax
)

// Window is the subset of a native web view the host uses.
type Window interface {
	Run()
	Terminate()
	Dispatch(f func())
	Destroy()
	SetTitle(title string)
	SetSize(width, height int, hint Hint)
	Navigate(url string)
	Init(js string)
	Eval(js string)
	Bind(name string, f any) error
}

// Factory creates a new top-level window.
type Factory func(debug bool) Window
