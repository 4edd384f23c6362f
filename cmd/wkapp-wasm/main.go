//go:build js && wasm

package main

import (
	"log/slog"
	"os"
	"syscall/js"

	"github.com/wkapp-go/wkapp/internal/bridge"
)

func main() {
	slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	client := bridge.NewClient(bridge.WebKitRegistry{}, bridge.WindowLocation{}, slogger)
	view := bridge.NewView(client)

	js.Global().Set("wkappExit", js.FuncOf(func(this js.Value, args []js.Value) any {
		return result(client.RequestExit())
	}))

	js.Global().Set("wkappInvoke", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return "wkappInvoke: missing operation name"
		}
		return result(view.Invoke(args[0].String(), values(args[1:])...))
	}))

	js.Global().Set("wkappPost", js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return "wkappPost: missing handler name"
		}
		return result(client.PostToHandler(args[0].String(), bridge.PostOptions{
			Args: values(args[1:]),
		}))
	}))

	slogger.Info("bridge ready", "href", bridge.WindowLocation{}.Href())
	select {}
}

// result maps a Go error onto the JS side: null on success, the message
// otherwise.
func result(err error) any {
	if err != nil {
		return err.Error()
	}
	return nil
}

func values(args []js.Value) []any {
	out := make([]any, 0, len(args))
	for _, a := range args {
		out = append(out, value(a))
	}
	return out
}

func value(v js.Value) any {
	switch v.Type() {
	case js.TypeBoolean:
		return v.Bool()
	case js.TypeNumber:
		return v.Float()
	case js.TypeString:
		return v.String()
	case js.TypeObject:
		if js.Global().Get("Array").Call("isArray", v).Bool() {
			out := make([]any, v.Length())
			for i := range out {
				out[i] = value(v.Index(i))
			}
			return out
		}
		out := map[string]any{}
		keys := js.Global().Get("Object").Call("keys", v)
		for i := 0; i < keys.Length(); i++ {
			k := keys.Index(i).String()
			out[k] = value(v.Get(k))
		}
		return out
	default:
		return nil
	}
}
