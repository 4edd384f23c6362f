// Package assets embeds the default page and the bridge script served to
// every app.
package assets

import (
	"embed"
	"errors"
	"io/fs"
)

//go:embed all:dist
var staticFiles embed.FS

func DistFS() fs.FS {
	sub, _ := fs.Sub(staticFiles, "dist")
	return sub
}

// Overlay serves files from primary and falls back to fallback for names
// primary does not have.
func Overlay(primary, fallback fs.FS) fs.FS {
	return overlayFS{primary, fallback}
}

type overlayFS struct {
	primary  fs.FS
	fallback fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.fallback.Open(name)
}
