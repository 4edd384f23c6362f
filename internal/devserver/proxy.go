// Package devserver forwards page requests to a frontend dev server so an
// app can be developed with live reload inside the host window.
package devserver

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
)

func NewProxy(devURL string) (http.Handler, error) {
	target, err := url.Parse(devURL)
	if err != nil {
		return nil, fmt.Errorf("dev server url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("dev server url %q: want scheme and host", devURL)
	}
	return httputil.NewSingleHostReverseProxy(target), nil
}
