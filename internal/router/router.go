package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wkapp-go/wkapp/internal/handlers"
)

// New routes the bridge websocket and hands everything else to site, which
// serves the app's pages.
func New(h *handlers.Handler, site http.Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.NoCache)

	r.Get("/bridge/ws", h.HandleBridgeWS)
	r.Handle("/*", site)

	return r
}
