package handlers

import (
	"log/slog"

	"github.com/wkapp-go/wkapp/internal/bridge"
)

// Handler serves the HTTP side of the host.
type Handler struct {
	registry *bridge.MapRegistry
	logger   *slog.Logger
}

func New(registry *bridge.MapRegistry, logger *slog.Logger) *Handler {
	return &Handler{registry: registry, logger: logger}
}
