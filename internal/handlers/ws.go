package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/wkapp-go/wkapp/internal/bridge"
	"github.com/wkapp-go/wkapp/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameHost,
}

// Frame is one bridge post sent over the websocket by a page running in a
// plain browser.
type Frame struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// HandleBridgeWS delivers posts from browser-mode pages to the registry.
func (h *Handler) HandleBridgeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("bridge ws upgrade failed", "err", err)
		return
	}

	client := ws.NewClient(conn)
	go client.PingPump()

	h.logger.Debug("bridge ws connected", "remote", r.RemoteAddr)
	client.ReadPump(func(raw []byte) {
		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.logger.Warn("bridge ws bad frame", "err", err)
			return
		}

		if err := h.registry.Deliver(frame.Name, frame.Body); err != nil {
			if errors.Is(err, bridge.ErrLookup) {
				h.logger.Warn("bridge ws unknown handler", "name", frame.Name)
				return
			}
			h.logger.Error("bridge ws delivery failed", "name", frame.Name, "err", err)
		}
	})
	h.logger.Debug("bridge ws closed", "remote", r.RemoteAddr)
}

// sameHost accepts upgrades from pages served by this host only.
func sameHost(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}
