package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 1 << 20
)

// Client reads bridge frames from a page. The host never writes data back,
// only keepalive pings.
type Client struct {
	Conn *websocket.Conn
	done chan struct{}
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		Conn: conn,
		done: make(chan struct{}),
	}
}

// PingPump keeps the connection alive until ReadPump returns, then sends a
// close frame.
func (c *Client) PingPump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(WriteWait))
			return
		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(WriteWait)); err != nil {
				return
			}
		}
	}
}

// ReadPump hands every text frame to onMessage until the peer goes away.
func (c *Client) ReadPump(onMessage func(raw []byte)) {
	defer close(c.done)

	c.Conn.SetReadLimit(MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		kind, raw, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		onMessage(raw)
	}
}
