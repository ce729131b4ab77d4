package feed

import (
	"log/slog"

	"github.com/gorilla/websocket"
)

const sendBuffer = 16

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// Client is one open feed connection of a reader.
type Client struct {
	ReaderID string
	Conn     Connection
	send     chan []byte
}

// NewClient creates a Client for readerID.
func NewClient(readerID string, conn Connection) *Client {
	return &Client{
		ReaderID: readerID,
		Conn:     conn,
		send:     make(chan []byte, sendBuffer),
	}
}

// writePump forwards queued messages to the connection until send is closed.
func (c *Client) writePump() {
	defer c.Conn.Close()
	for msg := range c.send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			slog.Debug("feed write failed", "reader.id", c.ReaderID, "error", err)
			// Closing the connection ends readPump, which unregisters the
			// client and closes send.
			c.Conn.Close()
			for range c.send {
			}
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump discards inbound frames and unregisters the client once the peer
// goes away.
func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
