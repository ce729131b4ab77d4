// Package feed pushes book events to the websocket connections of the reader
// they belong to.
package feed

import (
	"context"
	"ctchen222/booklist/internal/events"
	"encoding/json"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("feed")

// Hub routes events from the bus to connected clients by reader id.
type Hub struct {
	bus        events.Bus
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

// NewHub creates a new hub consuming bus.
func NewHub(bus events.Bus) *Hub {
	return &Hub{
		bus:        bus,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]struct{}),
	}
}

// Run subscribes to the bus and serves registrations until ctx is done.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	sub, err := h.bus.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return nil

		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.ReaderID] == nil {
				h.clients[c.ReaderID] = make(map[*Client]struct{})
			}
			h.clients[c.ReaderID][c] = struct{}{}
			h.mu.Unlock()
			slog.DebugContext(ctx, "feed client connected", "reader.id", c.ReaderID)

		case c := <-h.unregister:
			h.remove(c)
			slog.DebugContext(ctx, "feed client disconnected", "reader.id", c.ReaderID)

		case event, ok := <-sub:
			if !ok {
				return nil
			}
			h.deliver(ctx, event)
		}
	}
}

// Attach registers c with the hub and starts its pumps. It blocks until the
// peer disconnects. It returns false when the hub has stopped.
func (h *Hub) Attach(c *Client) bool {
	select {
	case h.register <- c:
	case <-h.done:
		c.Conn.Close()
		return false
	}
	go c.writePump()
	c.readPump(h)
	return true
}

// ClientCount reports the open connections of readerID.
func (h *Hub) ClientCount(readerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[readerID])
}

func (h *Hub) deliver(ctx context.Context, event events.Event) {
	_, span := tracer.Start(ctx, "feed.deliver", trace.WithAttributes(
		attribute.String("event.type", event.Type),
		attribute.String("reader.id", event.ReaderID),
	))
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal feed event", "error", err)
		return
	}

	h.mu.RLock()
	var slow []*Client
	for c := range h.clients[event.ReaderID] {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		slog.WarnContext(ctx, "dropping slow feed client", "reader.id", c.ReaderID)
		h.remove(c)
	}
	span.SetAttributes(attribute.Int("feed.dropped", len(slow)))
}

// remove closes the client's queue once; later calls are no-ops.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.ReaderID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.ReaderID)
	}
	close(c.send)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for readerID, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, readerID)
	}
}
