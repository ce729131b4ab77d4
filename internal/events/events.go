package events

import (
	"context"
	"encoding/json"
	"time"
)

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	TypeBookAdded    = "book_added"
	TypeBookFinished = "book_finished"
)

// Event represents a book lifecycle message addressed to the owning reader.
type Event struct {
	Type     string          `json:"event"`
	ReaderID string          `json:"reader_id"`
	Payload  json.RawMessage `json:"payload"`
}

// BookAddedPayload is the payload for the "book_added" event.
type BookAddedPayload struct {
	BookID string `json:"book_id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// BookFinishedPayload is the payload for the "book_finished" event.
type BookFinishedPayload struct {
	BookID     string    `json:"book_id"`
	Title      string    `json:"title"`
	Comment    string    `json:"comment,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// New builds an Event with a JSON-encoded payload.
func New(eventType, readerID string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, ReaderID: readerID, Payload: raw}, nil
}

// Publisher sends events to every subscriber.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus is a Publisher whose events can also be consumed.
// Subscribe delivers events until ctx is cancelled, then closes the channel.
type Bus interface {
	Publisher
	Subscribe(ctx context.Context) (<-chan Event, error)
}
