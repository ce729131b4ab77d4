package events

import (
	"context"
	"log/slog"
	"sync"
)

const localSubscriberBuffer = 64

// LocalBus delivers events to subscribers inside this process.
// A subscriber whose buffer is full misses the event.
type LocalBus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewLocalBus creates an in-process Bus.
func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[chan Event]struct{})}
}

// Publish delivers event to every current subscriber without blocking.
func (b *LocalBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			slog.WarnContext(ctx, "local subscriber is full, dropping event", "event.type", event.Type)
		}
	}
	return nil
}

// Subscribe registers a subscriber that is removed when ctx is done.
func (b *LocalBus) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, localSubscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}
