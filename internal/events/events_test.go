package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EncodesPayload(t *testing.T) {
	event, err := New(TypeBookAdded, "reader-1", BookAddedPayload{BookID: "b1", Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	assert.Equal(t, TypeBookAdded, event.Type)
	assert.Equal(t, "reader-1", event.ReaderID)

	var payload BookAddedPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, "Dune", payload.Title)
}

func TestLocalBus_FanOut(t *testing.T) {
	bus := NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub1, err := bus.Subscribe(ctx)
	require.NoError(t, err)
	sub2, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	event, err := New(TypeBookFinished, "reader-1", BookFinishedPayload{BookID: "b1"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(ctx, event))

	for _, sub := range []<-chan Event{sub1, sub2} {
		select {
		case got := <-sub:
			assert.Equal(t, TypeBookFinished, got.Type)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestLocalBus_UnsubscribeOnCancel(t *testing.T) {
	bus := NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := bus.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-sub:
		assert.False(t, ok, "channel should be closed after cancel")
	case <-time.After(time.Second):
		t.Fatal("subscription was not closed")
	}

	// Publishing after unsubscribe must not panic on the closed channel.
	assert.NoError(t, bus.Publish(context.Background(), Event{Type: TypeBookAdded}))
}
