package hub

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyReachesAllUserStreams(t *testing.T) {
	h := NewHub()

	first := make(Client, 1)
	second := make(Client, 1)
	h.Subscribe(7, first)
	h.Subscribe(7, second)

	h.Notify(7, Event{Type: "chat_message", Payload: "hello"})

	for _, client := range []Client{first, second} {
		select {
		case raw := <-client:
			var event Event
			require.NoError(t, json.Unmarshal(raw, &event))
			assert.Equal(t, "chat_message", event.Type)
			assert.Equal(t, "hello", event.Payload)
		default:
			t.Fatal("expected a delivered event")
		}
	}
}

func TestNotifyIgnoresOtherUsers(t *testing.T) {
	h := NewHub()

	client := make(Client, 1)
	h.Subscribe(7, client)

	h.Notify(8, Event{Type: "chat_message"})
	assert.Empty(t, client)
}

func TestNotifySkipsFullStream(t *testing.T) {
	h := NewHub()

	client := make(Client, 1)
	h.Subscribe(7, client)

	h.Notify(7, Event{Type: "one"})
	h.Notify(7, Event{Type: "two"}) // buffer full, dropped

	assert.Len(t, client, 1)
}

func TestUnsubscribeClosesStream(t *testing.T) {
	h := NewHub()

	client := make(Client, 1)
	h.Subscribe(7, client)
	h.Unsubscribe(7, client)

	_, open := <-client
	assert.False(t, open)

	// Notifying after the last unsubscribe is a no-op.
	h.Notify(7, Event{Type: "chat_message"})
}
