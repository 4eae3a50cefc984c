package telemetry

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangible-xr/tangible/event"
)

func TestHubBroadcastsEventsAsJSON(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, 1)

	ctrl := uuid.New()
	obj := uuid.New()
	hub.HandleEvent(event.Event{
		Type:       event.TypeGraspBegin,
		Controller: ctrl,
		Object:     obj,
		Tick:       42,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "grasp_begin", msg["type"])
	assert.Equal(t, ctrl.String(), msg["controller"])
	assert.Equal(t, obj.String(), msg["object"])
	assert.Equal(t, float64(42), msg["tick"])
}

func TestHubOmitsZeroObject(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	waitForClients(t, hub, 1)

	hub.HandleEvent(event.Event{Type: event.TypeHoverEnd, Controller: uuid.New()})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	_, present := msg["object"]
	assert.False(t, present)
}

// With no clients connected HandleEvent must not block the tick loop.
func TestHubDropsWithoutSubscribers(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.HandleEvent(event.Event{Type: event.TypeHoverBegin})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("HandleEvent blocked without subscribers")
	}
}

func TestHubSubscribesToAllTypes(t *testing.T) {
	assert.Nil(t, NewHub().EventTypes())
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() < n {
		if time.Now().After(deadline) {
			t.Fatalf("client count never reached %d", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
