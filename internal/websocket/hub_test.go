package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	hub.now = func() time.Time { return time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC) }
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func TestHub_PublishFansOut(t *testing.T) {
	hub := startHub(t)
	a := &Client{Hub: hub, Email: "a", Send: make(chan []byte, 4)}
	b := &Client{Hub: hub, Email: "b", Send: make(chan []byte, 4)}
	hub.Register(a)
	hub.Register(b)
	waitForClients(t, hub, 2)

	hub.Publish("store_flagged", map[string]interface{}{"store_id": 7})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			var ev Event
			require.NoError(t, json.Unmarshal(msg, &ev))
			assert.Equal(t, "store_flagged", ev.Type)
			assert.Equal(t, map[string]interface{}{"store_id": float64(7)}, ev.Payload)
		case <-time.After(time.Second):
			t.Fatalf("client %s got no event", c.Email)
		}
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := startHub(t)
	slow := &Client{Hub: hub, Email: "slow", Send: make(chan []byte)}
	hub.Register(slow)
	waitForClients(t, hub, 1)

	hub.Publish("review_submitted", nil)
	waitForClients(t, hub, 0)

	_, open := <-slow.Send
	assert.False(t, open)
}

func TestHub_UnregisterTwice(t *testing.T) {
	hub := startHub(t)
	c := &Client{Hub: hub, Email: "x", Send: make(chan []byte, 1)}
	hub.Register(c)
	waitForClients(t, hub, 1)

	hub.Unregister(c)
	hub.Unregister(c)
	waitForClients(t, hub, 0)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	c := &Client{Hub: hub, Email: "x", Send: make(chan []byte, 1)}
	hub.Register(c)
	waitForClients(t, hub, 1)

	cancel()
	<-done
	_, open := <-c.Send
	assert.False(t, open)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_CallsAfterStopDoNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	// more sessions than the register and unregister queues hold
	clients := make([]*Client, 40)
	finished := make(chan struct{})
	go func() {
		for i := range clients {
			clients[i] = &Client{Hub: hub, Email: "late", Send: make(chan []byte, 1)}
			hub.Register(clients[i])
			hub.Unregister(clients[i])
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("register/unregister blocked after the hub stopped")
	}
	for _, c := range clients {
		_, open := <-c.Send
		assert.False(t, open)
	}
}

func TestFeedOverRealConnection(t *testing.T) {
	hub := startHub(t)
	upgrader := NewUpgrader([]string{"https://lfsdirectory.com"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, &Conn{Conn: conn}, "admin@lfsdirectory.com")
		hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	header := http.Header{}
	header.Set("Origin", "https://evil.example.com")
	_, resp, err := gorilla.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}

	header.Set("Origin", "https://lfsdirectory.com")
	conn, _, err := gorilla.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()
	waitForClients(t, hub, 1)

	hub.Publish("claim_submitted", map[string]interface{}{"claim_id": 1})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "claim_submitted", ev.Type)

	conn.Close()
	waitForClients(t, hub, 0)
}
