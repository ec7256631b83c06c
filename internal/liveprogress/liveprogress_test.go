package liveprogress

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeIndexReturnsHTMLPage(t *testing.T) {
	updates := make(chan Update)
	s := NewServer(":0", updates)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	s.serveIndex(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "Render progress")
}

func TestWebsocketBroadcastsUpdates(t *testing.T) {
	updates := make(chan Update, 1)
	s := NewServer(":0", updates)

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	updates <- Update{SamplesDone: 5, TotalSamples: 10, Throughput: 2.5, Elapsed: "1s"}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got Update
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 5, got.SamplesDone)
	assert.Equal(t, 10, got.TotalSamples)
}

func TestServeStopsOnContextCancel(t *testing.T) {
	updates := make(chan Update)
	s := NewServer("127.0.0.1:0", updates)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop after context cancellation")
	}
}
