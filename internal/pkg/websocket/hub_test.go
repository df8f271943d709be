package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func newServer(t *testing.T, hub *Hub, userID int64) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		if userID != 0 {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}, NewHandler(hub, zerolog.Nop()).HandleConnection)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastReachesClients(t *testing.T) {
	hub, _ := startHub(t)
	srv := newServer(t, hub, 42)

	first := dial(t, srv)
	second := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientsCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	ok, err := hub.Broadcast(EventArticlePublished, "sa", map[string]any{"id": 7, "title": "Fractions"})
	require.NoError(t, err)
	assert.True(t, ok)

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var event Event
		require.NoError(t, json.Unmarshal(data, &event))
		assert.Equal(t, EventArticlePublished, event.Type)
		assert.Equal(t, "sa", event.Connection)
		assert.JSONEq(t, `{"id":7,"title":"Fractions"}`, string(event.Payload))
	}
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub, _ := startHub(t)
	srv := newServer(t, hub, 1)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientsCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientsCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub, cancel := startHub(t)
	srv := newServer(t, hub, 1)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientsCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived), "unexpected error: %v", err)
	assert.Equal(t, 0, hub.ClientsCount())
}

func TestHandlerRejectsAnonymous(t *testing.T) {
	hub, _ := startHub(t)
	srv := newServer(t, hub, 0)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBroadcastWithoutClients(t *testing.T) {
	hub, _ := startHub(t)

	ok, err := hub.Broadcast(EventArticlePublished, "jo", map[string]string{"title": "x"})
	require.NoError(t, err)
	assert.True(t, ok)
}
