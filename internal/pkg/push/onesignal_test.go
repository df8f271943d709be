package push

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneSignalClient_NotifyAll(t *testing.T) {
	var received oneSignalPayload
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))
	defer server.Close()

	client := NewOneSignalClient(Config{Endpoint: server.URL, AppID: "app-1", APIKey: "secret"}, zerolog.Nop())

	err := client.NotifyAll(context.Background(), Message{
		Heading: "New article",
		Content: "Intro (Grade 1)",
		Data:    map[string]any{"articleId": float64(7)},
	})
	require.NoError(t, err)

	assert.Equal(t, "Basic secret", auth)
	assert.Equal(t, "app-1", received.AppID)
	assert.Equal(t, []string{"All"}, received.IncludedSegments)
	assert.Equal(t, "Intro (Grade 1)", received.Contents["en"])
	assert.Equal(t, "New article", received.Headings["ar"])
	assert.Equal(t, float64(7), received.Data["articleId"])
	assert.NotEmpty(t, received.IdempotencyKey)
}

func TestOneSignalClient_StatusErrors(t *testing.T) {
	status := int32(http.StatusBadRequest)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(atomic.LoadInt32(&status)))
		_, _ = w.Write([]byte(`{"errors":["bad"]}`))
	}))
	defer server.Close()

	cfg := Config{
		Endpoint:    server.URL,
		Rate:        1000,
		Burst:       100,
		MinRequests: 3,
		OpenTimeout: time.Hour,
	}
	client := NewOneSignalClient(cfg, zerolog.Nop())
	ctx := context.Background()

	// client errors never trip the breaker
	for i := 0; i < 5; i++ {
		err := client.NotifyAll(ctx, Message{Content: "x"})
		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
		assert.False(t, statusErr.Retryable())
	}
	assert.Equal(t, gobreaker.StateClosed, client.State())

	atomic.StoreInt32(&status, http.StatusServiceUnavailable)
	client = NewOneSignalClient(cfg, zerolog.Nop())
	for i := 0; i < 3; i++ {
		_ = client.NotifyAll(ctx, Message{Content: "x"})
	}
	assert.Equal(t, gobreaker.StateOpen, client.State())

	err := client.NotifyAll(ctx, Message{Content: "x"})
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
}

func TestOneSignalClient_RateLimitHonoursContext(t *testing.T) {
	client := NewOneSignalClient(Config{Endpoint: "http://127.0.0.1:0", Rate: 0.001, Burst: 1}, zerolog.Nop())
	client.limiter.Allow() // drain the only token

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := client.NotifyAll(ctx, Message{Content: "x"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.NotifyAll(context.Background(), Message{}))
}
