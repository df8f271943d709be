package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Config configures the OneSignal client
type Config struct {
	Endpoint string
	AppID    string
	APIKey   string
	Timeout  time.Duration

	// Rate is the sustained requests per second, Burst the bucket size
	Rate  float64
	Burst int

	// Circuit breaker: trip when FailureThreshold of at least MinRequests fail within Interval,
	// stay open for OpenTimeout
	MinRequests      uint32
	FailureThreshold float64
	Interval         time.Duration
	OpenTimeout      time.Duration
}

func (c *Config) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Rate <= 0 {
		c.Rate = 2
	}
	if c.Burst <= 0 {
		c.Burst = 5
	}
	if c.MinRequests == 0 {
		c.MinRequests = 5
	}
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 0.6
	}
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 60 * time.Second
	}
}

// OneSignalClient broadcasts through the OneSignal REST API
type OneSignalClient struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     zerolog.Logger
}

// NewOneSignalClient creates a new OneSignalClient
func NewOneSignalClient(cfg Config, logger zerolog.Logger) *OneSignalClient {
	cfg.applyDefaults()

	settings := gobreaker.Settings{
		Name:        "onesignal",
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		// Rejected payloads say nothing about the provider's health.
		IsSuccessful: func(err error) bool {
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				return !statusErr.Retryable()
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("circuit", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}

	return &OneSignalClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
	}
}

type oneSignalPayload struct {
	AppID            string            `json:"app_id"`
	IncludedSegments []string          `json:"included_segments"`
	Headings         map[string]string `json:"headings,omitempty"`
	Contents         map[string]string `json:"contents"`
	URL              string            `json:"url,omitempty"`
	Data             map[string]any    `json:"data,omitempty"`
	IdempotencyKey   string            `json:"idempotency_key"`
}

// NotifyAll sends msg to the "All" segment
func (c *OneSignalClient) NotifyAll(ctx context.Context, msg Message) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.send(ctx, msg)
	})
	return err
}

// State exposes the circuit breaker state
func (c *OneSignalClient) State() gobreaker.State {
	return c.breaker.State()
}

func (c *OneSignalClient) send(ctx context.Context, msg Message) error {
	payload := oneSignalPayload{
		AppID:            c.cfg.AppID,
		IncludedSegments: []string{"All"},
		Contents:         map[string]string{"en": msg.Content, "ar": msg.Content},
		URL:              msg.URL,
		Data:             msg.Data,
		IdempotencyKey:   uuid.New().String(),
	}
	if msg.Heading != "" {
		payload.Headings = map[string]string{"en": msg.Heading, "ar": msg.Heading}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Basic "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug().Int("status", resp.StatusCode).Msg("push broadcast accepted")
		return nil
	}
	return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
}
