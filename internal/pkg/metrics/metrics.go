// Package metrics provides Prometheus metrics for the content service.
package metrics

import (
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "edu"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Content metrics
	ArticleOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "articles",
			Name:      "operations_total",
			Help:      "Article operations by partition, operation and result",
		},
		[]string{"connection", "operation", "result"},
	)

	ArticleListCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "articles",
			Name:      "list_cache_total",
			Help:      "Article list cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	BlobCleanupFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "cleanup_failures_total",
			Help:      "Storage objects that could not be removed after their rows were deleted",
		},
	)

	// Notification metrics
	NotificationEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "events_total",
			Help:      "Publish events by outcome (enqueued, dropped, processed)",
		},
		[]string{"outcome"},
	)

	NotificationDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "deliveries_total",
			Help:      "Deliveries by channel (push, websocket, in_app) and result",
		},
		[]string{"channel", "result"},
	)

	NotificationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "queue_depth",
			Help:      "Events waiting in the notification queue",
		},
	)

	// Database metrics
	DBConnectionPoolSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "pool_connections",
			Help:      "Database connection pool stats by partition",
		},
		[]string{"connection", "state"},
	)
)

// Result labels
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ObserveArticleOperation records the outcome of one pipeline operation
func ObserveArticleOperation(connection, operation string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	ArticleOperations.WithLabelValues(connection, operation, result).Inc()
}

// ObserveDelivery records one notification delivery attempt
func ObserveDelivery(channel string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	NotificationDeliveries.WithLabelValues(channel, result).Inc()
}

// PoolStats is an interface for getting pool statistics
type PoolStats interface {
	TotalConns() int32
	IdleConns() int32
	AcquiredConns() int32
}

// PoolStatsProvider is an interface for providing pool stats
type PoolStatsProvider interface {
	Stat() PoolStats
}

type pgxPoolAdapter struct {
	pool *pgxpool.Pool
}

func (a *pgxPoolAdapter) Stat() PoolStats {
	return a.pool.Stat()
}

// PoolStatsCollector collects pool statistics of every partition periodically
type PoolStatsCollector struct {
	providers map[string]PoolStatsProvider
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewPoolStatsCollector creates a collector over partition pools keyed by connection id
func NewPoolStatsCollector(pools map[string]*pgxpool.Pool) *PoolStatsCollector {
	providers := make(map[string]PoolStatsProvider, len(pools))
	for conn, pool := range pools {
		providers[conn] = &pgxPoolAdapter{pool: pool}
	}
	return NewPoolStatsCollectorWithProviders(providers)
}

// NewPoolStatsCollectorWithProviders creates a collector with custom providers (for testing)
func NewPoolStatsCollectorWithProviders(providers map[string]PoolStatsProvider) *PoolStatsCollector {
	return &PoolStatsCollector{
		providers: providers,
		stopChan:  make(chan struct{}),
	}
}

// Start begins collecting pool stats every interval
func (c *PoolStatsCollector) Start(interval time.Duration) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopChan:
				return
			}
		}
	}()
}

func (c *PoolStatsCollector) collect() {
	for conn, provider := range c.providers {
		stats := provider.Stat()
		DBConnectionPoolSize.WithLabelValues(conn, "total").Set(float64(stats.TotalConns()))
		DBConnectionPoolSize.WithLabelValues(conn, "idle").Set(float64(stats.IdleConns()))
		DBConnectionPoolSize.WithLabelValues(conn, "in_use").Set(float64(stats.AcquiredConns()))
	}
}

// Stop stops the pool stats collector
func (c *PoolStatsCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}
