// Package notifications fans "article published" events out to push subscribers,
// connected dashboards and the in-app inbox of every active user.
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tuhmaz/edu/internal/app/models"
	"github.com/tuhmaz/edu/internal/app/repositories"
	"github.com/tuhmaz/edu/internal/pkg/metrics"
	"github.com/tuhmaz/edu/internal/pkg/push"
	"github.com/tuhmaz/edu/internal/pkg/websocket"
	"github.com/tuhmaz/edu/internal/tenant"
	"golang.org/x/sync/errgroup"
)

// Delivery channels used as metric labels
const (
	ChannelPush      = "push"
	ChannelWebsocket = "websocket"
	ChannelInApp     = "in_app"
)

// ErrDispatcherClosed is returned by Start after Shutdown
var ErrDispatcherClosed = errors.New("notification dispatcher closed")

// ArticlePublished is emitted once an article create has committed
type ArticlePublished struct {
	Connection  tenant.Connection `json:"connection"`
	ArticleID   int64             `json:"articleId"`
	Title       string            `json:"title"`
	GradeName   string            `json:"gradeName"`
	AuthorID    int64             `json:"authorId"`
	PublishedAt time.Time         `json:"publishedAt"`
}

// Text is the human readable announcement sent to devices and inboxes
func (e ArticlePublished) Text() string {
	return fmt.Sprintf("تم نشر مقال جديد: %s (الصف: %s)", e.Title, e.GradeName)
}

// Broadcaster pushes events to live dashboard connections
type Broadcaster interface {
	Broadcast(eventType, connection string, payload any) (bool, error)
}

// Config tunes the dispatcher
type Config struct {
	QueueSize     int
	Workers       int
	UserBatchSize int
	// ArticleURL builds the link attached to push messages; optional
	ArticleURL func(e ArticlePublished) string
}

func (c *Config) applyDefaults() {
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.UserBatchSize <= 0 {
		c.UserBatchSize = 500
	}
}

// Dispatcher delivers events outside of the request that produced them.
// Publish never blocks; a full queue drops the event.
type Dispatcher struct {
	cfg    Config
	queue  chan ArticlePublished
	push   push.Broadcaster
	hub    Broadcaster
	users  repositories.UserRepository
	inbox  repositories.NotificationRepository
	logger zerolog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	group   *errgroup.Group
	cancel  context.CancelFunc
}

// NewDispatcher creates a dispatcher. users and inbox belong to the partition holding the user directory.
func NewDispatcher(
	cfg Config,
	pushClient push.Broadcaster,
	hub Broadcaster,
	users repositories.UserRepository,
	inbox repositories.NotificationRepository,
	logger zerolog.Logger,
) *Dispatcher {
	cfg.applyDefaults()
	if pushClient == nil {
		pushClient = push.Noop{}
	}
	return &Dispatcher{
		cfg:    cfg,
		queue:  make(chan ArticlePublished, cfg.QueueSize),
		push:   pushClient,
		hub:    hub,
		users:  users,
		inbox:  inbox,
		logger: logger,
	}
}

// Publish enqueues an event and reports whether it was accepted
func (d *Dispatcher) Publish(event ArticlePublished) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.NotificationEvents.WithLabelValues("dropped").Inc()
		d.logger.Warn().Int64("articleID", event.ArticleID).Msg("Dispatcher closed, notification dropped")
		return false
	}

	select {
	case d.queue <- event:
		metrics.NotificationEvents.WithLabelValues("enqueued").Inc()
		metrics.NotificationQueueDepth.Set(float64(len(d.queue)))
		return true
	default:
		metrics.NotificationEvents.WithLabelValues("dropped").Inc()
		d.logger.Warn().
			Str("connection", event.Connection.String()).
			Int64("articleID", event.ArticleID).
			Msg("Notification queue full, event dropped")
		return false
	}
}

// Start launches the workers. Deliveries use ctx; cancelling it aborts in-flight sends.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDispatcherClosed
	}
	if d.started {
		return nil
	}
	d.started = true

	ctx, d.cancel = context.WithCancel(ctx)
	d.group, ctx = errgroup.WithContext(ctx)
	for i := 0; i < d.cfg.Workers; i++ {
		worker := i
		d.group.Go(func() error {
			d.work(ctx, worker)
			return nil
		})
	}

	d.logger.Info().
		Int("workers", d.cfg.Workers).
		Int("queueSize", d.cfg.QueueSize).
		Msg("Notification dispatcher started")
	return nil
}

func (d *Dispatcher) work(ctx context.Context, worker int) {
	for event := range d.queue {
		metrics.NotificationQueueDepth.Set(float64(len(d.queue)))
		d.deliver(ctx, event)
		metrics.NotificationEvents.WithLabelValues("processed").Inc()
	}
	d.logger.Debug().Int("worker", worker).Msg("Notification worker stopped")
}

// Shutdown stops accepting events and waits for the queue to drain.
// When ctx expires first, in-flight deliveries are cancelled and ctx.Err() is returned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		d.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.logger.Info().Msg("Notification dispatcher drained")
		return nil
	case <-ctx.Done():
		remaining := len(d.queue)
		d.cancel()
		<-done
		d.logger.Warn().Int("remaining", remaining).Msg("Notification dispatcher shutdown timed out")
		return ctx.Err()
	}
}

// deliver runs each channel independently; one failing channel never blocks the others.
func (d *Dispatcher) deliver(ctx context.Context, event ArticlePublished) {
	log := d.logger.With().
		Str("connection", event.Connection.String()).
		Int64("articleID", event.ArticleID).
		Logger()

	if err := d.sendPush(ctx, event); err != nil {
		log.Error().Err(err).Msg("Push broadcast failed")
	}

	if err := d.broadcast(event); err != nil {
		log.Error().Err(err).Msg("Dashboard broadcast failed")
	}

	count, err := d.fanOut(ctx, event)
	if err != nil {
		log.Error().Err(err).Int64("delivered", count).Msg("In-app notification fan-out failed")
		return
	}
	log.Debug().Int64("delivered", count).Msg("Article notification delivered")
}

func (d *Dispatcher) sendPush(ctx context.Context, event ArticlePublished) error {
	msg := push.Message{
		Heading: event.Title,
		Content: event.Text(),
		Data: map[string]any{
			"type":       models.NotificationTypeArticlePublished,
			"connection": event.Connection.String(),
			"article_id": event.ArticleID,
		},
	}
	if d.cfg.ArticleURL != nil {
		msg.URL = d.cfg.ArticleURL(event)
	}

	err := d.push.NotifyAll(ctx, msg)
	metrics.ObserveDelivery(ChannelPush, err)
	return err
}

func (d *Dispatcher) broadcast(event ArticlePublished) error {
	if d.hub == nil {
		return nil
	}

	ok, err := d.hub.Broadcast(websocket.EventArticlePublished, event.Connection.String(), event)
	if err == nil && !ok {
		err = errors.New("hub buffer full")
	}
	metrics.ObserveDelivery(ChannelWebsocket, err)
	return err
}

// fanOut writes one inbox row per active user, paging through the directory in batches
func (d *Dispatcher) fanOut(ctx context.Context, event ArticlePublished) (int64, error) {
	if d.users == nil || d.inbox == nil {
		return 0, nil
	}

	data, err := json.Marshal(map[string]any{
		"connection": event.Connection.String(),
		"article_id": event.ArticleID,
		"title":      event.Title,
		"grade_name": event.GradeName,
		"message":    event.Text(),
	})
	if err != nil {
		return 0, fmt.Errorf("error encoding notification: %w", err)
	}

	var total int64
	var afterID int64
	for {
		ids, err := d.users.ListActiveIDs(ctx, afterID, d.cfg.UserBatchSize)
		if err != nil {
			metrics.ObserveDelivery(ChannelInApp, err)
			return total, fmt.Errorf("error listing users: %w", err)
		}
		if len(ids) == 0 {
			break
		}

		n, err := d.inbox.CreateBatch(ctx, ids, models.NotificationTypeArticlePublished, data)
		metrics.ObserveDelivery(ChannelInApp, err)
		if err != nil {
			return total, fmt.Errorf("error storing notifications: %w", err)
		}
		total += n

		if len(ids) < d.cfg.UserBatchSize {
			break
		}
		afterID = ids[len(ids)-1]
	}
	return total, nil
}
