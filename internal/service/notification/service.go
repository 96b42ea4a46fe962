package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/senani-kuruwita/attendance-backend/internal/domain/notification"
)

// Config holds notification service configuration
type Config struct {
	Recipient   string        // default recipient for messages without one
	QueueSize   int           // default: 100
	SendTimeout time.Duration // default: 10 seconds
}

type service struct {
	sink   notification.Sink
	config Config

	mu      sync.RWMutex
	stopped bool
	queue   chan notification.Message
	wg      sync.WaitGroup

	// cancels in-flight sends when Stop gives up
	ctx    context.Context
	cancel context.CancelFunc
}

// NewNotificationService starts a single background worker delivering queued messages to sink.
func NewNotificationService(sink notification.Sink, cfg Config) notification.Service {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &service{
		sink:   sink,
		config: cfg,
		queue:  make(chan notification.Message, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	s.wg.Add(1)
	go s.worker()

	slog.Info("notification service started", "sink", sink.Name(), "queue_size", cfg.QueueSize)
	return s
}

func (s *service) worker() {
	defer s.wg.Done()

	for msg := range s.queue {
		s.deliver(msg)
	}
}

func (s *service) deliver(msg notification.Message) {
	ctx, cancel := context.WithTimeout(s.ctx, s.config.SendTimeout)
	defer cancel()

	if err := s.sink.Send(ctx, msg); err != nil {
		slog.Warn("failed to deliver notification",
			"sink", s.sink.Name(),
			"type", msg.Type,
			"error", err,
		)
		return
	}
	slog.Debug("notification delivered", "sink", s.sink.Name(), "type", msg.Type)
}

// Queue hands msg to the worker. A full queue drops the message.
func (s *service) Queue(msg notification.Message) error {
	if msg.Recipient == "" {
		msg.Recipient = s.config.Recipient
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		return notification.ErrStopped
	}

	select {
	case s.queue <- msg:
		return nil
	default:
		slog.Warn("notification queue full, dropping message", "type", msg.Type)
		return notification.ErrQueueFull
	}
}

// Stop gracefully stops the notification service
func (s *service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.queue)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		slog.Info("notification service stopped")
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}
