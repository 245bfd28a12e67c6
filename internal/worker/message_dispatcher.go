package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/polkiloo/orderflow/internal/adapter/whatsapp"
	"github.com/polkiloo/orderflow/internal/domain/model"
)

// MessageDispatcher delivers outbound messages from a bounded queue with a pool of workers.
// Enqueue never blocks; delivery is best effort with bounded retries.
type MessageDispatcher struct {
	sender  whatsapp.Sender
	retry   RetryConfig
	workers int
	logger  *slog.Logger
	results *prometheus.CounterVec

	jobs   chan model.OutboundMessage
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewMessageDispatcher constructs the dispatcher; results may be nil.
func NewMessageDispatcher(sender whatsapp.Sender, queueSize, workers int, retry RetryConfig, logger *slog.Logger, results *prometheus.CounterVec) *MessageDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &MessageDispatcher{
		sender:  sender,
		retry:   retry,
		workers: workers,
		logger:  logger,
		results: results,
		jobs:    make(chan model.OutboundMessage, queueSize),
	}
}

// Start launches the workers.
func (d *MessageDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop cancels in-flight deliveries and waits for workers to finish.
func (d *MessageDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Enqueue schedules msg for delivery and reports whether it was accepted.
func (d *MessageDispatcher) Enqueue(msg model.OutboundMessage) bool {
	select {
	case d.jobs <- msg:
		return true
	default:
		d.logger.Warn("outbound queue full, message dropped",
			slog.String("order_id", msg.OrderID),
			slog.String("phone", msg.Phone),
		)
		d.count("dropped_full")
		return false
	}
}

// Pending reports queued messages not yet picked up by a worker.
func (d *MessageDispatcher) Pending() int {
	return len(d.jobs)
}

func (d *MessageDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-d.jobs:
			d.deliver(ctx, msg)
		}
	}
}

func (d *MessageDispatcher) deliver(ctx context.Context, msg model.OutboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("outbound message panic", slog.String("order_id", msg.OrderID), slog.Any("panic", r))
			d.count("failed")
		}
	}()

	attempts, err := retryWithBackoff(ctx, d.retry, func(ctx context.Context) error {
		return d.sender.Send(ctx, msg.Phone, msg.Text)
	})
	if err != nil {
		d.logger.Error("outbound message dropped",
			slog.String("order_id", msg.OrderID),
			slog.Int("attempts", attempts),
			slog.String("error", err.Error()),
		)
		d.count("failed")
		return
	}
	if attempts > 1 {
		d.count("retried")
	}
	d.count("sent")
}

func (d *MessageDispatcher) count(result string) {
	if d.results != nil {
		d.results.WithLabelValues(result).Inc()
	}
}
