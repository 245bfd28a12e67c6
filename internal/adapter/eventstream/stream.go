package eventstream

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/polkiloo/orderflow/internal/domain/model"
)

// messageWriter is the subset of *kafkago.Writer used by Stream.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Stream publishes order events to Kafka from a single background writer.
// A nil writer disables the stream.
type Stream struct {
	writer  messageWriter
	logger  *slog.Logger
	timeout time.Duration

	events chan model.OrderEvent
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewWriter builds a Kafka writer that keys messages by order id.
func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
	}
}

// NewStream constructs a stream with a bounded buffer.
func NewStream(writer messageWriter, buffer int, logger *slog.Logger) *Stream {
	if buffer <= 0 {
		buffer = 1
	}
	return &Stream{
		writer:  writer,
		logger:  logger,
		timeout: 5 * time.Second,
		events:  make(chan model.OrderEvent, buffer),
	}
}

// Enabled reports whether events are forwarded anywhere.
func (s *Stream) Enabled() bool {
	return s.writer != nil
}

// Emit queues event without blocking and reports whether it was accepted.
func (s *Stream) Emit(event model.OrderEvent) bool {
	if !s.Enabled() {
		return false
	}
	select {
	case s.events <- event:
		return true
	default:
		s.logger.Warn("event stream buffer full, event dropped", slog.String("order_id", event.OrderID))
		return false
	}
}

// Start launches the writer goroutine.
func (s *Stream) Start(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(runCtx)
}

// Stop flushes queued events, then closes the writer.
func (s *Stream) Stop() error {
	if !s.Enabled() {
		return nil
	}
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
	return s.writer.Close()
}

func (s *Stream) run(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			s.drain()
			return
		case event := <-s.events:
			s.write(event)
		}
	}
}

func (s *Stream) drain() {
	for {
		select {
		case event := <-s.events:
			s.write(event)
		default:
			return
		}
	}
}

func (s *Stream) write(event model.OrderEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("encode order event failed", slog.String("order_id", event.OrderID), slog.String("error", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	msg := kafkago.Message{Key: []byte(event.OrderID), Value: payload, Time: event.At.UTC()}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.logger.Error("publish order event failed",
			slog.String("order_id", event.OrderID),
			slog.String("status", string(event.Status)),
			slog.String("error", err.Error()),
		)
	}
}
