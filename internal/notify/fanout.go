package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/polkiloo/orderflow/internal/domain/model"
	"github.com/polkiloo/orderflow/internal/metrics"
)

const (
	channelRealtime  = "realtime"
	channelMessaging = "messaging"
	channelStream    = "stream"
)

// Broadcaster delivers events to in-process subscribers.
type Broadcaster interface {
	Publish(event model.OrderEvent) int
}

// MessageQueue accepts outbound messages for asynchronous delivery.
type MessageQueue interface {
	Enqueue(msg model.OutboundMessage) bool
}

// EventStream forwards events to downstream consumers.
type EventStream interface {
	Emit(event model.OrderEvent) bool
}

// Fanout propagates persisted order changes to every notification channel.
// Channels are independent and failures never reach the caller.
type Fanout struct {
	broadcaster Broadcaster
	messages    MessageQueue
	stream      EventStream
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewFanout constructs Fanout. stream and m may be nil.
func NewFanout(broadcaster Broadcaster, messages MessageQueue, stream EventStream, m *metrics.Metrics, logger *slog.Logger) *Fanout {
	return &Fanout{
		broadcaster: broadcaster,
		messages:    messages,
		stream:      stream,
		metrics:     m,
		logger:      logger,
	}
}

// OrderCreated confirms the order to the customer and alerts the shop.
func (f *Fanout) OrderCreated(_ context.Context, order model.Order, shop model.Shop) {
	if f.metrics != nil {
		f.metrics.OrdersCreated.Inc()
	}
	event := model.EventFromOrder(order)
	f.publish(event)
	f.emit(event)

	f.send(order.ID, func() []model.OutboundMessage {
		msgs := []model.OutboundMessage{{
			OrderID: order.ID,
			Phone:   order.Phone,
			Text:    confirmationText(order),
		}}
		if shop.Phone != "" {
			msgs = append(msgs, model.OutboundMessage{OrderID: order.ID, Phone: shop.Phone, Text: alertText(order)})
		}
		return msgs
	})
}

// StatusChanged tells subscribers and the customer about a transition.
func (f *Fanout) StatusChanged(_ context.Context, order model.Order, from model.OrderStatus) {
	if f.metrics != nil {
		f.metrics.Transitions.WithLabelValues(string(order.Status)).Inc()
	}
	event := model.EventFromOrder(order)
	f.publish(event)
	f.emit(event)

	f.send(order.ID, func() []model.OutboundMessage {
		return []model.OutboundMessage{{
			OrderID: order.ID,
			Phone:   order.Phone,
			Text:    statusText(order),
		}}
	})
}

func (f *Fanout) publish(event model.OrderEvent) {
	defer f.guard(channelRealtime, event.OrderID)
	n := f.broadcaster.Publish(event)
	f.logger.Debug("order event published", slog.String("order_id", event.OrderID), slog.Int("subscribers", n))
	f.observe(channelRealtime, "ok")
}

func (f *Fanout) emit(event model.OrderEvent) {
	if f.stream == nil {
		return
	}
	defer f.guard(channelStream, event.OrderID)
	if f.stream.Emit(event) {
		f.observe(channelStream, "ok")
		return
	}
	f.observe(channelStream, "skipped")
}

func (f *Fanout) send(orderID string, compose func() []model.OutboundMessage) {
	defer f.guard(channelMessaging, orderID)
	for _, msg := range compose() {
		if msg.Phone == "" {
			f.observe(channelMessaging, "skipped")
			continue
		}
		if f.messages.Enqueue(msg) {
			f.observe(channelMessaging, "ok")
		} else {
			f.observe(channelMessaging, "dropped")
		}
	}
}

func (f *Fanout) guard(channel, orderID string) {
	if r := recover(); r != nil {
		f.logger.Error("notification channel failed",
			slog.String("channel", channel),
			slog.String("order_id", orderID),
			slog.String("error", fmt.Sprint(r)),
		)
		f.observe(channel, "failed")
	}
}

func (f *Fanout) observe(channel, result string) {
	if f.metrics != nil {
		f.metrics.Fanout.WithLabelValues(channel, result).Inc()
	}
}

func confirmationText(o model.Order) string {
	return fmt.Sprintf("Hi %s, your order #%d has been received. Total: %d. Track it with: status %s",
		o.CustomerName, o.SequenceNumber, o.Total, o.ID)
}

func alertText(o model.Order) string {
	return fmt.Sprintf("New order #%d from %s (%s). Items: %d, total: %d.",
		o.SequenceNumber, o.CustomerName, o.Phone, len(o.Items), o.Total)
}

func statusText(o model.Order) string {
	return fmt.Sprintf("Your order #%d status updated to %s (%s).", o.SequenceNumber, o.Status, o.Status.Label())
}
