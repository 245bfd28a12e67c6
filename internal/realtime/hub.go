package realtime

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/polkiloo/orderflow/internal/domain/model"
)

// Subscription receives events for a single order until unsubscribed.
type Subscription struct {
	C <-chan model.OrderEvent

	id      uint64
	orderID string
	ch      chan model.OrderEvent
}

// OrderID returns the topic the subscription listens on.
func (s *Subscription) OrderID() string {
	return s.orderID
}

type topic struct {
	subs     map[uint64]*Subscription
	lastRank int
}

// Hub fans order events out to in-process subscribers keyed by order id.
// Delivery never blocks the publisher: a subscriber whose buffer is full
// misses the event. Events ranked below the last one delivered on a topic are dropped.
type Hub struct {
	mu     sync.Mutex
	buffer int
	nextID uint64
	topics map[string]*topic
	gauge  prometheus.Gauge
	closed bool
}

// NewHub creates a hub; gauge may be nil.
func NewHub(buffer int, gauge prometheus.Gauge) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		buffer: buffer,
		topics: make(map[string]*topic),
		gauge:  gauge,
	}
}

// Subscribe registers a listener for orderID.
func (h *Hub) Subscribe(orderID string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan model.OrderEvent, h.buffer)
	h.nextID++
	sub := &Subscription{C: ch, id: h.nextID, orderID: orderID, ch: ch}
	if h.closed {
		close(ch)
		return sub
	}

	t, ok := h.topics[orderID]
	if !ok {
		t = &topic{subs: make(map[uint64]*Subscription)}
		h.topics[orderID] = t
	}
	t.subs[sub.id] = sub
	if h.gauge != nil {
		h.gauge.Inc()
	}
	return sub
}

// Unsubscribe removes the subscription and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.topics[sub.orderID]
	if !ok {
		return
	}
	if _, ok := t.subs[sub.id]; !ok {
		return
	}
	delete(t.subs, sub.id)
	close(sub.ch)
	if h.gauge != nil {
		h.gauge.Dec()
	}
	if len(t.subs) == 0 {
		delete(h.topics, sub.orderID)
	}
}

// Publish delivers event to every current subscriber of its order and
// returns how many received it.
func (h *Hub) Publish(event model.OrderEvent) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	t, ok := h.topics[event.OrderID]
	if !ok {
		return 0
	}

	rank := event.Status.Rank()
	if rank <= t.lastRank {
		return 0
	}
	t.lastRank = rank

	delivered := 0
	for _, sub := range t.subs {
		select {
		case sub.ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers reports the number of listeners on orderID.
func (h *Hub) Subscribers(orderID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.topics[orderID]; ok {
		return len(t.subs)
	}
	return 0
}

// Close drops every subscriber; later subscriptions are closed immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, t := range h.topics {
		for _, sub := range t.subs {
			close(sub.ch)
			if h.gauge != nil {
				h.gauge.Dec()
			}
		}
		delete(h.topics, id)
	}
}
