package test

import (
	"context"
	"sync"

	"github.com/polkiloo/orderflow/internal/domain/model"
)

// StatusChangeCall records a Notifier.StatusChanged invocation.
type StatusChangeCall struct {
	Order model.Order
	From  model.OrderStatus
}

// NotifierRecorder captures lifecycle notifications.
type NotifierRecorder struct {
	mu      sync.Mutex
	Created []model.Order
	Shops   []model.Shop
	Changed []StatusChangeCall
}

// OrderCreated records the created order and its shop.
func (n *NotifierRecorder) OrderCreated(_ context.Context, order model.Order, shop model.Shop) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Created = append(n.Created, order)
	n.Shops = append(n.Shops, shop)
}

// StatusChanged records the transition.
func (n *NotifierRecorder) StatusChanged(_ context.Context, order model.Order, from model.OrderStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Changed = append(n.Changed, StatusChangeCall{Order: order, From: from})
}

// Counts returns the number of creation and change notifications.
func (n *NotifierRecorder) Counts() (created, changed int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Created), len(n.Changed)
}

// SentMessage is a message observed by SenderStub.
type SentMessage struct {
	Phone string
	Text  string
}

// SenderStub records outbound messages and lets tests inject failures.
type SenderStub struct {
	mu     sync.Mutex
	SendFn func(ctx context.Context, phone, text string) error
	Sent   []SentMessage
	Calls  int
}

// Send records the attempt and delegates to SendFn when set.
func (s *SenderStub) Send(ctx context.Context, phone, text string) error {
	s.mu.Lock()
	s.Calls++
	fn := s.SendFn
	s.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, phone, text); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.Sent = append(s.Sent, SentMessage{Phone: phone, Text: text})
	s.mu.Unlock()
	return nil
}

// Snapshot returns delivered messages and total attempts.
func (s *SenderStub) Snapshot() ([]SentMessage, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SentMessage(nil), s.Sent...), s.Calls
}
