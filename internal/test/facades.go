package test

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/orderflow/internal/domain/model"
)

// ShopFacadeStub provides controllable behaviour for shop endpoints.
type ShopFacadeStub struct {
	CreateFn      func(context.Context, model.Caller, string, string) (*model.Shop, error)
	MenuFn        func(context.Context, int64) ([]model.MenuItem, error)
	ReplaceMenuFn func(context.Context, model.Caller, int64, []model.MenuItem) ([]model.MenuItem, error)
	OrdersFn      func(context.Context, model.Caller, int64) ([]model.Order, error)
}

// CreateShop returns a shop owned by the caller unless overridden.
func (s ShopFacadeStub) CreateShop(ctx context.Context, caller model.Caller, name, phone string) (*model.Shop, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, caller, name, phone)
	}
	return &model.Shop{ID: 1, OwnerID: caller.MerchantID, Name: name, Phone: phone, CreatedAt: time.Unix(0, 0).UTC()}, nil
}

// Menu returns a single available item unless overridden.
func (s ShopFacadeStub) Menu(ctx context.Context, shopID int64) ([]model.MenuItem, error) {
	if s.MenuFn != nil {
		return s.MenuFn(ctx, shopID)
	}
	return []model.MenuItem{{ID: 1, ShopID: shopID, Name: "Tea", Price: 150, Available: true}}, nil
}

// ReplaceMenu echoes the items with generated ids unless overridden.
func (s ShopFacadeStub) ReplaceMenu(ctx context.Context, caller model.Caller, shopID int64, items []model.MenuItem) ([]model.MenuItem, error) {
	if s.ReplaceMenuFn != nil {
		return s.ReplaceMenuFn(ctx, caller, shopID, items)
	}
	out := make([]model.MenuItem, len(items))
	for i, it := range items {
		it.ID = int64(i + 1)
		it.ShopID = shopID
		out[i] = it
	}
	return out, nil
}

// ShopOrders returns no orders unless overridden.
func (s ShopFacadeStub) ShopOrders(ctx context.Context, caller model.Caller, shopID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, caller, shopID)
	}
	return nil, nil
}

// SampleOrder builds a received order with a single line item.
func SampleOrder(id string) *model.Order {
	at := time.Unix(0, 0).UTC()
	return &model.Order{
		ID:             id,
		SequenceNumber: 1,
		ShopID:         1,
		CustomerName:   "Ann",
		Phone:          "15550001",
		Items:          []model.LineItem{{MenuItemID: 1, Name: "Tea", Qty: 2, UnitPrice: 150}},
		Total:          300,
		Status:         model.OrderStatusReceived,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn     func(context.Context, model.NewOrder) (*model.Order, error)
	GetFn        func(context.Context, string) (*model.Order, error)
	TransitionFn func(context.Context, model.Caller, string, model.OrderStatus) (*model.Order, error)
	HistoryFn    func(context.Context, model.Caller, string) ([]model.StatusChange, error)
}

// CreateOrder delegates to provided function or returns a sample order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, in model.NewOrder) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, in)
	}
	return SampleOrder("order-1"), nil
}

// Order returns a sample order for any id.
func (s OrderFacadeStub) Order(ctx context.Context, orderID string) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, orderID)
	}
	return SampleOrder(orderID), nil
}

// TransitionOrder returns the sample order in the requested status.
func (s OrderFacadeStub) TransitionOrder(ctx context.Context, caller model.Caller, orderID string, status model.OrderStatus) (*model.Order, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, caller, orderID, status)
	}
	order := SampleOrder(orderID)
	order.Status = status
	return order, nil
}

// OrderHistory returns an empty trail unless overridden.
func (s OrderFacadeStub) OrderHistory(ctx context.Context, caller model.Caller, orderID string) ([]model.StatusChange, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, caller, orderID)
	}
	return nil, nil
}

// EventFacadeStub serves subscriptions from a prepared channel.
type EventFacadeStub struct {
	SubscribeFn func(context.Context, string) (<-chan model.OrderEvent, func(), error)
}

// SubscribeOrder returns a closed channel unless overridden.
func (s EventFacadeStub) SubscribeOrder(ctx context.Context, orderID string) (<-chan model.OrderEvent, func(), error) {
	if s.SubscribeFn != nil {
		return s.SubscribeFn(ctx, orderID)
	}
	ch := make(chan model.OrderEvent)
	close(ch)
	return ch, func() {}, nil
}

// MessagingFacadeStub records inbound messages and checks a fixed verify token.
type MessagingFacadeStub struct {
	VerifyToken string

	mu      sync.Mutex
	Inbound []model.InboundMessage
}

// VerifyWebhook accepts a subscribe request carrying VerifyToken.
func (s *MessagingFacadeStub) VerifyWebhook(mode, token, challenge string) (string, bool) {
	if mode != "subscribe" || token == "" || token != s.VerifyToken {
		return "", false
	}
	return challenge, true
}

// HandleInbound records msg.
func (s *MessagingFacadeStub) HandleInbound(_ context.Context, msg model.InboundMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Inbound = append(s.Inbound, msg)
}

// Messages returns a copy of the recorded inbound messages.
func (s *MessagingFacadeStub) Messages() []model.InboundMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.InboundMessage(nil), s.Inbound...)
}

// HealthFacadeStub returns Err from HealthCheck.
type HealthFacadeStub struct {
	Err error
}

// HealthCheck reports the configured error.
func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// CommerceFacadeStub combines every facade stub used by the router.
type CommerceFacadeStub struct {
	AuthFacadeStub
	ShopFacadeStub
	OrderFacadeStub
	EventFacadeStub
	*MessagingFacadeStub
	HealthFacadeStub
}

// NewCommerceFacadeStub returns a stub with default behaviour everywhere.
func NewCommerceFacadeStub() CommerceFacadeStub {
	return CommerceFacadeStub{MessagingFacadeStub: &MessagingFacadeStub{VerifyToken: "verify"}}
}
