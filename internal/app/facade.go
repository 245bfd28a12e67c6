package app

import (
	"context"
	"crypto/subtle"

	"github.com/polkiloo/orderflow/internal/domain/model"
	"github.com/polkiloo/orderflow/internal/realtime"
	"github.com/polkiloo/orderflow/internal/usecase"
)

// HealthChecker reports whether storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// MessageQueue accepts outbound chat replies without blocking.
type MessageQueue interface {
	Enqueue(msg model.OutboundMessage) bool
}

// Deps lists the services CommerceFacade delegates to.
type Deps struct {
	Auth        *usecase.AuthUseCase
	Shops       *usecase.ShopUseCase
	Orders      *usecase.OrderLifecycle
	Bot         *usecase.BotUseCase
	Hub         *realtime.Hub
	Messages    MessageQueue
	Health      HealthChecker
	VerifyToken string
}

// CommerceFacade exposes the use cases to the transport layer.
type CommerceFacade struct {
	deps Deps
}

func NewCommerceFacade(deps Deps) *CommerceFacade {
	return &CommerceFacade{deps: deps}
}

func (f *CommerceFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.deps.Auth.Register(ctx, login, password)
	return token, err
}

func (f *CommerceFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.deps.Auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *CommerceFacade) ParseToken(token string) (model.Caller, error) {
	return f.deps.Auth.ParseToken(token)
}

func (f *CommerceFacade) CreateShop(ctx context.Context, caller model.Caller, name, phone string) (*model.Shop, error) {
	return f.deps.Shops.Create(ctx, caller, name, phone)
}

func (f *CommerceFacade) Menu(ctx context.Context, shopID int64) ([]model.MenuItem, error) {
	return f.deps.Shops.Menu(ctx, shopID)
}

func (f *CommerceFacade) ReplaceMenu(ctx context.Context, caller model.Caller, shopID int64, items []model.MenuItem) ([]model.MenuItem, error) {
	return f.deps.Shops.ReplaceMenu(ctx, caller, shopID, items)
}

func (f *CommerceFacade) ShopOrders(ctx context.Context, caller model.Caller, shopID int64) ([]model.Order, error) {
	return f.deps.Orders.ListByShop(ctx, caller, shopID)
}

func (f *CommerceFacade) CreateOrder(ctx context.Context, in model.NewOrder) (*model.Order, error) {
	return f.deps.Orders.Create(ctx, in)
}

func (f *CommerceFacade) Order(ctx context.Context, orderID string) (*model.Order, error) {
	return f.deps.Orders.Get(ctx, orderID)
}

func (f *CommerceFacade) TransitionOrder(ctx context.Context, caller model.Caller, orderID string, status model.OrderStatus) (*model.Order, error) {
	return f.deps.Orders.Transition(ctx, orderID, caller, status)
}

func (f *CommerceFacade) OrderHistory(ctx context.Context, caller model.Caller, orderID string) ([]model.StatusChange, error) {
	return f.deps.Orders.History(ctx, caller, orderID)
}

// SubscribeOrder joins the real-time topic of an existing order. The
// subscription is taken before the lookup so no transition persisted after
// the lookup can be missed.
func (f *CommerceFacade) SubscribeOrder(ctx context.Context, orderID string) (<-chan model.OrderEvent, func(), error) {
	sub := f.deps.Hub.Subscribe(orderID)
	if _, err := f.deps.Orders.Get(ctx, orderID); err != nil {
		f.deps.Hub.Unsubscribe(sub)
		return nil, nil, err
	}
	return sub.C, func() { f.deps.Hub.Unsubscribe(sub) }, nil
}

// VerifyWebhook answers the WhatsApp subscription handshake.
func (f *CommerceFacade) VerifyWebhook(mode, token, challenge string) (string, bool) {
	if mode != "subscribe" || f.deps.VerifyToken == "" {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(f.deps.VerifyToken)) != 1 {
		return "", false
	}
	return challenge, true
}

// HandleInbound runs a chat message through the bot and queues its reply.
func (f *CommerceFacade) HandleInbound(ctx context.Context, msg model.InboundMessage) {
	reply := f.deps.Bot.Reply(ctx, msg)
	if reply == "" {
		return
	}
	f.deps.Messages.Enqueue(model.OutboundMessage{Phone: msg.From, Text: reply})
}

func (f *CommerceFacade) HealthCheck(ctx context.Context) error {
	return f.deps.Health.HealthCheck(ctx)
}
