package handlers

import (
	"context"

	"github.com/polkiloo/orderflow/internal/domain/model"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (model.Caller, error)
}

// ShopFacade covers shop and menu management.
type ShopFacade interface {
	CreateShop(ctx context.Context, caller model.Caller, name, phone string) (*model.Shop, error)
	Menu(ctx context.Context, shopID int64) ([]model.MenuItem, error)
	ReplaceMenu(ctx context.Context, caller model.Caller, shopID int64, items []model.MenuItem) ([]model.MenuItem, error)
	ShopOrders(ctx context.Context, caller model.Caller, shopID int64) ([]model.Order, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, in model.NewOrder) (*model.Order, error)
	Order(ctx context.Context, orderID string) (*model.Order, error)
	TransitionOrder(ctx context.Context, caller model.Caller, orderID string, status model.OrderStatus) (*model.Order, error)
	OrderHistory(ctx context.Context, caller model.Caller, orderID string) ([]model.StatusChange, error)
}

// EventFacade opens real-time subscriptions. The returned cancel func must be
// called once the client goes away.
type EventFacade interface {
	SubscribeOrder(ctx context.Context, orderID string) (<-chan model.OrderEvent, func(), error)
}

// MessagingFacade handles the WhatsApp webhook.
type MessagingFacade interface {
	VerifyWebhook(mode, token, challenge string) (string, bool)
	HandleInbound(ctx context.Context, msg model.InboundMessage)
}

// HealthFacade reports dependency health.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// CommerceFacade aggregates the full set of operations used across handlers.
type CommerceFacade interface {
	AuthFacade
	ShopFacade
	OrderFacade
	EventFacade
	MessagingFacade
	HealthFacade
}
