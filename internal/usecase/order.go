package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/orderflow/internal/domain/errors"
	"github.com/polkiloo/orderflow/internal/domain/model"
	"github.com/polkiloo/orderflow/internal/domain/repository"
)

// Notifier is told about persisted order changes. Implementations must not
// block the caller and must not fail it.
type Notifier interface {
	OrderCreated(ctx context.Context, order model.Order, shop model.Shop)
	StatusChanged(ctx context.Context, order model.Order, from model.OrderStatus)
}

// OrderLifecycle creates orders and moves them through their statuses.
type OrderLifecycle struct {
	orders       repository.OrderRepository
	shops        repository.ShopRepository
	sequences    repository.SequenceAllocator
	gate         *AuthorizationGate
	notifier     Notifier
	sequenceName string
	logger       *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewOrderLifecycle constructs OrderLifecycle.
func NewOrderLifecycle(
	orders repository.OrderRepository,
	shops repository.ShopRepository,
	sequences repository.SequenceAllocator,
	gate *AuthorizationGate,
	notifier Notifier,
	sequenceName string,
	logger *slog.Logger,
) *OrderLifecycle {
	return &OrderLifecycle{
		orders:       orders,
		shops:        shops,
		sequences:    sequences,
		gate:         gate,
		notifier:     notifier,
		sequenceName: sequenceName,
		logger:       logger,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Create prices the requested items against the live menu, allocates the
// next order number and persists the order as received.
func (u *OrderLifecycle) Create(ctx context.Context, in model.NewOrder) (*model.Order, error) {
	if len(in.Items) == 0 {
		return nil, domainErrors.ErrEmptyOrder
	}
	if err := validateNewOrder(in); err != nil {
		return nil, err
	}

	shop, err := u.shops.GetByID(ctx, in.ShopID)
	if err != nil {
		return nil, err
	}

	menu, err := u.shops.Menu(ctx, shop.ID)
	if err != nil {
		return nil, err
	}

	items := make([]model.LineItem, 0, len(in.Items))
	for _, req := range in.Items {
		item, matched := ResolveLineItem(req, menu)
		if !matched {
			if item.Name == "" || item.UnitPrice < 0 {
				return nil, fmt.Errorf("%w: item %d is not on the menu", domainErrors.ErrInvalidOrder, req.ItemID)
			}
			u.logger.Warn("menu item not found, using client price",
				slog.Int64("shop_id", shop.ID),
				slog.String("item", item.Name),
				slog.Int64("price", item.UnitPrice),
			)
		}
		items = append(items, item)
	}

	total, ok := model.SumLineItems(items)
	if !ok {
		return nil, fmt.Errorf("%w: order total out of range", domainErrors.ErrInvalidOrder)
	}

	seq, err := u.sequences.Allocate(ctx, u.sequenceName)
	if err != nil {
		return nil, fmt.Errorf("allocate order number: %w", err)
	}

	now := u.now().UTC()
	order := &model.Order{
		ID:             u.newID(),
		SequenceNumber: seq,
		ShopID:         shop.ID,
		CustomerName:   strings.TrimSpace(in.CustomerName),
		Phone:          strings.TrimSpace(in.Phone),
		Address:        strings.TrimSpace(in.Address),
		Items:          items,
		Total:          total,
		Status:         model.OrderStatusReceived,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	u.notifier.OrderCreated(ctx, *order, *shop)
	return order, nil
}

// Transition applies newStatus on behalf of caller.
func (u *OrderLifecycle) Transition(ctx context.Context, orderID string, caller model.Caller, newStatus model.OrderStatus) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	allowed, err := u.gate.Authorize(ctx, caller, order.ShopID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domainErrors.ErrForbidden
	}

	if !model.CanTransition(order.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", domainErrors.ErrInvalidTransition, order.Status, newStatus)
	}

	updated, err := u.orders.UpdateStatus(ctx, order.ID, order.Status, newStatus, caller.MerchantID)
	if err != nil {
		return nil, err
	}

	u.notifier.StatusChanged(ctx, *updated, order.Status)
	return updated, nil
}

// Get returns the order without an ownership check.
func (u *OrderLifecycle) Get(ctx context.Context, orderID string) (*model.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, domainErrors.ErrNotFound
	}
	return u.orders.GetByID(ctx, orderID)
}

// ListByShop returns the shop's orders, newest first.
func (u *OrderLifecycle) ListByShop(ctx context.Context, caller model.Caller, shopID int64) ([]model.Order, error) {
	if err := u.authorize(ctx, caller, shopID); err != nil {
		return nil, err
	}
	return u.orders.ListByShop(ctx, shopID)
}

// History returns the status audit trail of an order.
func (u *OrderLifecycle) History(ctx context.Context, caller model.Caller, orderID string) ([]model.StatusChange, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := u.authorize(ctx, caller, order.ShopID); err != nil {
		return nil, err
	}
	return u.orders.History(ctx, order.ID)
}

func (u *OrderLifecycle) authorize(ctx context.Context, caller model.Caller, shopID int64) error {
	allowed, err := u.gate.Authorize(ctx, caller, shopID)
	if err != nil {
		return err
	}
	if !allowed {
		return domainErrors.ErrForbidden
	}
	return nil
}

func validateNewOrder(in model.NewOrder) error {
	switch {
	case in.ShopID <= 0:
		return fmt.Errorf("%w: shop is required", domainErrors.ErrInvalidOrder)
	case strings.TrimSpace(in.CustomerName) == "":
		return fmt.Errorf("%w: customer name is required", domainErrors.ErrInvalidOrder)
	case strings.TrimSpace(in.Phone) == "":
		return fmt.Errorf("%w: phone is required", domainErrors.ErrInvalidOrder)
	}
	for i, item := range in.Items {
		if item.Qty <= 0 {
			return fmt.Errorf("%w: item %d has non-positive quantity", domainErrors.ErrInvalidOrder, i)
		}
		if item.ItemID == 0 && strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%w: item %d has neither id nor name", domainErrors.ErrInvalidOrder, i)
		}
	}
	return nil
}
