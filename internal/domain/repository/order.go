package repository

import (
	"context"

	"github.com/polkiloo/orderflow/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByShop(ctx context.Context, shopID int64) ([]model.Order, error)
	// UpdateStatus moves the order from -> to only if it is still in from.
	// A concurrent change results in ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus, changedBy int64) (*model.Order, error)
	History(ctx context.Context, id string) ([]model.StatusChange, error)
}
