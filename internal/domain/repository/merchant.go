package repository

import (
	"context"

	"github.com/polkiloo/orderflow/internal/domain/model"
)

// MerchantRepository describes persistence operations for merchants.
type MerchantRepository interface {
	Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.Merchant, error)
	GetByLogin(ctx context.Context, login string) (*model.Merchant, error)
	GetByID(ctx context.Context, id int64) (*model.Merchant, error)
}
