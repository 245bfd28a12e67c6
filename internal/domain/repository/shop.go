package repository

import (
	"context"

	"github.com/polkiloo/orderflow/internal/domain/model"
)

// ShopRepository gives access to shops and their live menus.
type ShopRepository interface {
	Create(ctx context.Context, ownerID int64, name, phone string) (*model.Shop, error)
	GetByID(ctx context.Context, id int64) (*model.Shop, error)
	Menu(ctx context.Context, shopID int64) ([]model.MenuItem, error)
	ReplaceMenu(ctx context.Context, shopID int64, items []model.MenuItem) ([]model.MenuItem, error)
}
