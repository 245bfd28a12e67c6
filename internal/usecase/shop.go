package usecase

import (
	"context"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/orderflow/internal/domain/errors"
	"github.com/polkiloo/orderflow/internal/domain/model"
	"github.com/polkiloo/orderflow/internal/domain/repository"
)

// ShopUseCase manages shops and their menus.
type ShopUseCase struct {
	shops repository.ShopRepository
	gate  *AuthorizationGate
}

func NewShopUseCase(shops repository.ShopRepository, gate *AuthorizationGate) *ShopUseCase {
	return &ShopUseCase{shops: shops, gate: gate}
}

// Create registers a shop owned by caller.
func (u *ShopUseCase) Create(ctx context.Context, caller model.Caller, name, phone string) (*model.Shop, error) {
	if caller.MerchantID == 0 {
		return nil, domainErrors.ErrForbidden
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: shop name is required", domainErrors.ErrInvalidInput)
	}
	return u.shops.Create(ctx, caller.MerchantID, name, strings.TrimSpace(phone))
}

// Get returns a shop by id.
func (u *ShopUseCase) Get(ctx context.Context, shopID int64) (*model.Shop, error) {
	return u.shops.GetByID(ctx, shopID)
}

// Menu returns the live menu of a shop.
func (u *ShopUseCase) Menu(ctx context.Context, shopID int64) ([]model.MenuItem, error) {
	if _, err := u.shops.GetByID(ctx, shopID); err != nil {
		return nil, err
	}
	return u.shops.Menu(ctx, shopID)
}

// ReplaceMenu swaps the whole menu. Existing orders keep their captured prices.
func (u *ShopUseCase) ReplaceMenu(ctx context.Context, caller model.Caller, shopID int64, items []model.MenuItem) ([]model.MenuItem, error) {
	allowed, err := u.gate.Authorize(ctx, caller, shopID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domainErrors.ErrForbidden
	}

	seen := make(map[string]struct{}, len(items))
	cleaned := make([]model.MenuItem, 0, len(items))
	for i, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return nil, fmt.Errorf("%w: menu item %d has no name", domainErrors.ErrInvalidInput, i)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("%w: menu item %q has negative price", domainErrors.ErrInvalidInput, item.Name)
		}
		key := strings.ToLower(item.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate menu item %q", domainErrors.ErrInvalidInput, item.Name)
		}
		seen[key] = struct{}{}
		item.ShopID = shopID
		cleaned = append(cleaned, item)
	}

	return u.shops.ReplaceMenu(ctx, shopID, cleaned)
}
