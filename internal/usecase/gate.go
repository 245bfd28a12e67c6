package usecase

import (
	"context"

	"github.com/polkiloo/orderflow/internal/domain/model"
	"github.com/polkiloo/orderflow/internal/domain/repository"
)

// AuthorizationGate decides whether a caller may act on a shop's orders and menu.
type AuthorizationGate struct {
	shops repository.ShopRepository
}

func NewAuthorizationGate(shops repository.ShopRepository) *AuthorizationGate {
	return &AuthorizationGate{shops: shops}
}

// Authorize grants admins everything and owners their own shops.
// An unknown shop yields ErrNotFound.
func (g *AuthorizationGate) Authorize(ctx context.Context, caller model.Caller, shopID int64) (bool, error) {
	shop, err := g.shops.GetByID(ctx, shopID)
	if err != nil {
		return false, err
	}
	if caller.IsAdmin() {
		return true, nil
	}
	return caller.MerchantID != 0 && shop.OwnerID == caller.MerchantID, nil
}
