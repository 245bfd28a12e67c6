package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderflow/internal/config"
	"github.com/polkiloo/orderflow/internal/domain/repository"
	pkgAuth "github.com/polkiloo/orderflow/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
// A Notifier must be supplied by another module.
var Module = fx.Provide(
	newAuthUseCase,
	NewAuthorizationGate,
	NewShopUseCase,
	newOrderLifecycle,
	NewBotUseCase,
)

type authParams struct {
	fx.In

	Merchants repository.MerchantRepository
	Hasher    pkgAuth.PasswordHasher
	Strategy  pkgAuth.Strategy
	Config    *config.Config
}

func newAuthUseCase(p authParams) *AuthUseCase {
	return NewAuthUseCase(p.Merchants, p.Hasher, p.Strategy, p.Config)
}

type lifecycleParams struct {
	fx.In

	Orders    repository.OrderRepository
	Shops     repository.ShopRepository
	Sequences repository.SequenceAllocator
	Gate      *AuthorizationGate
	Notifier  Notifier
	Config    *config.Config
	Logger    *slog.Logger
}

func newOrderLifecycle(p lifecycleParams) *OrderLifecycle {
	return NewOrderLifecycle(p.Orders, p.Shops, p.Sequences, p.Gate, p.Notifier, p.Config.OrderSequence, p.Logger)
}
