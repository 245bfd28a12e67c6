package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/orderflow/internal/config"
)

// Module provides the password hasher and token strategy.
var Module = fx.Provide(
	newPasswordHasher,
	newTokenStrategy,
)

type authParams struct {
	fx.In

	Config *config.Config
}

func newPasswordHasher(p authParams) PasswordHasher {
	return NewBcryptHasher(p.Config.BcryptCost)
}

func newTokenStrategy(p authParams) Strategy {
	return NewHMACStrategy(p.Config.JWTSecret, Options{TTL: p.Config.TokenTTL})
}
