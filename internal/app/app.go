package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/orderflow/internal/config"
	"github.com/polkiloo/orderflow/internal/realtime"
	"github.com/polkiloo/orderflow/internal/server/http/handlers"
	"github.com/polkiloo/orderflow/internal/usecase"
	"github.com/polkiloo/orderflow/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newCommerceFacade,
		func(f *CommerceFacade) handlers.CommerceFacade { return f },
		newHTTPServer,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Auth     *usecase.AuthUseCase
	Shops    *usecase.ShopUseCase
	Orders   *usecase.OrderLifecycle
	Bot      *usecase.BotUseCase
	Hub      *realtime.Hub
	Messages MessageQueue
	Health   HealthChecker
	Config   *config.Config
}

func newCommerceFacade(p facadeParams) *CommerceFacade {
	return NewCommerceFacade(Deps{
		Auth:        p.Auth,
		Shops:       p.Shops,
		Orders:      p.Orders,
		Bot:         p.Bot,
		Hub:         p.Hub,
		Messages:    p.Messages,
		Health:      p.Health,
		VerifyToken: p.Config.WhatsAppVerifyToken,
	})
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Dispatcher *worker.MessageDispatcher
	Hub        *realtime.Hub
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	if p.Hub != nil {
		// open event streams only end once their subscriptions close
		p.Server.RegisterOnShutdown(p.Hub.Close)
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting orderflow", slog.String("addr", p.Server.Addr))
			// the start context is cancelled once startup completes
			p.Dispatcher.Start(context.Background())
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := ctx, context.CancelFunc(func() {})
			if p.Config.ShutdownTimeout > 0 {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			err := p.Server.Shutdown(shutdownCtx)
			p.Dispatcher.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("orderflow stopped")
			return nil
		},
	})
}
