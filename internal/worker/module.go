package worker

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderflow/internal/adapter/whatsapp"
	"github.com/polkiloo/orderflow/internal/config"
	"github.com/polkiloo/orderflow/internal/metrics"
)

// Module provides the outbound message dispatcher.
var Module = fx.Provide(newMessageDispatcher)

type dispatcherParams struct {
	fx.In

	Config  *config.Config
	Sender  whatsapp.Sender
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

func newMessageDispatcher(p dispatcherParams) *MessageDispatcher {
	return NewMessageDispatcher(
		p.Sender,
		p.Config.MessengerQueueSize,
		p.Config.MessengerWorkers,
		NewRetryConfig(p.Config.MessengerAttempts, p.Config.MessengerRetryDelay),
		p.Logger,
		p.Metrics.Messages,
	)
}
