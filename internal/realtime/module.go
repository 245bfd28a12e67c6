package realtime

import (
	"context"

	"go.uber.org/fx"

	"github.com/polkiloo/orderflow/internal/config"
	"github.com/polkiloo/orderflow/internal/metrics"
)

// Module provides the real-time hub and closes it on shutdown.
var Module = fx.Options(
	fx.Provide(newHub),
	fx.Invoke(registerHubLifecycle),
)

type hubParams struct {
	fx.In

	Config  *config.Config
	Metrics *metrics.Metrics
}

func newHub(p hubParams) *Hub {
	return NewHub(p.Config.SubscriberBuffer, p.Metrics.Subscribers)
}

func registerHubLifecycle(lc fx.Lifecycle, hub *Hub) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			hub.Close()
			return nil
		},
	})
}
