package eventstream

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderflow/internal/config"
)

// Module provides the Kafka order event stream and manages its writer.
var Module = fx.Options(
	fx.Provide(newStream),
	fx.Invoke(registerLifecycle),
)

type streamParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newStream(p streamParams) *Stream {
	if len(p.Config.KafkaBrokers) == 0 {
		p.Logger.Info("kafka brokers not configured, order event stream disabled")
		return NewStream(nil, 1, p.Logger)
	}
	writer := NewWriter(p.Config.KafkaBrokers, p.Config.KafkaTopic)
	return NewStream(writer, p.Config.MessengerQueueSize, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, stream *Stream) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			stream.Start(context.Background())
			return nil
		},
		OnStop: func(context.Context) error {
			return stream.Stop()
		},
	})
}
