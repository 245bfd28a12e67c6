package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderflow/internal/adapter/eventstream"
	"github.com/polkiloo/orderflow/internal/metrics"
	"github.com/polkiloo/orderflow/internal/realtime"
	"github.com/polkiloo/orderflow/internal/usecase"
	"github.com/polkiloo/orderflow/internal/worker"
)

// Module provides the fanout as the order lifecycle notifier.
var Module = fx.Provide(
	newFanout,
	func(f *Fanout) usecase.Notifier { return f },
)

type fanoutParams struct {
	fx.In

	Hub        *realtime.Hub
	Dispatcher *worker.MessageDispatcher
	Stream     *eventstream.Stream
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

func newFanout(p fanoutParams) *Fanout {
	return NewFanout(p.Hub, p.Dispatcher, p.Stream, p.Metrics, p.Logger)
}
