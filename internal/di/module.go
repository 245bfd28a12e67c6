package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/orderflow/internal/adapter/eventstream"
	"github.com/polkiloo/orderflow/internal/adapter/whatsapp"
	"github.com/polkiloo/orderflow/internal/app"
	"github.com/polkiloo/orderflow/internal/config"
	"github.com/polkiloo/orderflow/internal/logger"
	"github.com/polkiloo/orderflow/internal/metrics"
	"github.com/polkiloo/orderflow/internal/notify"
	"github.com/polkiloo/orderflow/internal/pkg/auth"
	"github.com/polkiloo/orderflow/internal/realtime"
	"github.com/polkiloo/orderflow/internal/server/http/router"
	"github.com/polkiloo/orderflow/internal/storage/postgres"
	"github.com/polkiloo/orderflow/internal/usecase"
	"github.com/polkiloo/orderflow/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		postgres.Module,
		whatsapp.Module,
		worker.Module,
		eventstream.Module,
		realtime.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(
			func(s *postgres.Storage) app.HealthChecker { return s },
			func(d *worker.MessageDispatcher) app.MessageQueue { return d },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
