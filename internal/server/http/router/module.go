package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/orderflow/internal/metrics"
	"github.com/polkiloo/orderflow/internal/server/http/handlers"
)

// Module provides the gin engine serving the HTTP API.
var Module = fx.Provide(newRouter)

type routerParams struct {
	fx.In

	Facade  handlers.CommerceFacade
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

func newRouter(p routerParams) *gin.Engine {
	return Setup(p.Facade, p.Logger, p.Metrics)
}
