package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderflow/internal/logger"
	"github.com/polkiloo/orderflow/internal/metrics"
	"github.com/polkiloo/orderflow/internal/server/http/handlers"
	"github.com/polkiloo/orderflow/internal/server/http/middleware"
)

const (
	sseHeartbeat   = 15 * time.Second
	maxRequestBody = 1 << 20
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CommerceFacade, log *slog.Logger, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(m.Middleware())
	engine.Use(middleware.RequestLogger(logger.Component(log, "http")))
	engine.Use(middleware.DecompressRequest(maxRequestBody))
	// compressing the event stream would buffer it
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`^/api/orders/[^/]+/events$`})))

	authHandler := handlers.NewAuthHandler(facade)
	shopHandler := handlers.NewShopHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	eventHandler := handlers.NewEventHandler(facade, sseHeartbeat)
	webhookHandler := handlers.NewWebhookHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET("/metrics", gin.WrapH(m.Handler()))

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	merchants := api.Group("/merchants")
	merchants.POST("/register", authHandler.Register)
	merchants.POST("/login", authHandler.Login)

	requireAuth := middleware.AuthRequired(facade)

	shops := api.Group("/shops")
	shops.GET("/:id/menu", shopHandler.Menu)
	shops.POST("", requireAuth, shopHandler.Create)
	shops.PUT("/:id/menu", requireAuth, shopHandler.ReplaceMenu)
	shops.GET("/:id/orders", requireAuth, shopHandler.Orders)

	orders := api.Group("/orders")
	orders.POST("", orderHandler.Create)
	orders.GET("/:id", orderHandler.Get)
	orders.GET("/:id/events", eventHandler.Stream)
	orders.PATCH("/:id/status", requireAuth, orderHandler.Transition)
	orders.GET("/:id/history", requireAuth, orderHandler.History)

	whatsapp := api.Group("/whatsapp")
	whatsapp.GET("/webhook", webhookHandler.Verify)
	whatsapp.POST("/webhook", webhookHandler.Receive)

	return engine
}
