package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inventra/backend/internal/infrastructure/auth"
	"github.com/inventra/backend/internal/infrastructure/config"
	"github.com/inventra/backend/internal/infrastructure/logger"
	"github.com/inventra/backend/internal/interfaces/http/handler"
	"github.com/inventra/backend/internal/interfaces/http/middleware"
)

// maxBodyBytes caps request bodies; payloads here are small JSON documents
const maxBodyBytes = 4 << 20

// Handlers bundles the handlers wired into the router
type Handlers struct {
	System        *handler.SystemHandler
	Product       *handler.ProductHandler
	Stock         *handler.StockHandler
	Batch         *handler.BatchHandler
	Invoice       *handler.InvoiceHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Report        *handler.ReportHandler
}

// New builds the gin engine with the full middleware chain and route table
func New(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(maxBodyBytes))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsCfg))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.GET("/health", h.System.Health)

	api := engine.Group("/api")

	authCfg := middleware.DefaultAuthConfig(jwtService)
	authCfg.Logger = log
	authCfg.AllowHeaderFallback = !cfg.IsProduction()
	api.Use(middleware.AuthWithConfig(authCfg))

	products := api.Group("/products")
	{
		products.POST("", h.Product.Create)
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.ListLowStock)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}

	stock := api.Group("/stock")
	{
		stock.POST("/in", h.Stock.StockIn)
		stock.POST("/out", h.Stock.StockOut)
		stock.POST("/adjust", h.Stock.Adjust)
		stock.GET("/transactions", h.Stock.ListTransactions)
	}

	batches := api.Group("/batches")
	{
		batches.POST("", h.Batch.Create)
		batches.GET("", h.Batch.List)
		batches.GET("/expiring", h.Batch.ListExpiring)
		batches.GET("/:id", h.Batch.Get)
		batches.PUT("/:id", h.Batch.UpdateQuantity)
		batches.DELETE("/:id", h.Batch.Delete)
	}

	invoices := api.Group("/invoices")
	{
		invoices.POST("", h.Invoice.Create)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/stats", h.Invoice.Stats)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PATCH("/:id/payment", h.Invoice.UpdatePayment)
		invoices.DELETE("/:id", h.Invoice.Delete)
	}

	orders := api.Group("/purchase-orders")
	{
		orders.POST("", h.PurchaseOrder.Create)
		orders.GET("", h.PurchaseOrder.List)
		orders.GET("/stats", h.PurchaseOrder.Stats)
		orders.GET("/:id", h.PurchaseOrder.Get)
		orders.PUT("/:id", h.PurchaseOrder.Update)
		orders.PATCH("/:id/status", h.PurchaseOrder.UpdateStatus)
		orders.POST("/:id/receive", h.PurchaseOrder.Receive)
		orders.DELETE("/:id", h.PurchaseOrder.Delete)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/stock-summary", h.Report.StockSummary)
	}

	return engine
}
