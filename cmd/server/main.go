package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	catalogapp "github.com/inventra/backend/internal/application/catalog"
	inventoryapp "github.com/inventra/backend/internal/application/inventory"
	procurementapp "github.com/inventra/backend/internal/application/procurement"
	reportapp "github.com/inventra/backend/internal/application/report"
	salesapp "github.com/inventra/backend/internal/application/sales"
	"github.com/inventra/backend/internal/infrastructure/auth"
	"github.com/inventra/backend/internal/infrastructure/config"
	"github.com/inventra/backend/internal/infrastructure/logger"
	"github.com/inventra/backend/internal/infrastructure/persistence"
	"github.com/inventra/backend/internal/interfaces/http/handler"
	"github.com/inventra/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	zapLogger.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(zapLogger, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.Open(&cfg.Database, gormLog)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Error("Failed to close database", zap.Error(err))
		}
	}()
	zapLogger.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	txRepo := persistence.NewGormStockTransactionRepository(db.DB)
	batchRepo := persistence.NewGormProductBatchRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	productService := catalogapp.NewProductService(productRepo, txRepo)
	stockService := inventoryapp.NewStockService(txScope, txRepo)
	batchService := inventoryapp.NewBatchService(txScope, batchRepo)
	invoiceService := salesapp.NewInvoiceService(txScope, invoiceRepo)
	orderService := procurementapp.NewPurchaseOrderService(txScope, orderRepo)
	reportService := reportapp.NewReportService(productRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	engine := router.New(cfg, zapLogger, jwtService, router.Handlers{
		System:        handler.NewSystemHandler(db),
		Product:       handler.NewProductHandler(productService),
		Stock:         handler.NewStockHandler(stockService),
		Batch:         handler.NewBatchHandler(batchService),
		Invoice:       handler.NewInvoiceHandler(invoiceService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(orderService),
		Report:        handler.NewReportHandler(reportService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	zapLogger.Info("Shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exited gracefully")
}
