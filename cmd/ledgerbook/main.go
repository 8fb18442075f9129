package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ledgerbook-erp/ledgerbook/internal/app"
	"github.com/ledgerbook-erp/ledgerbook/internal/gst"
	"github.com/ledgerbook-erp/ledgerbook/internal/ledger"
	"github.com/ledgerbook-erp/ledgerbook/internal/observability"
	"github.com/ledgerbook-erp/ledgerbook/internal/platform/cache"
	"github.com/ledgerbook-erp/ledgerbook/internal/platform/db"
	"github.com/ledgerbook-erp/ledgerbook/internal/platform/docstore"
	"github.com/ledgerbook-erp/ledgerbook/internal/reports"
	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
	"github.com/ledgerbook-erp/ledgerbook/internal/stock"
	"github.com/ledgerbook-erp/ledgerbook/internal/voucher"
	"github.com/ledgerbook-erp/ledgerbook/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var redisClient *redis.Client
	if cfg.DocstoreBackend == app.BackendRedis || cfg.GSTCacheTTL > 0 {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			if cfg.DocstoreBackend == app.BackendRedis {
				logger.Error("connect redis", slog.Any("error", err))
				os.Exit(1)
			}
			logger.Warn("redis unavailable, report caching disabled", slog.Any("error", err))
			redisClient = nil
		}
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	var backing docstore.Store
	switch cfg.DocstoreBackend {
	case app.BackendPostgres:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		backing = docstore.NewPostgres(pool)
	case app.BackendRedis:
		backing = docstore.NewRedis(redisClient)
	default:
		backing = docstore.NewMemory()
	}
	docs := observability.InstrumentStore(backing, metrics)

	auditLogger := shared.NewAuditLogger(logger)

	ledgerStore := ledger.NewStore(docs)
	stockStore := stock.NewStore(docs)
	voucherStore := voucher.NewStore(docs)

	ledgerService := ledger.NewService(ledgerStore, auditLogger)
	stockService := stock.NewService(stockStore, auditLogger)
	voucherService := voucher.NewService(voucherStore, ledgerStore, stockStore, logger, auditLogger, voucher.ServiceConfig{
		StrictBalance: cfg.StrictBalance,
	})
	gstService := gst.NewService(ledgerStore, stockStore, voucherStore, gst.DefaultRules(), redisClient, cfg.GSTCacheTTL, logger)
	reportsService := reports.NewService(ledgerStore, voucherStore)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		LedgerHandler:  ledger.NewHandler(logger, ledgerService),
		StockHandler:   stock.NewHandler(logger, stockService),
		VoucherHandler: voucher.NewHandler(logger, voucherService),
		GSTHandler:     gst.NewHandler(logger, gstService),
		ReportsHandler: reports.NewHandler(logger, reportsService),
		JobsHandler:    jobsHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
