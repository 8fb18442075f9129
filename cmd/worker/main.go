package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ledgerbook-erp/ledgerbook/internal/app"
	"github.com/ledgerbook-erp/ledgerbook/internal/gst"
	"github.com/ledgerbook-erp/ledgerbook/internal/ledger"
	"github.com/ledgerbook-erp/ledgerbook/internal/platform/cache"
	"github.com/ledgerbook-erp/ledgerbook/internal/platform/db"
	"github.com/ledgerbook-erp/ledgerbook/internal/platform/docstore"
	"github.com/ledgerbook-erp/ledgerbook/internal/shared"
	"github.com/ledgerbook-erp/ledgerbook/internal/stock"
	"github.com/ledgerbook-erp/ledgerbook/internal/voucher"
	"github.com/ledgerbook-erp/ledgerbook/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	var docs docstore.Store
	switch cfg.DocstoreBackend {
	case app.BackendPostgres:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		docs = docstore.NewPostgres(pool)
	case app.BackendRedis:
		docs = docstore.NewRedis(redisClient)
	default:
		docs = docstore.NewMemory()
	}

	auditLogger := shared.NewAuditLogger(logger)

	ledgerStore := ledger.NewStore(docs)
	stockStore := stock.NewStore(docs)
	voucherStore := voucher.NewStore(docs)

	voucherService := voucher.NewService(voucherStore, ledgerStore, stockStore, logger, auditLogger, voucher.ServiceConfig{
		StrictBalance: cfg.StrictBalance,
	})
	gstService := gst.NewService(ledgerStore, stockStore, voucherStore, gst.DefaultRules(), redisClient, cfg.GSTCacheTTL, logger)

	warmTask, err := jobs.NewGSTWarmTask(cfg.DefaultCompany, time.Now().UTC())
	if err != nil {
		logger.Error("build gst warm task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskGSTWarm, Handler: jobs.GSTWarmHandler(gstService, logger)},
			{Type: jobs.TaskVoucherPurge, Handler: jobs.VoucherPurgeHandler(voucherService, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: warmTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
