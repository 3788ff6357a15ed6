package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/brisa-erp/brisa-erp/internal/app"
	"github.com/brisa-erp/brisa-erp/internal/platform/cache"
	"github.com/brisa-erp/brisa-erp/internal/platform/db"
	"github.com/brisa-erp/brisa-erp/internal/rbac"
	"github.com/brisa-erp/brisa-erp/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	rbacRepo := rbac.NewRepository(pool)
	rbacCache := rbac.NewCache(redisClient, cfg.PermissionCacheTTL)
	rbacService := rbac.NewService(rbacRepo, rbacCache)

	sessionSweep := jobs.NewSessionSweepJob(pool, logger)
	catalogSync := jobs.NewCatalogSyncJob(rbacService, logger)
	accessInvalidate := jobs.NewAccessInvalidateJob(rbacService, logger)

	sweepTask, err := jobs.NewSessionSweepTask(jobs.SessionSweepPayload{Limit: 1000})
	if err != nil {
		logger.Error("build sweep task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskSessionSweep, Handler: sessionSweep.Handle},
			{Type: jobs.TaskCatalogSync, Handler: catalogSync.Handle},
			{Type: jobs.TaskAccessInvalidate, Handler: accessInvalidate.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@every 1h", Task: sweepTask},
			{Spec: "@daily", Task: jobs.NewCatalogSyncTask()},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker starting")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
