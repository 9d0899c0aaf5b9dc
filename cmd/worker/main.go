// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/ammerola/atelier-ops/internal/app"
	"github.com/ammerola/atelier-ops/internal/pkg/logger"
	"github.com/ammerola/atelier-ops/internal/workers"
)

// workerMaxConns keeps the worker pool smaller than the API's
const workerMaxConns = 10

func main() {
	bootLogger := logger.SetupLogger(&logger.LogConfig{Level: "info", Format: "json", Output: "stdout"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig(ctx, bootLogger.Logger)
	if err != nil {
		bootLogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := app.NewLogger(cfg, "worker")
	slogger := log.Logger
	slogger.Info("starting worker",
		slog.String("environment", cfg.App.Environment),
		slog.String("redis_addr", cfg.Asynq.RedisAddr))

	database, err := app.OpenDatabase(ctx, cfg, workerMaxConns, slogger)
	if err != nil {
		slogger.Error("failed to initialize database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	redisClient, err := app.OpenRedis(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	blob, err := app.NewBlobStorage(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	lock, err := app.NewSyncLock(cfg, database, redisClient, slogger)
	if err != nil {
		slogger.Error("failed to initialize sync lock", slog.String("error", err.Error()))
		os.Exit(1)
	}

	redisOpt := app.AsynqRedis(cfg)
	client := asynq.NewClient(redisOpt)
	defer client.Close()

	svc := app.NewServices(cfg, app.ServiceDeps{
		Repos: app.NewRepositories(database, slogger),
		Lock:  lock,
		Blob:  blob,
		Tasks: workers.NewTaskQueue(client, cfg.Asynq.RetryMax, slogger),
	}, slogger)

	mux := workers.NewServeMux(
		workers.NewSyncProcessor(svc.Sync, slogger),
		workers.NewNotificationProcessor(svc.Messaging, slogger),
		workers.NewLockProcessor(svc.Sync, slogger),
		slogger,
	)

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:     cfg.Asynq.Concurrency,
		Queues:          cfg.Asynq.Queues,
		StrictPriority:  cfg.Asynq.StrictPriority,
		ErrorHandler:    workers.ErrorHandler(slogger),
		RetryDelayFunc:  workers.RetryDelay,
		ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
		HealthCheckFunc: healthCheck(slogger),
		Logger:          workers.NewAsynqLogger(slogger),
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Logger: workers.NewAsynqLogger(slogger),
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				slogger.Error("failed to enqueue periodic task", slog.String("error", err.Error()))
			}
		},
	})
	if err := workers.RegisterPeriodicTasks(scheduler, cfg.Asynq.StaleLockSweepCron); err != nil {
		slogger.Error("failed to register periodic tasks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(mux); err != nil {
			return fmt.Errorf("failed to run worker server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("failed to run scheduler: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slogger.Info("shutting down worker")
		scheduler.Shutdown()
		srv.Shutdown()
		return nil
	})

	slogger.Info("worker started successfully",
		slog.Int("concurrency", cfg.Asynq.Concurrency),
		slog.Any("queues", cfg.Asynq.Queues),
		slog.String("stale_lock_cron", cfg.Asynq.StaleLockSweepCron))

	if err := g.Wait(); err != nil {
		slogger.Error("worker stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slogger.Info("worker shutdown complete")
}

func healthCheck(log *slog.Logger) func(error) {
	return func(err error) {
		if err != nil {
			log.Error("worker health check failed", slog.String("error", err.Error()))
		}
	}
}
