package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.temporal.io/sdk/worker"

	"github.com/mindflow/backend/pkg/app"
	"github.com/mindflow/backend/pkg/cache"
	"github.com/mindflow/backend/pkg/config"
	"github.com/mindflow/backend/pkg/database"
	"github.com/mindflow/backend/pkg/events"
	"github.com/mindflow/backend/pkg/logger"
	"github.com/mindflow/backend/pkg/telemetry"
	"github.com/mindflow/backend/pkg/workflows"
	taskServices "github.com/mindflow/backend/services/task/application/services"
	taskWorkflows "github.com/mindflow/backend/services/task/application/workflows"
	taskEvents "github.com/mindflow/backend/services/task/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg).With("process", "worker")

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close() //nolint:errcheck
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	if cfg.TemporalEnabled {
		temporalClient, err := workflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, cfg.TemporalTaskQueue, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer temporalClient.Close()

		// Activities run the board service inline; only the API routes
		// compaction through Temporal.
		svcs, err := taskServices.New(appConfig)
		if err != nil {
			log.Error("failed to build task services", "error", err)
			os.Exit(1) //nolint:gocritic
		}

		w := worker.New(temporalClient.Client, temporalClient.TaskQueue, worker.Options{})
		taskWorkflows.Register(w, &taskWorkflows.Activities{Board: svcs.Board})
		if err := w.Start(); err != nil {
			log.Error("failed to start temporal worker", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer w.Stop()
		log.Info("temporal worker started", "task_queue", temporalClient.TaskQueue)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	boardCache := cache.NewBoardCache(a.Redis, a.Config.BoardCacheTTL)
	errCh, err := a.EventBus.SubscribeTopics(ctx, taskEvents.BoardTopics, handleBoardChanged(boardCache, a.Logger))
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error", "error", err)
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", taskEvents.BoardTopics)
	return nil
}

type boardInvalidator interface {
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}

// handleBoardChanged drops the cached board of the event's owner.
// Handlers must be idempotent: EventBus retries up to 3× on failure.
// Messages without an owner cannot be retried into success and are acked.
func handleBoardChanged(c boardInvalidator, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		ownerID, err := events.OwnerOf(msg)
		if err != nil {
			log.WarnContext(ctx, "dropping board event without owner",
				"message_id", msg.UUID, "error", err)
			return nil
		}

		if err := c.Invalidate(ctx, ownerID); err != nil {
			return err
		}
		log.DebugContext(ctx, "board cache invalidated", "owner_id", ownerID, "message_id", msg.UUID)
		return nil
	}
}
