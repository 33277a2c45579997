package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindflow/backend/pkg/app"
	"github.com/mindflow/backend/pkg/config"
	"github.com/mindflow/backend/pkg/database"
	"github.com/mindflow/backend/pkg/events"
	"github.com/mindflow/backend/pkg/logger"
	taskServices "github.com/mindflow/backend/services/task/application/services"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mindflow-admin",
		Short:         "Operational commands for the MindFlow backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(boardCmd())
	return root
}

// adminEnv is the slice of infrastructure the board commands need. Redis and
// Temporal are left out: compaction runs inline and the API's board cache
// is invalidated by the worker from the outbox events.
type adminEnv struct {
	log  logger.Logger
	svcs *taskServices.Services
}

func newAdminEnv(ctx context.Context) (*adminEnv, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg).With("process", "admin")

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	bus, err := events.NewEventBus(cfg, log)
	if err != nil {
		_ = pool.Close()
		return nil, nil, fmt.Errorf("setup event bus: %w", err)
	}
	cleanup := func() {
		_ = bus.Close()
		_ = pool.Close()
	}

	a := &app.Application{Config: cfg, Db: pool, Logger: log, EventBus: bus}
	svcs, err := taskServices.New(a)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return &adminEnv{log: log, svcs: svcs}, cleanup, nil
}
