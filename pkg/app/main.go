package app

import (
	"github.com/gorilla/sessions"

	"github.com/mindflow/backend/pkg/cache"
	"github.com/mindflow/backend/pkg/config"
	"github.com/mindflow/backend/pkg/database"
	"github.com/mindflow/backend/pkg/events"
	"github.com/mindflow/backend/pkg/logger"
	"github.com/mindflow/backend/pkg/workflows"
)

// Application holds the shared infrastructure every bounded context is built
// from. cmd/api, cmd/worker and cmd/admin each fill in what they need.
//
// Log with the context methods so trace_id, span_id and request_id are attached:
//
//	app.Logger.InfoContext(ctx, "task moved", "task_id", id)
//
// Nil fields mean the dependency is not available in this process:
// TemporalClient when TEMPORAL_ENABLED=false, SessionStore outside cmd/api,
// Redis in cmd/admin.
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.EventBus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient
	SessionStore   sessions.Store
}
