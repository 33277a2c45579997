package services

import (
	"fmt"

	"github.com/mindflow/backend/pkg/app"
	"github.com/mindflow/backend/pkg/cache"
	"github.com/mindflow/backend/services/task/application/workflows"
	"github.com/mindflow/backend/services/task/domain/models"
	"github.com/mindflow/backend/services/task/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Board    *BoardService
	Task     *TaskService
	Category *CategoryService
}

// New wires all task application services with infrastructure from the
// Application container. Compaction goes through Temporal when a client is
// configured and runs inline otherwise.
func New(a *app.Application) (*Services, error) {
	columns, err := models.ParseColumnStatusMap(a.Config.BoardColumns, a.Config.BoardDoneColumn)
	if err != nil {
		return nil, fmt.Errorf("board columns: %w", err)
	}

	repo := postgres.NewTaskRepository(a.Db, a.EventBus)
	categories := postgres.NewCategoryRepository(a.Db)
	board := NewBoardService(repo, columns)

	var boardCache BoardCache
	if a.Redis != nil {
		boardCache = cache.NewBoardCache(a.Redis, a.Config.BoardCacheTTL)
	}

	var compactor Compactor = board
	if a.TemporalClient != nil {
		compactor = workflows.NewTemporalCompactor(a.TemporalClient)
	}

	return &Services{
		Board:    board,
		Task:     NewTaskService(board, repo, categories, boardCache, compactor, a.Logger),
		Category: NewCategoryService(categories),
	}, nil
}
