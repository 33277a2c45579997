package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mindflow/backend/pkg/database"
	"github.com/mindflow/backend/pkg/events"
	taskdomain "github.com/mindflow/backend/services/task/domain"
	"github.com/mindflow/backend/services/task/domain/models"
	"github.com/mindflow/backend/services/task/domain/repositories"
	"github.com/mindflow/backend/services/task/infrastructure/persistence/postgres/db"
)

// TaskRepository implements repositories.TaskRepository against PostgreSQL.
type TaskRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewTaskRepository returns a TaskRepository backed by the given connection pool
// and event bus. Events are written to the outbox inside each board transaction;
// a nil bus disables publishing.
func NewTaskRepository(database *database.Database, bus *events.EventBus) *TaskRepository {
	return &TaskRepository{db: database, bus: bus}
}

// WithinBoardTx runs fn in one READ COMMITTED transaction.
//
// Errors are normalised on the way out: domain sentinels pass through, lock
// contention and slot collisions detected at commit become ErrBoardConflict,
// and anything else becomes ErrStorageFailure. In every failure case the
// transaction has been rolled back.
func (r *TaskRepository) WithinBoardTx(ctx context.Context, fn func(context.Context, repositories.BoardTx) error) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(ctx, &boardTx{q: db.New(tx), tx: tx, bus: r.bus})
	})
	return translateBoardError(err)
}

func translateBoardError(err error) error {
	switch {
	case err == nil:
		return nil
	case isDomainError(err), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case database.IsContention(err), database.ErrorCode(err) == database.CodeUniqueViolation:
		return fmt.Errorf("%w: %w", taskdomain.ErrBoardConflict, err)
	default:
		return fmt.Errorf("%w: %w", taskdomain.ErrStorageFailure, err)
	}
}

var domainErrors = []error{
	taskdomain.ErrTaskNotFound,
	taskdomain.ErrCategoryNotFound,
	taskdomain.ErrCategoryAlreadyExists,
	taskdomain.ErrInvalidTask,
	taskdomain.ErrInvalidCategory,
	taskdomain.ErrMissingColumn,
	taskdomain.ErrInvalidColumn,
	taskdomain.ErrInvalidPosition,
	taskdomain.ErrStatusConflict,
	taskdomain.ErrBoardConflict,
	taskdomain.ErrStorageFailure,
}

func isDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GetByID retrieves a Task by ID scoped to the given owner. Returns ErrTaskNotFound if not found.
func (r *TaskRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	q := db.New(r.db.DB())
	row, err := q.GetTaskByID(ctx, db.GetTaskByIDParams{ID: id, OwnerID: ownerID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskdomain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("query task: %w", err)
	}
	return rowToTask(row), nil
}

// Find retrieves a filtered, paginated list of tasks and the total count for the owner.
func (r *TaskRepository) Find(ctx context.Context, ownerID uuid.UUID, filter repositories.TaskFilter) ([]*models.Task, int, error) {
	q := db.New(r.db.DB())

	count := db.CountTasksParams{
		OwnerID:     ownerID,
		Status:      toNullString(filter.Status),
		Priority:    toNullString(filter.Priority),
		CategoryID:  toNullUUID(filter.CategoryID),
		BoardColumn: toNullString(filter.Column),
		DueBefore:   toNullTime(filter.DueBefore),
		OverdueAt:   toNullTime(filter.OverdueAt),
	}

	rows, err := q.FindTasks(ctx, db.FindTasksParams{
		OwnerID:     count.OwnerID,
		Status:      count.Status,
		Priority:    count.Priority,
		CategoryID:  count.CategoryID,
		BoardColumn: count.BoardColumn,
		DueBefore:   count.DueBefore,
		OverdueAt:   count.OverdueAt,
		RowLimit:    int32(filter.Limit),
		RowOffset:   int32(filter.Offset),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	total, err := q.CountTasks(ctx, count)
	if err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	return rowsToTasks(rows), int(total), nil
}

// ListBoard returns every task of the owner ordered by column then position.
func (r *TaskRepository) ListBoard(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error) {
	rows, err := db.New(r.db.DB()).ListBoardTasks(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list board: %w", err)
	}
	return rowsToTasks(rows), nil
}

// Partitions returns the distinct columns the owner has tasks in.
func (r *TaskRepository) Partitions(ctx context.Context, ownerID uuid.UUID) ([]models.BoardColumn, error) {
	cols, err := db.New(r.db.DB()).ListBoardColumns(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list board columns: %w", err)
	}
	out := make([]models.BoardColumn, len(cols))
	for i, c := range cols {
		out[i] = models.BoardColumn(c)
	}
	return out, nil
}

// CountByStatus returns the number of tasks per status.
func (r *TaskRepository) CountByStatus(ctx context.Context, ownerID uuid.UUID) (map[models.Status]int, error) {
	rows, err := db.New(r.db.DB()).CountTasksByStatus(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	out := make(map[models.Status]int, len(rows))
	for _, row := range rows {
		out[models.Status(row.Status)] = int(row.Total)
	}
	return out, nil
}

// CountByPriority returns the number of tasks per priority.
func (r *TaskRepository) CountByPriority(ctx context.Context, ownerID uuid.UUID) (map[models.Priority]int, error) {
	rows, err := db.New(r.db.DB()).CountTasksByPriority(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count by priority: %w", err)
	}
	out := make(map[models.Priority]int, len(rows))
	for _, row := range rows {
		out[models.Priority(row.Priority)] = int(row.Total)
	}
	return out, nil
}

// CountOverdue returns the number of open tasks due before now.
func (r *TaskRepository) CountOverdue(ctx context.Context, ownerID uuid.UUID, now time.Time) (int, error) {
	n, err := db.New(r.db.DB()).CountOverdueTasks(ctx, db.CountOverdueTasksParams{OwnerID: ownerID, NowTime: now})
	if err != nil {
		return 0, fmt.Errorf("count overdue: %w", err)
	}
	return int(n), nil
}

// CountDueBetween returns the number of open tasks due in [from, to).
func (r *TaskRepository) CountDueBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int, error) {
	n, err := db.New(r.db.DB()).CountTasksDueBetween(ctx, db.CountTasksDueBetweenParams{
		OwnerID:  ownerID,
		FromTime: from,
		ToTime:   to,
	})
	if err != nil {
		return 0, fmt.Errorf("count due between: %w", err)
	}
	return int(n), nil
}
