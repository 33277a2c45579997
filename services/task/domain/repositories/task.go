package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mindflow/backend/services/task/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// TaskFilter narrows task listings. Nil fields do not filter.
type TaskFilter struct {
	Status     *models.Status
	Priority   *models.Priority
	CategoryID *uuid.UUID
	Column     *models.BoardColumn

	// DueBefore keeps open tasks due at or before the given time.
	DueBefore *time.Time
	// OverdueAt keeps open tasks whose due date is before the given time.
	OverdueAt *time.Time

	QueryOpts
}

// BoardTx is one board transaction. Every method runs inside the same
// database transaction; nothing is visible to other writers until the
// function passed to WithinBoardTx returns nil.
type BoardTx interface {
	// LockPartitions blocks until the caller holds the write lock of every
	// given partition. Locks are released at commit or rollback.
	LockPartitions(ctx context.Context, partitions ...models.Partition) error

	// GetForUpdate re-reads a task and row-locks it.
	GetForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error)

	// MaxPosition returns the highest position in p, or -1 when p is empty.
	MaxPosition(ctx context.Context, p models.Partition) (int, error)

	// ShiftPositions applies one range shift and returns the number of tasks moved.
	ShiftPositions(ctx context.Context, shift models.PositionShift) (int64, error)

	Insert(ctx context.Context, task *models.Task) error

	// UpdatePlacement writes column, position and the column-derived fields
	// (status, progress, completed_at, updated_at).
	UpdatePlacement(ctx context.Context, task *models.Task) error

	// UpdateDetails writes every user-editable field. Column and position are
	// left untouched.
	UpdateDetails(ctx context.Context, task *models.Task) error

	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// ListPartition returns every task of p ordered by position, then created_at.
	ListPartition(ctx context.Context, p models.Partition) ([]*models.Task, error)

	SetPosition(ctx context.Context, ownerID, id uuid.UUID, position int) error

	// Publish writes event to the outbox under topic as part of the transaction.
	Publish(ctx context.Context, topic string, event any) error
}

// TaskRepository is the persistence interface for the Task aggregate.
// The domain layer owns this interface; infrastructure implements it.
type TaskRepository interface {
	// WithinBoardTx runs fn in a single transaction. Any error returned by fn
	// rolls back every write made through the BoardTx.
	WithinBoardTx(ctx context.Context, fn func(ctx context.Context, tx BoardTx) error) error

	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error)

	// Find retrieves a filtered, paginated list of tasks for the owner.
	// Returns the tasks slice and the total count (ignoring pagination).
	Find(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]*models.Task, int, error)

	// ListBoard returns all tasks of the owner ordered by column then position.
	ListBoard(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error)

	// Partitions returns the distinct columns the owner has tasks in.
	Partitions(ctx context.Context, ownerID uuid.UUID) ([]models.BoardColumn, error)

	CountByStatus(ctx context.Context, ownerID uuid.UUID) (map[models.Status]int, error)
	CountByPriority(ctx context.Context, ownerID uuid.UUID) (map[models.Priority]int, error)
	CountOverdue(ctx context.Context, ownerID uuid.UUID, now time.Time) (int, error)
	CountDueBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (int, error)
}
