package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/mindflow/backend/pkg/database"
	"github.com/mindflow/backend/pkg/events"
	taskdomain "github.com/mindflow/backend/services/task/domain"
	"github.com/mindflow/backend/services/task/domain/models"
	"github.com/mindflow/backend/services/task/infrastructure/persistence/postgres/db"
)

// boardTx implements repositories.BoardTx on one *sql.Tx.
type boardTx struct {
	q   *db.Queries
	tx  *sql.Tx
	bus *events.EventBus
	pub message.Publisher
}

// LockPartitions takes one transaction-scoped advisory lock per partition.
// Keys are locked in sorted order so two transactions touching the same pair
// of partitions cannot deadlock.
func (b *boardTx) LockPartitions(ctx context.Context, partitions ...models.Partition) error {
	keys := make([]string, 0, len(partitions))
	seen := make(map[string]struct{}, len(partitions))
	for _, p := range partitions {
		k := p.LockKey()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := b.q.LockBoardPartition(ctx, k); err != nil {
			return fmt.Errorf("lock partition %s: %w", k, err)
		}
	}
	return nil
}

func (b *boardTx) GetForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	row, err := b.q.GetTaskForUpdate(ctx, db.GetTaskForUpdateParams{ID: id, OwnerID: ownerID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, taskdomain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("lock task: %w", err)
	}
	return rowToTask(row), nil
}

func (b *boardTx) MaxPosition(ctx context.Context, p models.Partition) (int, error) {
	highest, err := b.q.MaxBoardPosition(ctx, db.MaxBoardPositionParams{
		OwnerID:     p.OwnerID,
		BoardColumn: p.Column.String(),
	})
	if err != nil {
		return 0, fmt.Errorf("max position: %w", err)
	}
	return int(highest), nil
}

func (b *boardTx) ShiftPositions(ctx context.Context, s models.PositionShift) (int64, error) {
	n, err := b.q.ShiftBoardPositions(ctx, db.ShiftBoardPositionsParams{
		Delta:        int32(s.Delta),
		OwnerID:      s.Partition.OwnerID,
		BoardColumn:  s.Partition.Column.String(),
		FromPosition: int32(s.From),
		ToPosition:   int32(s.To),
	})
	if err != nil {
		return 0, fmt.Errorf("shift positions: %w", err)
	}
	return n, nil
}

func (b *boardTx) Insert(ctx context.Context, t *models.Task) error {
	err := b.q.InsertTask(ctx, db.InsertTaskParams{
		ID:                 t.ID,
		OwnerID:            t.OwnerID,
		CategoryID:         toNullUUID(t.CategoryID),
		Title:              t.Title.String(),
		Description:        t.Description,
		Status:             string(t.Status),
		Priority:           string(t.Priority),
		DueDate:            toNullTime(t.DueDate),
		StartDate:          toNullTime(t.StartDate),
		EstimatedDuration:  toNullInt32(t.EstimatedDuration),
		ProgressPercentage: int32(t.ProgressPercentage),
		Tags:               joinTags(t.Tags),
		Source:             string(t.Source),
		BoardColumn:        t.BoardColumn.String(),
		BoardPosition:      int32(t.BoardPosition),
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
		CompletedAt:        toNullTime(t.CompletedAt),
	})
	if err != nil {
		if database.ErrorCode(err) == database.CodeForeignKeyViolation {
			return taskdomain.ErrCategoryNotFound
		}
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (b *boardTx) UpdatePlacement(ctx context.Context, t *models.Task) error {
	err := b.q.UpdateTaskPlacement(ctx, db.UpdateTaskPlacementParams{
		ID:                 t.ID,
		OwnerID:            t.OwnerID,
		BoardColumn:        t.BoardColumn.String(),
		BoardPosition:      int32(t.BoardPosition),
		Status:             string(t.Status),
		ProgressPercentage: int32(t.ProgressPercentage),
		CompletedAt:        toNullTime(t.CompletedAt),
		UpdatedAt:          t.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("update placement: %w", err)
	}
	return nil
}

func (b *boardTx) UpdateDetails(ctx context.Context, t *models.Task) error {
	err := b.q.UpdateTaskDetails(ctx, db.UpdateTaskDetailsParams{
		ID:                 t.ID,
		OwnerID:            t.OwnerID,
		CategoryID:         toNullUUID(t.CategoryID),
		Title:              t.Title.String(),
		Description:        t.Description,
		Status:             string(t.Status),
		Priority:           string(t.Priority),
		DueDate:            toNullTime(t.DueDate),
		StartDate:          toNullTime(t.StartDate),
		EstimatedDuration:  toNullInt32(t.EstimatedDuration),
		ProgressPercentage: int32(t.ProgressPercentage),
		Tags:               joinTags(t.Tags),
		CompletedAt:        toNullTime(t.CompletedAt),
		UpdatedAt:          t.UpdatedAt,
	})
	if err != nil {
		if database.ErrorCode(err) == database.CodeForeignKeyViolation {
			return taskdomain.ErrCategoryNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (b *boardTx) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	n, err := b.q.DeleteTask(ctx, db.DeleteTaskParams{ID: id, OwnerID: ownerID})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n == 0 {
		return taskdomain.ErrTaskNotFound
	}
	return nil
}

func (b *boardTx) ListPartition(ctx context.Context, p models.Partition) ([]*models.Task, error) {
	rows, err := b.q.ListBoardPartition(ctx, db.ListBoardPartitionParams{
		OwnerID:     p.OwnerID,
		BoardColumn: p.Column.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list partition: %w", err)
	}
	return rowsToTasks(rows), nil
}

func (b *boardTx) SetPosition(ctx context.Context, ownerID, id uuid.UUID, position int) error {
	if err := b.q.SetBoardPosition(ctx, db.SetBoardPositionParams{
		ID:            id,
		OwnerID:       ownerID,
		BoardPosition: int32(position),
	}); err != nil {
		return fmt.Errorf("set position: %w", err)
	}
	return nil
}

// Publish writes event to the watermill outbox tables through the same
// transaction, so the event exists exactly when the board change commits.
func (b *boardTx) Publish(ctx context.Context, topic string, event any) error {
	if b.bus == nil {
		return nil
	}
	if b.pub == nil {
		p, err := b.bus.NewTxPublisher(b.tx)
		if err != nil {
			return fmt.Errorf("create publisher: %w", err)
		}
		b.pub = p
	}

	msg, err := events.NewMessage(ctx, event)
	if err != nil {
		return err
	}
	if err := b.pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}
