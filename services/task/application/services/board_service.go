package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	taskdomain "github.com/mindflow/backend/services/task/domain"
	"github.com/mindflow/backend/services/task/domain/events"
	"github.com/mindflow/backend/services/task/domain/models"
	"github.com/mindflow/backend/services/task/domain/repositories"
	domainsvcs "github.com/mindflow/backend/services/task/domain/services"
)

const instrumentationName = "github.com/mindflow/backend/services/task"

// BoardService owns every write to board_column and board_position.
//
// Each operation runs in one board transaction: the affected partitions are
// locked, the moved row is re-read, the planner computes the shifts and all
// writes plus the outbox event commit together. Failures roll back completely
// and are returned unlogged and unretried; callers decide.
type BoardService struct {
	repo    repositories.TaskRepository
	columns *models.ColumnStatusMap
	now     func() time.Time
	metrics boardMetrics
}

// NewBoardService returns a BoardService using columns for status derivation.
func NewBoardService(repo repositories.TaskRepository, columns *models.ColumnStatusMap) *BoardService {
	return &BoardService{
		repo:    repo,
		columns: columns,
		now:     func() time.Time { return time.Now().UTC() },
		metrics: newBoardMetrics(),
	}
}

// Columns returns the column→status table the service derives statuses from.
func (s *BoardService) Columns() *models.ColumnStatusMap {
	return s.columns
}

// Append places a new task at the end of its column. No existing position
// changes. The status is taken from the column when the column is mapped.
// task is updated with its placement only once the insert has committed.
func (s *BoardService) Append(ctx context.Context, task *models.Task) (*models.Task, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "board.append")
	defer span.End()

	if err := domainsvcs.ValidateTaskForCreation(task); err != nil {
		return nil, fmt.Errorf("%w: %w", taskdomain.ErrInvalidTask, err)
	}

	var placed models.Task
	err := s.repo.WithinBoardTx(ctx, func(ctx context.Context, tx repositories.BoardTx) error {
		placed = *task
		p := placed.Partition()
		if err := tx.LockPartitions(ctx, p); err != nil {
			return err
		}
		highest, err := tx.MaxPosition(ctx, p)
		if err != nil {
			return err
		}

		now := s.now()
		placed.BoardPosition = domainsvcs.PlanAppend(highest)
		if status, ok := s.columns.StatusFor(placed.BoardColumn); ok {
			placed.Status = status
		}
		if placed.Status == models.StatusDone && placed.CompletedAt == nil {
			placed.MarkCompleted(now)
		}
		placed.UpdatedAt = now

		if err := tx.Insert(ctx, &placed); err != nil {
			return err
		}
		return tx.Publish(ctx, events.TopicTaskCreated, events.TaskCreatedEvent{
			Envelope: events.NewEnvelope(placed.OwnerID, now),
			TaskID:   placed.ID,
			Title:    placed.Title.String(),
			Column:   placed.BoardColumn.String(),
			Position: placed.BoardPosition,
			Status:   string(placed.Status),
		})
	})
	s.metrics.record(ctx, "append", err, 0)
	if err != nil {
		return nil, err
	}
	*task = placed
	return task, nil
}

// Move places a task at position in column, shifting its neighbours so both
// affected columns stay dense. A nil position means the end of the column;
// positions past the end are clamped. A move that changes nothing performs
// no writes and publishes no event.
func (s *BoardService) Move(ctx context.Context, ownerID, taskID uuid.UUID, column string, position *int) (*models.Task, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "board.move")
	defer span.End()

	target, err := domainsvcs.ValidateMoveRequest(column, position)
	if err != nil {
		return nil, err
	}

	seen, err := s.repo.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, storageErr(err)
	}

	var (
		moved   *models.Task
		shifted int64
	)
	err = s.repo.WithinBoardTx(ctx, func(ctx context.Context, tx repositories.BoardTx) error {
		from := seen.Partition()
		to := models.Partition{OwnerID: ownerID, Column: target}
		if err := tx.LockPartitions(ctx, from, to); err != nil {
			return err
		}

		task, err := tx.GetForUpdate(ctx, ownerID, taskID)
		if err != nil {
			return err
		}
		if task.BoardColumn != seen.BoardColumn {
			return fmt.Errorf("%w: task %s left column %q", taskdomain.ErrBoardConflict, taskID, seen.BoardColumn)
		}

		highest, err := tx.MaxPosition(ctx, to)
		if err != nil {
			return err
		}
		plan, err := domainsvcs.PlanMove(task, target, position, highest)
		if err != nil {
			return err
		}
		if plan.NoOp {
			moved = task
			return nil
		}

		for _, shift := range plan.Shifts {
			n, err := tx.ShiftPositions(ctx, shift)
			if err != nil {
				return err
			}
			shifted += n
		}

		now := s.now()
		fromColumn, fromPosition := task.BoardColumn, task.BoardPosition
		task.PlaceInColumn(plan.Column, plan.Position, s.columns, now)
		if err := tx.UpdatePlacement(ctx, task); err != nil {
			return err
		}
		moved = task

		return tx.Publish(ctx, events.TopicTaskMoved, events.TaskMovedEvent{
			Envelope:     events.NewEnvelope(ownerID, now),
			TaskID:       task.ID,
			FromColumn:   fromColumn.String(),
			FromPosition: fromPosition,
			ToColumn:     task.BoardColumn.String(),
			ToPosition:   task.BoardPosition,
			Status:       string(task.Status),
			Shifted:      shifted,
		})
	})
	s.metrics.record(ctx, "move", err, shifted)
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// Remove deletes a task and closes the gap it leaves in its column.
func (s *BoardService) Remove(ctx context.Context, ownerID, taskID uuid.UUID) error {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "board.remove")
	defer span.End()

	seen, err := s.repo.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return storageErr(err)
	}

	var shifted int64
	err = s.repo.WithinBoardTx(ctx, func(ctx context.Context, tx repositories.BoardTx) error {
		if err := tx.LockPartitions(ctx, seen.Partition()); err != nil {
			return err
		}
		task, err := tx.GetForUpdate(ctx, ownerID, taskID)
		if err != nil {
			return err
		}
		if task.BoardColumn != seen.BoardColumn {
			return fmt.Errorf("%w: task %s left column %q", taskdomain.ErrBoardConflict, taskID, seen.BoardColumn)
		}

		if err := tx.Delete(ctx, ownerID, taskID); err != nil {
			return err
		}
		if shifted, err = tx.ShiftPositions(ctx, domainsvcs.PlanRemove(task)); err != nil {
			return err
		}

		return tx.Publish(ctx, events.TopicTaskDeleted, events.TaskDeletedEvent{
			Envelope: events.NewEnvelope(ownerID, s.now()),
			TaskID:   task.ID,
			Column:   task.BoardColumn.String(),
			Position: task.BoardPosition,
		})
	})
	s.metrics.record(ctx, "remove", err, shifted)
	return err
}

// UpdateDetails applies edit to the stored task under its partition lock.
// edit may change any field except the board placement; the status it leaves
// must agree with the column mapping.
func (s *BoardService) UpdateDetails(ctx context.Context, ownerID, taskID uuid.UUID, edit func(*models.Task) error) (*models.Task, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "board.update_details")
	defer span.End()

	seen, err := s.repo.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, storageErr(err)
	}

	var updated *models.Task
	err = s.repo.WithinBoardTx(ctx, func(ctx context.Context, tx repositories.BoardTx) error {
		if err := tx.LockPartitions(ctx, seen.Partition()); err != nil {
			return err
		}
		task, err := tx.GetForUpdate(ctx, ownerID, taskID)
		if err != nil {
			return err
		}
		if task.BoardColumn != seen.BoardColumn {
			return fmt.Errorf("%w: task %s left column %q", taskdomain.ErrBoardConflict, taskID, seen.BoardColumn)
		}

		column, position, wasDone := task.BoardColumn, task.BoardPosition, task.Status == models.StatusDone
		if err := edit(task); err != nil {
			return err
		}
		task.BoardColumn, task.BoardPosition = column, position

		if err := domainsvcs.ValidateTaskFields(task); err != nil {
			return fmt.Errorf("%w: %w", taskdomain.ErrInvalidTask, err)
		}
		if err := domainsvcs.ValidateStatusForColumn(task.Status, task.BoardColumn, s.columns); err != nil {
			return err
		}

		now := s.now()
		isDone := task.Status == models.StatusDone
		switch {
		case isDone && !wasDone:
			task.MarkCompleted(now)
		case wasDone && !isDone:
			task.ClearCompletion()
		}
		task.UpdatedAt = now

		if err := tx.UpdateDetails(ctx, task); err != nil {
			return err
		}
		updated = task

		return tx.Publish(ctx, events.TopicTaskUpdated, events.TaskUpdatedEvent{
			Envelope: events.NewEnvelope(ownerID, now),
			TaskID:   task.ID,
			Status:   string(task.Status),
		})
	})
	s.metrics.record(ctx, "update", err, 0)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Compact renumbers every partition of the owner to 0..N-1, keeping the
// relative order. Partitions that are already dense are left untouched.
func (s *BoardService) Compact(ctx context.Context, ownerID uuid.UUID) (domainsvcs.CompactionResult, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "board.compact")
	defer span.End()

	columns, err := s.repo.Partitions(ctx, ownerID)
	if err != nil {
		return domainsvcs.CompactionResult{}, storageErr(err)
	}

	var result domainsvcs.CompactionResult
	err = s.repo.WithinBoardTx(ctx, func(ctx context.Context, tx repositories.BoardTx) error {
		result = domainsvcs.CompactionResult{Partitions: len(columns)}

		partitions := make([]models.Partition, len(columns))
		for i, c := range columns {
			partitions[i] = models.Partition{OwnerID: ownerID, Column: c}
		}
		if err := tx.LockPartitions(ctx, partitions...); err != nil {
			return err
		}

		for _, p := range partitions {
			tasks, err := tx.ListPartition(ctx, p)
			if err != nil {
				return err
			}
			for _, pl := range domainsvcs.PlanCompaction(tasks) {
				if err := tx.SetPosition(ctx, ownerID, pl.TaskID, pl.Position); err != nil {
					return err
				}
				result.Moved++
			}
		}

		if result.Moved == 0 {
			return nil
		}
		return tx.Publish(ctx, events.TopicBoardCompacted, events.BoardCompactedEvent{
			Envelope:   events.NewEnvelope(ownerID, s.now()),
			Partitions: result.Partitions,
			Moved:      result.Moved,
		})
	})
	s.metrics.record(ctx, "compact", err, int64(result.Moved))
	if err != nil {
		return domainsvcs.CompactionResult{}, err
	}
	return result, nil
}

// Verify reports, per partition of the owner, whether positions are dense.
// It reads without locking and so reflects one committed snapshot per query.
func (s *BoardService) Verify(ctx context.Context, ownerID uuid.UUID) ([]domainsvcs.PartitionReport, error) {
	tasks, err := s.repo.ListBoard(ctx, ownerID)
	if err != nil {
		return nil, storageErr(err)
	}

	positions := make(map[models.BoardColumn][]int)
	for _, t := range tasks {
		positions[t.BoardColumn] = append(positions[t.BoardColumn], t.BoardPosition)
	}

	columns := make([]models.BoardColumn, 0, len(positions))
	for c := range positions {
		columns = append(columns, c)
	}
	sort.Slice(columns, func(i, j int) bool { return columns[i] < columns[j] })

	reports := make([]domainsvcs.PartitionReport, len(columns))
	for i, c := range columns {
		reports[i] = domainsvcs.VerifyPartition(models.Partition{OwnerID: ownerID, Column: c}, positions[c])
	}
	return reports, nil
}

// storageErr passes task-domain errors through and marks anything else as a
// retryable storage failure.
func storageErr(err error) error {
	if errors.Is(err, taskdomain.ErrTaskNotFound) || errors.Is(err, taskdomain.ErrCategoryNotFound) ||
		taskdomain.IsRetryable(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", taskdomain.ErrStorageFailure, err)
}

// boardMetrics counts board operations by outcome and records how many
// neighbouring rows each write had to shift.
type boardMetrics struct {
	ops     metric.Int64Counter
	shifted metric.Int64Histogram
}

func newBoardMetrics() boardMetrics {
	meter := otel.Meter(instrumentationName)
	// Errors only arise for invalid instrument names.
	ops, _ := meter.Int64Counter("board.operations",
		metric.WithDescription("Board operations by kind and outcome"))
	shifted, _ := meter.Int64Histogram("board.shifted_rows",
		metric.WithDescription("Rows whose position changed as a side effect of one operation"))
	return boardMetrics{ops: ops, shifted: shifted}
}

func (m boardMetrics) record(ctx context.Context, op string, err error, shifted int64) {
	outcome := "ok"
	switch {
	case err == nil:
	case taskdomain.IsRetryable(err):
		outcome = "retryable"
	default:
		outcome = "rejected"
	}
	attrs := metric.WithAttributes(attribute.String("op", op), attribute.String("outcome", outcome))
	m.ops.Add(ctx, 1, attrs)
	if err == nil {
		m.shifted.Record(ctx, shifted, metric.WithAttributes(attribute.String("op", op)))
	}
}
