// Package services contains stateless domain services for the task bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
//
// The board planner turns board requests into position shifts. It never touches
// storage: callers read partition maxima inside a locked transaction, ask the
// planner what to write, and apply the result in that same transaction.
package services

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	taskdomain "github.com/mindflow/backend/services/task/domain"
	"github.com/mindflow/backend/services/task/domain/models"
)

// EmptyPartition is the maximum position reported for a partition with no tasks.
const EmptyPartition = -1

// PlanAppend returns the position for a task appended to a partition whose
// highest position is highest.
func PlanAppend(highest int) int {
	if highest < 0 {
		return 0
	}
	return highest + 1
}

// MovePlan is the full set of writes for one move. Shifts must be applied
// before the moved task is written to Column/Position.
type MovePlan struct {
	NoOp        bool
	CrossColumn bool
	Column      models.BoardColumn
	Position    int
	Shifts      []models.PositionShift
}

// ValidateMoveRequest checks the request shape before any storage access.
func ValidateMoveRequest(column string, position *int) (models.BoardColumn, error) {
	if column == "" {
		return "", taskdomain.ErrMissingColumn
	}
	col, err := models.NewBoardColumn(column)
	if err != nil {
		return "", fmt.Errorf("%w: %w", taskdomain.ErrInvalidColumn, err)
	}
	if position != nil && *position < 0 {
		return "", fmt.Errorf("%w: %d", taskdomain.ErrInvalidPosition, *position)
	}
	return col, nil
}

// PlanMove computes the writes that place task at position in column.
// targetMax is the highest position currently in the target partition
// (EmptyPartition when it has none). A nil position means "end of column".
// Requested positions past the end are clamped to the end.
func PlanMove(task *models.Task, column models.BoardColumn, position *int, targetMax int) (MovePlan, error) {
	if position != nil && *position < 0 {
		return MovePlan{}, fmt.Errorf("%w: %d", taskdomain.ErrInvalidPosition, *position)
	}

	if column != task.BoardColumn {
		return planCrossColumn(task, column, position, targetMax), nil
	}
	return planSameColumn(task, position, targetMax), nil
}

func planCrossColumn(task *models.Task, column models.BoardColumn, position *int, targetMax int) MovePlan {
	end := PlanAppend(targetMax)
	target := end
	if position != nil && *position < end {
		target = *position
	}

	plan := MovePlan{
		CrossColumn: true,
		Column:      column,
		Position:    target,
		Shifts: []models.PositionShift{{
			Partition: task.Partition(),
			From:      task.BoardPosition + 1,
			To:        models.Unbounded,
			Delta:     -1,
		}},
	}
	if target < end {
		plan.Shifts = append(plan.Shifts, models.PositionShift{
			Partition: models.Partition{OwnerID: task.OwnerID, Column: column},
			From:      target,
			To:        models.Unbounded,
			Delta:     1,
		})
	}
	return plan
}

func planSameColumn(task *models.Task, position *int, highest int) MovePlan {
	noop := MovePlan{NoOp: true, Column: task.BoardColumn, Position: task.BoardPosition}
	if position == nil {
		return noop
	}

	old := task.BoardPosition
	target := *position
	if target > highest {
		target = highest
	}
	if target == old {
		return noop
	}

	shift := models.PositionShift{Partition: task.Partition()}
	if target > old {
		shift.From, shift.To, shift.Delta = old+1, target, -1
	} else {
		shift.From, shift.To, shift.Delta = target, old-1, 1
	}
	return MovePlan{
		Column:   task.BoardColumn,
		Position: target,
		Shifts:   []models.PositionShift{shift},
	}
}

// PlanRemove returns the shift that closes the gap left by removing task.
func PlanRemove(task *models.Task) models.PositionShift {
	return models.PositionShift{
		Partition: task.Partition(),
		From:      task.BoardPosition + 1,
		To:        models.Unbounded,
		Delta:     -1,
	}
}

// Placement assigns a new position to one task.
type Placement struct {
	TaskID   uuid.UUID
	Position int
}

// PlanCompaction renumbers a partition densely. Tasks keep their relative
// order by position, ties broken by creation time then ID. Only tasks whose
// position changes are returned.
func PlanCompaction(tasks []*models.Task) []Placement {
	ordered := make([]*models.Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.BoardPosition != b.BoardPosition {
			return a.BoardPosition < b.BoardPosition
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	var out []Placement
	for i, t := range ordered {
		if t.BoardPosition != i {
			out = append(out, Placement{TaskID: t.ID, Position: i})
		}
	}
	return out
}

// PartitionReport describes how far a partition is from dense 0..N-1 order.
type PartitionReport struct {
	Partition  models.Partition
	Count      int
	Missing    []int
	Duplicates []int
}

// Dense reports whether the partition holds exactly positions 0..Count-1.
func (r PartitionReport) Dense() bool {
	return len(r.Missing) == 0 && len(r.Duplicates) == 0
}

// VerifyPartition checks positions of one partition for gaps and duplicates.
func VerifyPartition(p models.Partition, positions []int) PartitionReport {
	report := PartitionReport{Partition: p, Count: len(positions)}

	seen := make(map[int]int, len(positions))
	for _, pos := range positions {
		seen[pos]++
	}
	for i := 0; i < len(positions); i++ {
		if seen[i] == 0 {
			report.Missing = append(report.Missing, i)
		}
	}
	for pos, n := range seen {
		if n > 1 {
			report.Duplicates = append(report.Duplicates, pos)
		}
	}
	sort.Ints(report.Duplicates)
	return report
}

// CompactionResult summarises one compaction run over an owner's board.
type CompactionResult struct {
	Partitions int `json:"partitions"`
	Moved      int `json:"moved"`
}
