package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the workflow state of a task. Some statuses are forced by the
// board column a task sits in (see ColumnStatusMap); the rest are set directly.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusWaiting    Status = "waiting"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus validates s as a known status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusTodo, StatusInProgress, StatusWaiting, StatusDone, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// Priority orders tasks inside a column listing.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ParsePriority validates s as a known priority.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, nil
	default:
		return "", fmt.Errorf("unknown priority %q", s)
	}
}

// Source records how a task entered the system.
type Source string

const (
	SourceManual    Source = "manual"
	SourceQuickAdd  Source = "quick_add"
	SourceImport    Source = "import"
	SourceRecurring Source = "recurring"
)

// ParseSource validates s as a known source.
func ParseSource(s string) (Source, error) {
	switch src := Source(s); src {
	case SourceManual, SourceQuickAdd, SourceImport, SourceRecurring:
		return src, nil
	default:
		return "", fmt.Errorf("unknown source %q", s)
	}
}

// TaskTitle is a value object representing a valid task title.
// Encapsulates validation rules: 1 <= len(title) <= 200 after trimming.
type TaskTitle string

const (
	minTaskTitleLength = 1
	maxTaskTitleLength = 200
)

// NewTaskTitle trims s and constructs a valid TaskTitle or returns an error
// if constraints are violated.
func NewTaskTitle(s string) (TaskTitle, error) {
	s = strings.TrimSpace(s)
	if len(s) < minTaskTitleLength {
		return "", fmt.Errorf("task title must be at least %d character", minTaskTitleLength)
	}
	if len(s) > maxTaskTitleLength {
		return "", fmt.Errorf("task title must not exceed %d characters", maxTaskTitleLength)
	}
	return TaskTitle(s), nil
}

// String returns the underlying string value.
func (t TaskTitle) String() string {
	return string(t)
}

// Task is the core aggregate for this bounded context and the item ordered
// on the kanban board.
type Task struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID // every query filters by owner
	CategoryID *uuid.UUID

	Title       TaskTitle
	Description string
	Status      Status
	Priority    Priority

	DueDate           *time.Time
	StartDate         *time.Time
	EstimatedDuration *int // minutes

	ProgressPercentage int
	Tags               []string
	Source             Source

	// BoardColumn and BoardPosition are written only by the board operations.
	BoardColumn   BoardColumn
	BoardPosition int

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// NewTask constructs a valid Task with generated ID, default status, priority
// and source, and current timestamps. Its board position is assigned on append.
func NewTask(ownerID uuid.UUID, title TaskTitle, column BoardColumn) (*Task, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("task owner must be set")
	}
	if _, err := NewTaskTitle(title.String()); err != nil {
		return nil, err
	}
	if _, err := NewBoardColumn(column.String()); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Status:      StatusTodo,
		Priority:    PriorityMedium,
		Source:      SourceManual,
		BoardColumn: column,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Partition returns the board partition the task currently belongs to.
func (t *Task) Partition() Partition {
	return Partition{OwnerID: t.OwnerID, Column: t.BoardColumn}
}

// PlaceInColumn puts the task at position in column and keeps the
// column-derived fields consistent:
//   - the status follows the mapping when column is mapped;
//   - entering the terminal column stamps completion and sets progress to 100;
//   - leaving it clears the completion stamp and resets a terminal progress;
//   - a task whose resulting status is open never keeps a completion stamp.
func (t *Task) PlaceInColumn(column BoardColumn, position int, m *ColumnStatusMap, now time.Time) {
	wasDone := m.IsDone(t.BoardColumn)
	isDone := m.IsDone(column)

	t.BoardColumn = column
	t.BoardPosition = position
	if status, ok := m.StatusFor(column); ok {
		t.Status = status
	}

	switch {
	case isDone && !wasDone:
		t.MarkCompleted(now)
	case wasDone && !isDone:
		t.ClearCompletion()
	case t.Status != StatusDone && t.CompletedAt != nil:
		t.ClearCompletion()
	}
	t.UpdatedAt = now
}

// MarkCompleted stamps the completion time and sets progress to 100.
func (t *Task) MarkCompleted(now time.Time) {
	completed := now
	t.CompletedAt = &completed
	t.ProgressPercentage = 100
}

// ClearCompletion removes the completion stamp. Progress is reset only when
// it still holds the terminal value set by MarkCompleted.
func (t *Task) ClearCompletion() {
	t.CompletedAt = nil
	if t.ProgressPercentage == 100 {
		t.ProgressPercentage = 0
	}
}

// IsOverdue reports whether the task is past its due date and still open.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusDone || t.Status == StatusCancelled {
		return false
	}
	return now.After(*t.DueDate)
}
