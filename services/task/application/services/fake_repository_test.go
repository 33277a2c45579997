package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	taskdomain "github.com/mindflow/backend/services/task/domain"
	"github.com/mindflow/backend/services/task/domain/models"
	"github.com/mindflow/backend/services/task/domain/repositories"
)

// memRepo is an in-memory TaskRepository with real transaction semantics:
// transactions are serialized, work on a copy of the committed state and
// publish nothing unless fn succeeds and no two tasks share a slot.
type memRepo struct {
	txMu sync.Mutex

	mu     sync.RWMutex
	tasks  map[uuid.UUID]*models.Task
	events []publishedEvent

	// fail makes the named BoardTx method return the error inside the next
	// transactions until cleared.
	fail map[string]error
	// readErr is returned by every non-transactional read.
	readErr error

	locks [][]models.Partition
}

type publishedEvent struct {
	Topic string
	Event any
}

func newMemRepo() *memRepo {
	return &memRepo{tasks: make(map[uuid.UUID]*models.Task), fail: make(map[string]error)}
}

func cloneTask(t *models.Task) *models.Task {
	c := *t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return &c
}

func (r *memRepo) WithinBoardTx(ctx context.Context, fn func(context.Context, repositories.BoardTx) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.RLock()
	work := make(map[uuid.UUID]*models.Task, len(r.tasks))
	for id, t := range r.tasks {
		work[id] = cloneTask(t)
	}
	r.mu.RUnlock()

	tx := &memTx{repo: r, tasks: work}
	if err := fn(ctx, tx); err != nil {
		return translateMemError(err)
	}
	if err := checkSlots(work); err != nil {
		return fmt.Errorf("%w: %w", taskdomain.ErrBoardConflict, err)
	}

	r.mu.Lock()
	r.tasks = work
	r.events = append(r.events, tx.pending...)
	r.locks = append(r.locks, tx.locked...)
	r.mu.Unlock()
	return nil
}

func translateMemError(err error) error {
	for _, target := range []error{
		taskdomain.ErrTaskNotFound, taskdomain.ErrInvalidTask, taskdomain.ErrMissingColumn,
		taskdomain.ErrInvalidColumn, taskdomain.ErrInvalidPosition, taskdomain.ErrStatusConflict,
		taskdomain.ErrBoardConflict, taskdomain.ErrStorageFailure,
	} {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", taskdomain.ErrStorageFailure, err)
}

func checkSlots(tasks map[uuid.UUID]*models.Task) error {
	type slot struct {
		owner    uuid.UUID
		column   models.BoardColumn
		position int
	}
	seen := make(map[slot]uuid.UUID, len(tasks))
	for id, t := range tasks {
		s := slot{t.OwnerID, t.BoardColumn, t.BoardPosition}
		if other, dup := seen[s]; dup {
			return fmt.Errorf("tasks %s and %s share %s/%d", id, other, t.BoardColumn, t.BoardPosition)
		}
		seen[s] = id
	}
	return nil
}

func (r *memRepo) seed(tasks ...*models.Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tasks {
		r.tasks[t.ID] = cloneTask(t)
	}
}

func (r *memRepo) published() []publishedEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]publishedEvent(nil), r.events...)
}

// column returns the IDs of an owner's column ordered by position, and the positions.
func (r *memRepo) column(owner uuid.UUID, column models.BoardColumn) ([]uuid.UUID, []int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var in []*models.Task
	for _, t := range r.tasks {
		if t.OwnerID == owner && t.BoardColumn == column {
			in = append(in, t)
		}
	}
	sort.Slice(in, func(i, j int) bool { return in[i].BoardPosition < in[j].BoardPosition })
	ids := make([]uuid.UUID, len(in))
	positions := make([]int, len(in))
	for i, t := range in {
		ids[i], positions[i] = t.ID, t.BoardPosition
	}
	return ids, positions
}

func (r *memRepo) snapshot() map[uuid.UUID]models.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uuid.UUID]models.Task, len(r.tasks))
	for id, t := range r.tasks {
		out[id] = *t
	}
	return out
}

func (r *memRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, taskdomain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *memRepo) owned(ownerID uuid.UUID) []*models.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Task
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

func isOpen(t *models.Task) bool {
	return t.Status != models.StatusDone && t.Status != models.StatusCancelled
}

func (r *memRepo) Find(_ context.Context, ownerID uuid.UUID, f repositories.TaskFilter) ([]*models.Task, int, error) {
	if r.readErr != nil {
		return nil, 0, r.readErr
	}
	var match []*models.Task
	for _, t := range r.owned(ownerID) {
		switch {
		case f.Status != nil && t.Status != *f.Status,
			f.Priority != nil && t.Priority != *f.Priority,
			f.Column != nil && t.BoardColumn != *f.Column,
			f.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *f.CategoryID),
			f.DueBefore != nil && (t.DueDate == nil || !isOpen(t) || t.DueDate.After(*f.DueBefore)),
			f.OverdueAt != nil && (t.DueDate == nil || !isOpen(t) || !t.DueDate.Before(*f.OverdueAt)):
			continue
		}
		match = append(match, t)
	}
	sort.Slice(match, func(i, j int) bool {
		if !match[i].CreatedAt.Equal(match[j].CreatedAt) {
			return match[i].CreatedAt.After(match[j].CreatedAt)
		}
		return match[i].ID.String() < match[j].ID.String()
	})

	total := len(match)
	lo := min(f.Offset, total)
	hi := min(lo+f.Limit, total)
	return match[lo:hi], total, nil
}

func (r *memRepo) ListBoard(_ context.Context, ownerID uuid.UUID) ([]*models.Task, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	tasks := r.owned(ownerID)
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].BoardColumn != tasks[j].BoardColumn {
			return tasks[i].BoardColumn < tasks[j].BoardColumn
		}
		return tasks[i].BoardPosition < tasks[j].BoardPosition
	})
	return tasks, nil
}

func (r *memRepo) Partitions(_ context.Context, ownerID uuid.UUID) ([]models.BoardColumn, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	seen := make(map[models.BoardColumn]bool)
	var out []models.BoardColumn
	for _, t := range r.owned(ownerID) {
		if !seen[t.BoardColumn] {
			seen[t.BoardColumn] = true
			out = append(out, t.BoardColumn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *memRepo) CountByStatus(_ context.Context, ownerID uuid.UUID) (map[models.Status]int, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	out := make(map[models.Status]int)
	for _, t := range r.owned(ownerID) {
		out[t.Status]++
	}
	return out, nil
}

func (r *memRepo) CountByPriority(_ context.Context, ownerID uuid.UUID) (map[models.Priority]int, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	out := make(map[models.Priority]int)
	for _, t := range r.owned(ownerID) {
		out[t.Priority]++
	}
	return out, nil
}

func (r *memRepo) CountOverdue(_ context.Context, ownerID uuid.UUID, now time.Time) (int, error) {
	if r.readErr != nil {
		return 0, r.readErr
	}
	n := 0
	for _, t := range r.owned(ownerID) {
		if t.IsOverdue(now) {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) CountDueBetween(_ context.Context, ownerID uuid.UUID, from, to time.Time) (int, error) {
	if r.readErr != nil {
		return 0, r.readErr
	}
	n := 0
	for _, t := range r.owned(ownerID) {
		if t.DueDate != nil && isOpen(t) && !t.DueDate.Before(from) && !t.DueDate.After(to) {
			n++
		}
	}
	return n, nil
}

type memTx struct {
	repo    *memRepo
	tasks   map[uuid.UUID]*models.Task
	pending []publishedEvent
	locked  [][]models.Partition
}

func (tx *memTx) injected(op string) error {
	return tx.repo.fail[op]
}

func (tx *memTx) LockPartitions(_ context.Context, partitions ...models.Partition) error {
	if err := tx.injected("LockPartitions"); err != nil {
		return err
	}
	tx.locked = append(tx.locked, append([]models.Partition(nil), partitions...))
	return nil
}

func (tx *memTx) GetForUpdate(_ context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	if err := tx.injected("GetForUpdate"); err != nil {
		return nil, err
	}
	t, ok := tx.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, taskdomain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (tx *memTx) MaxPosition(_ context.Context, p models.Partition) (int, error) {
	if err := tx.injected("MaxPosition"); err != nil {
		return 0, err
	}
	highest := -1
	for _, t := range tx.tasks {
		if t.Partition() == p && t.BoardPosition > highest {
			highest = t.BoardPosition
		}
	}
	return highest, nil
}

func (tx *memTx) ShiftPositions(_ context.Context, s models.PositionShift) (int64, error) {
	if err := tx.injected("ShiftPositions"); err != nil {
		return 0, err
	}
	var n int64
	for _, t := range tx.tasks {
		if t.Partition() == s.Partition && t.BoardPosition >= s.From && t.BoardPosition <= s.To {
			t.BoardPosition += s.Delta
			n++
		}
	}
	return n, nil
}

func (tx *memTx) Insert(_ context.Context, task *models.Task) error {
	if err := tx.injected("Insert"); err != nil {
		return err
	}
	if _, dup := tx.tasks[task.ID]; dup {
		return fmt.Errorf("duplicate task id %s", task.ID)
	}
	tx.tasks[task.ID] = cloneTask(task)
	return nil
}

func (tx *memTx) UpdatePlacement(_ context.Context, task *models.Task) error {
	if err := tx.injected("UpdatePlacement"); err != nil {
		return err
	}
	cur, ok := tx.tasks[task.ID]
	if !ok {
		return taskdomain.ErrTaskNotFound
	}
	cur.BoardColumn = task.BoardColumn
	cur.BoardPosition = task.BoardPosition
	cur.Status = task.Status
	cur.ProgressPercentage = task.ProgressPercentage
	cur.CompletedAt = task.CompletedAt
	cur.UpdatedAt = task.UpdatedAt
	return nil
}

func (tx *memTx) UpdateDetails(_ context.Context, task *models.Task) error {
	if err := tx.injected("UpdateDetails"); err != nil {
		return err
	}
	cur, ok := tx.tasks[task.ID]
	if !ok {
		return taskdomain.ErrTaskNotFound
	}
	column, position := cur.BoardColumn, cur.BoardPosition
	*cur = *cloneTask(task)
	cur.BoardColumn, cur.BoardPosition = column, position
	return nil
}

func (tx *memTx) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	if err := tx.injected("Delete"); err != nil {
		return err
	}
	t, ok := tx.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return taskdomain.ErrTaskNotFound
	}
	delete(tx.tasks, id)
	return nil
}

func (tx *memTx) ListPartition(_ context.Context, p models.Partition) ([]*models.Task, error) {
	if err := tx.injected("ListPartition"); err != nil {
		return nil, err
	}
	var out []*models.Task
	for _, t := range tx.tasks {
		if t.Partition() == p {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BoardPosition != out[j].BoardPosition {
			return out[i].BoardPosition < out[j].BoardPosition
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (tx *memTx) SetPosition(_ context.Context, ownerID, id uuid.UUID, position int) error {
	if err := tx.injected("SetPosition"); err != nil {
		return err
	}
	t, ok := tx.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return taskdomain.ErrTaskNotFound
	}
	t.BoardPosition = position
	return nil
}

func (tx *memTx) Publish(_ context.Context, topic string, event any) error {
	if err := tx.injected("Publish"); err != nil {
		return err
	}
	tx.pending = append(tx.pending, publishedEvent{Topic: topic, Event: event})
	return nil
}

// memCategories is an in-memory CategoryRepository.
type memCategories struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*models.Category
}

func newMemCategories() *memCategories {
	return &memCategories{byID: make(map[uuid.UUID]*models.Category)}
}

func (r *memCategories) Save(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.byID {
		if other.OwnerID == c.OwnerID && other.Name == c.Name {
			return taskdomain.ErrCategoryAlreadyExists
		}
	}
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCategories) GetByID(_ context.Context, ownerID, id uuid.UUID) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok || c.OwnerID != ownerID {
		return nil, taskdomain.ErrCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCategories) ListActive(_ context.Context, ownerID uuid.UUID) ([]*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Category
	for _, c := range r.byID {
		if c.OwnerID == ownerID && c.IsActive && !c.IsArchived {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memCategories) Exists(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	_, err := r.GetByID(ctx, ownerID, id)
	if errors.Is(err, taskdomain.ErrCategoryNotFound) {
		return false, nil
	}
	return err == nil, err
}
