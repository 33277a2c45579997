package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/mindflow/backend/pkg/logger"
	taskdomain "github.com/mindflow/backend/services/task/domain"
	"github.com/mindflow/backend/services/task/domain/models"
	"github.com/mindflow/backend/services/task/domain/repositories"
	domainsvcs "github.com/mindflow/backend/services/task/domain/services"
)

// List page sizes.
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

const dueThisWeek = 7 * 24 * time.Hour

// BoardCache keeps one rendered BoardView per owner.
// Get returns redis.Nil on a miss.
type BoardCache interface {
	Get(ctx context.Context, ownerID uuid.UUID, dst any) error
	Set(ctx context.Context, ownerID uuid.UUID, view any) error
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}

// Compactor renumbers an owner's board. BoardService does it inline; the
// Temporal compactor runs it as a workflow.
type Compactor interface {
	Compact(ctx context.Context, ownerID uuid.UUID) (domainsvcs.CompactionResult, error)
}

// CreateTaskInput carries the fields accepted when creating a task.
// Empty optional strings select the defaults.
type CreateTaskInput struct {
	Title             string
	Description       string
	CategoryID        *uuid.UUID
	Column            string
	Status            string
	Priority          string
	Source            string
	DueDate           *time.Time
	StartDate         *time.Time
	EstimatedDuration *int
	Progress          int
	Tags              []string
}

// PatchTaskInput carries a partial update. Nil fields are left unchanged;
// ClearCategory, ClearDueDate and ClearStartDate null out their field.
type PatchTaskInput struct {
	Title             *string
	Description       *string
	CategoryID        *uuid.UUID
	ClearCategory     bool
	Status            *string
	Priority          *string
	DueDate           *time.Time
	ClearDueDate      bool
	StartDate         *time.Time
	ClearStartDate    bool
	EstimatedDuration *int
	Progress          *int
	Tags              *[]string
}

// ListTasksInput carries list filters as received from the query string.
type ListTasksInput struct {
	Status     string
	Priority   string
	CategoryID *uuid.UUID
	Column     string
	DueSoon    int // days; 0 disables
	Overdue    bool
	Limit      int
	Offset     int
}

// TaskService is the entry point for task use cases. Board writes go through
// BoardService; this service adds input parsing, category ownership checks
// and the board snapshot cache.
type TaskService struct {
	board      *BoardService
	repo       repositories.TaskRepository
	categories repositories.CategoryRepository
	cache      BoardCache
	compactor  Compactor
	log        logger.Logger
	now        func() time.Time
}

// NewTaskService wires a TaskService. cache may be nil; compactor defaults to board.
func NewTaskService(
	board *BoardService,
	repo repositories.TaskRepository,
	categories repositories.CategoryRepository,
	cache BoardCache,
	compactor Compactor,
	log logger.Logger,
) *TaskService {
	if compactor == nil {
		compactor = board
	}
	return &TaskService{
		board:      board,
		repo:       repo,
		categories: categories,
		cache:      cache,
		compactor:  compactor,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create builds a task from in and appends it to its column. Without a
// column the task lands in the first mapped column.
func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (*models.Task, error) {
	title, err := models.NewTaskTitle(in.Title)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", taskdomain.ErrInvalidTask, err)
	}

	column := s.board.Columns().Columns()[0]
	if in.Column != "" {
		if column, err = models.NewBoardColumn(in.Column); err != nil {
			return nil, fmt.Errorf("%w: %w", taskdomain.ErrInvalidColumn, err)
		}
	}

	task, err := models.NewTask(ownerID, title, column)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", taskdomain.ErrInvalidTask, err)
	}
	task.Description = in.Description
	task.DueDate = in.DueDate
	task.StartDate = in.StartDate
	task.EstimatedDuration = in.EstimatedDuration
	task.ProgressPercentage = in.Progress
	task.Tags = domainsvcs.NormalizeTags(in.Tags)

	if in.Status != "" {
		if task.Status, err = models.ParseStatus(in.Status); err != nil {
			return nil, fmt.Errorf("%w: %w", taskdomain.ErrInvalidTask, err)
		}
	}
	if in.Priority != "" {
		if task.Priority, err = models.ParsePriority(in.Priority); err != nil {
			return nil, fmt.Errorf("%w: %w", taskdomain.ErrInvalidTask, err)
		}
	}
	if in.Source != "" {
		if task.Source, err = models.ParseSource(in.Source); err != nil {
			return nil, fmt.Errorf("%w: %w", taskdomain.ErrInvalidTask, err)
		}
	}

	if in.CategoryID != nil {
		if err := s.requireCategory(ctx, ownerID, *in.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = in.CategoryID
	}

	created, err := s.board.Append(ctx, task)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return created, nil
}

// Get returns one task of the owner.
func (s *TaskService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, storageErr(err)
	}
	return task, nil
}

// List returns one page of the owner's tasks matching in, and the total
// number of matches.
func (s *TaskService) List(ctx context.Context, ownerID uuid.UUID, in ListTasksInput) ([]*models.Task, int, error) {
	filter := repositories.TaskFilter{CategoryID: in.CategoryID}

	if in.Status != "" {
		st, err := models.ParseStatus(in.Status)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", taskdomain.ErrInvalidTask, err)
		}
		filter.Status = &st
	}
	if in.Priority != "" {
		pr, err := models.ParsePriority(in.Priority)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", taskdomain.ErrInvalidTask, err)
		}
		filter.Priority = &pr
	}
	if in.Column != "" {
		col, err := models.NewBoardColumn(in.Column)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", taskdomain.ErrInvalidColumn, err)
		}
		filter.Column = &col
	}

	now := s.now()
	if in.DueSoon > 0 {
		before := now.Add(time.Duration(in.DueSoon) * 24 * time.Hour)
		filter.DueBefore = &before
	}
	if in.Overdue {
		filter.OverdueAt = &now
	}

	filter.Limit = in.Limit
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	filter.Offset = max(in.Offset, 0)

	tasks, total, err := s.repo.Find(ctx, ownerID, filter)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	return tasks, total, nil
}

// Patch applies in to the task's non-board fields.
func (s *TaskService) Patch(ctx context.Context, ownerID, id uuid.UUID, in PatchTaskInput) (*models.Task, error) {
	if in.CategoryID != nil && !in.ClearCategory {
		if err := s.requireCategory(ctx, ownerID, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	task, err := s.board.UpdateDetails(ctx, ownerID, id, func(t *models.Task) error {
		return applyPatch(t, in)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return task, nil
}

func applyPatch(t *models.Task, in PatchTaskInput) error {
	if in.Title != nil {
		title, err := models.NewTaskTitle(*in.Title)
		if err != nil {
			return fmt.Errorf("%w: %w", taskdomain.ErrInvalidTask, err)
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	switch {
	case in.ClearCategory:
		t.CategoryID = nil
	case in.CategoryID != nil:
		t.CategoryID = in.CategoryID
	}
	if in.Status != nil {
		st, err := models.ParseStatus(*in.Status)
		if err != nil {
			return fmt.Errorf("%w: %w", taskdomain.ErrInvalidTask, err)
		}
		t.Status = st
	}
	if in.Priority != nil {
		pr, err := models.ParsePriority(*in.Priority)
		if err != nil {
			return fmt.Errorf("%w: %w", taskdomain.ErrInvalidTask, err)
		}
		t.Priority = pr
	}
	switch {
	case in.ClearDueDate:
		t.DueDate = nil
	case in.DueDate != nil:
		t.DueDate = in.DueDate
	}
	switch {
	case in.ClearStartDate:
		t.StartDate = nil
	case in.StartDate != nil:
		t.StartDate = in.StartDate
	}
	if in.EstimatedDuration != nil {
		t.EstimatedDuration = in.EstimatedDuration
	}
	if in.Progress != nil {
		t.ProgressPercentage = *in.Progress
	}
	if in.Tags != nil {
		t.Tags = domainsvcs.NormalizeTags(*in.Tags)
	}
	return nil
}

// Move moves a task on the board; see BoardService.Move.
func (s *TaskService) Move(ctx context.Context, ownerID, id uuid.UUID, column string, position *int) (*models.Task, error) {
	task, err := s.board.Move(ctx, ownerID, id, column, position)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return task, nil
}

// Delete removes a task from the board.
func (s *TaskService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.board.Remove(ctx, ownerID, id); err != nil {
		return err
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// Compact renumbers the owner's board through the configured Compactor.
func (s *TaskService) Compact(ctx context.Context, ownerID uuid.UUID) (domainsvcs.CompactionResult, error) {
	result, err := s.compactor.Compact(ctx, ownerID)
	if err != nil {
		return domainsvcs.CompactionResult{}, err
	}
	if result.Moved > 0 {
		s.invalidate(ctx, ownerID)
	}
	return result, nil
}

// BoardCard is one task as shown on the board.
type BoardCard struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Position    int        `json:"board_position"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Progress    int        `json:"progress_percentage"`
	Tags        []string   `json:"tags"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// BoardLane is one column with its cards in position order.
type BoardLane struct {
	Column string      `json:"board_column"`
	Status string      `json:"status,omitempty"`
	Cards  []BoardCard `json:"tasks"`
}

// BoardView is the kanban snapshot of one owner.
type BoardView struct {
	Lanes []BoardLane `json:"columns"`
	Total int         `json:"total"`
}

// Board returns the owner's kanban view. Mapped columns come first in table
// order, even when empty, followed by any other column in use in
// alphabetical order. The view is served from the cache when present.
func (s *TaskService) Board(ctx context.Context, ownerID uuid.UUID) (*BoardView, error) {
	if s.cache != nil {
		var cached BoardView
		err := s.cache.Get(ctx, ownerID, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "board cache read failed", "owner_id", ownerID, "error", err)
		}
	}

	tasks, err := s.repo.ListBoard(ctx, ownerID)
	if err != nil {
		return nil, storageErr(err)
	}
	view := buildBoardView(tasks, s.board.Columns())

	if s.cache != nil {
		if err := s.cache.Set(ctx, ownerID, view); err != nil {
			s.log.WarnContext(ctx, "board cache write failed", "owner_id", ownerID, "error", err)
		}
	}
	return view, nil
}

func buildBoardView(tasks []*models.Task, columns *models.ColumnStatusMap) *BoardView {
	byColumn := make(map[models.BoardColumn][]BoardCard)
	for _, t := range tasks {
		byColumn[t.BoardColumn] = append(byColumn[t.BoardColumn], BoardCard{
			ID:          t.ID,
			Title:       t.Title.String(),
			Status:      string(t.Status),
			Priority:    string(t.Priority),
			Position:    t.BoardPosition,
			CategoryID:  t.CategoryID,
			DueDate:     t.DueDate,
			Progress:    t.ProgressPercentage,
			Tags:        t.Tags,
			CompletedAt: t.CompletedAt,
		})
	}

	view := &BoardView{Total: len(tasks)}
	mapped := columns.Columns()
	for _, c := range mapped {
		status, _ := columns.StatusFor(c)
		view.Lanes = append(view.Lanes, BoardLane{Column: c.String(), Status: string(status), Cards: laneCards(byColumn[c])})
		delete(byColumn, c)
	}

	extra := make([]models.BoardColumn, 0, len(byColumn))
	for c := range byColumn {
		extra = append(extra, c)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, c := range extra {
		view.Lanes = append(view.Lanes, BoardLane{Column: c.String(), Cards: laneCards(byColumn[c])})
	}
	return view
}

func laneCards(cards []BoardCard) []BoardCard {
	if cards == nil {
		return []BoardCard{}
	}
	sort.SliceStable(cards, func(i, j int) bool { return cards[i].Position < cards[j].Position })
	return cards
}

// Analytics summarises the owner's tasks.
type Analytics struct {
	Total          int            `json:"total_tasks"`
	Completed      int            `json:"completed_tasks"`
	Overdue        int            `json:"overdue_tasks"`
	DueThisWeek    int            `json:"due_this_week"`
	CompletionRate float64        `json:"completion_rate"`
	ByStatus       map[string]int `json:"status_distribution"`
	ByPriority     map[string]int `json:"priority_distribution"`
}

// Analytics runs the aggregate queries concurrently and combines them.
func (s *TaskService) Analytics(ctx context.Context, ownerID uuid.UUID) (*Analytics, error) {
	now := s.now()

	var (
		byStatus   map[models.Status]int
		byPriority map[models.Priority]int
		overdue    int
		dueSoon    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		byStatus, err = s.repo.CountByStatus(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		byPriority, err = s.repo.CountByPriority(gctx, ownerID)
		return err
	})
	g.Go(func() (err error) {
		overdue, err = s.repo.CountOverdue(gctx, ownerID, now)
		return err
	})
	g.Go(func() (err error) {
		dueSoon, err = s.repo.CountDueBetween(gctx, ownerID, now, now.Add(dueThisWeek))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storageErr(err)
	}

	a := &Analytics{
		Overdue:     overdue,
		DueThisWeek: dueSoon,
		ByStatus:    make(map[string]int, len(byStatus)),
		ByPriority:  make(map[string]int, len(byPriority)),
	}
	for st, n := range byStatus {
		a.ByStatus[string(st)] = n
		a.Total += n
	}
	for pr, n := range byPriority {
		a.ByPriority[string(pr)] = n
	}
	a.Completed = byStatus[models.StatusDone]
	if a.Total > 0 {
		a.CompletionRate = math.Round(float64(a.Completed)/float64(a.Total)*1000) / 10
	}
	return a, nil
}

func (s *TaskService) requireCategory(ctx context.Context, ownerID, id uuid.UUID) error {
	ok, err := s.categories.Exists(ctx, ownerID, id)
	if err != nil {
		return storageErr(err)
	}
	if !ok {
		return taskdomain.ErrCategoryNotFound
	}
	return nil
}

// invalidate drops the owner's snapshot after a committed write. The worker
// repeats this on the outbox event, so a failure here is only logged.
func (s *TaskService) invalidate(ctx context.Context, ownerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		s.log.WarnContext(ctx, "board cache invalidation failed", "owner_id", ownerID, "error", err)
	}
}
