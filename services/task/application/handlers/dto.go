package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mindflow/backend/pkg/auth"
	"github.com/mindflow/backend/pkg/httpx"
	appsvcs "github.com/mindflow/backend/services/task/application/services"
	"github.com/mindflow/backend/services/task/domain/models"
	domainsvcs "github.com/mindflow/backend/services/task/domain/services"
)

// TaskUseCases is the part of the task application service the handlers call.
type TaskUseCases interface {
	Create(ctx context.Context, ownerID uuid.UUID, in appsvcs.CreateTaskInput) (*models.Task, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, in appsvcs.ListTasksInput) ([]*models.Task, int, error)
	Patch(ctx context.Context, ownerID, id uuid.UUID, in appsvcs.PatchTaskInput) (*models.Task, error)
	Move(ctx context.Context, ownerID, id uuid.UUID, column string, position *int) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	Board(ctx context.Context, ownerID uuid.UUID) (*appsvcs.BoardView, error)
	Analytics(ctx context.Context, ownerID uuid.UUID) (*appsvcs.Analytics, error)
	Compact(ctx context.Context, ownerID uuid.UUID) (domainsvcs.CompactionResult, error)
}

// CategoryUseCases is the part of the category application service the handlers call.
type CategoryUseCases interface {
	Create(ctx context.Context, ownerID uuid.UUID, in appsvcs.CreateCategoryInput) (*models.Category, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*models.Category, error)
}

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"task not found"`
} // @name ErrorResponse

// TaskResponse is the JSON form of a task.
type TaskResponse struct {
	ID                 uuid.UUID  `json:"id"                   example:"123e4567-e89b-12d3-a456-426614174000"`
	CategoryID         *uuid.UUID `json:"category_id"          example:"550e8400-e29b-41d4-a716-446655440000"`
	Title              string     `json:"title"                example:"Write quarterly report"`
	Description        string     `json:"description"`
	Status             string     `json:"status"               example:"todo"`
	Priority           string     `json:"priority"             example:"medium"`
	DueDate            *time.Time `json:"due_date"             example:"2024-02-01T17:00:00Z"`
	StartDate          *time.Time `json:"start_date"`
	EstimatedDuration  *int       `json:"estimated_duration"   example:"90"`
	ProgressPercentage int        `json:"progress_percentage"  example:"0"`
	Tags               []string   `json:"tags"`
	Source             string     `json:"source"               example:"manual"`
	BoardColumn        string     `json:"board_column"         example:"todo"`
	BoardPosition      int        `json:"board_position"       example:"0"`
	CreatedAt          time.Time  `json:"created_at"           example:"2024-01-15T10:30:00Z"`
	UpdatedAt          time.Time  `json:"updated_at"           example:"2024-01-15T10:30:00Z"`
	CompletedAt        *time.Time `json:"completed_at"`
} // @name TaskResponse

func toTaskResponse(t *models.Task) TaskResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return TaskResponse{
		ID:                 t.ID,
		CategoryID:         t.CategoryID,
		Title:              t.Title.String(),
		Description:        t.Description,
		Status:             string(t.Status),
		Priority:           string(t.Priority),
		DueDate:            t.DueDate,
		StartDate:          t.StartDate,
		EstimatedDuration:  t.EstimatedDuration,
		ProgressPercentage: t.ProgressPercentage,
		Tags:               tags,
		Source:             string(t.Source),
		BoardColumn:        t.BoardColumn.String(),
		BoardPosition:      t.BoardPosition,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
		CompletedAt:        t.CompletedAt,
	}
}

// CategoryResponse is the JSON form of a category.
type CategoryResponse struct {
	ID           uuid.UUID `json:"id"            example:"550e8400-e29b-41d4-a716-446655440000"`
	Name         string    `json:"name"          example:"Work"`
	Description  string    `json:"description"`
	Color        string    `json:"color"         example:"#3B82F6"`
	Icon         string    `json:"icon"          example:"briefcase"`
	CategoryType string    `json:"category_type" example:"project"`
	SortOrder    int       `json:"sort_order"    example:"0"`
	CreatedAt    time.Time `json:"created_at"    example:"2024-01-15T10:30:00Z"`
} // @name CategoryResponse

func toCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Color:        c.Color,
		Icon:         c.Icon,
		CategoryType: string(c.Type),
		SortOrder:    c.SortOrder,
		CreatedAt:    c.CreatedAt,
	}
}

// Optional distinguishes an absent JSON field from an explicit null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON records that the field was present.
func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// ptr returns a pointer to the value when set and not null.
func (o Optional[T]) ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// requireOwner returns the authenticated owner or writes 401.
func requireOwner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ownerID, err := auth.OwnerIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return uuid.Nil, false
	}
	return ownerID, true
}

// taskID parses the {id} path parameter or writes 400.
func taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid task id"})
		return uuid.Nil, false
	}
	return id, true
}
