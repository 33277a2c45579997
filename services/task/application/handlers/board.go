package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mindflow/backend/pkg/errhttp"
	"github.com/mindflow/backend/pkg/httpx"
	appsvcs "github.com/mindflow/backend/services/task/application/services"
)

// BoardResponse is the kanban view returned by GET /api/board.
type BoardResponse struct {
	Columns []BoardColumnResponse `json:"columns"`
	Total   int                   `json:"total" example:"12"`
} // @name BoardResponse

// BoardColumnResponse is one lane of the board.
type BoardColumnResponse struct {
	BoardColumn string              `json:"board_column"     example:"in_progress"`
	Status      string              `json:"status,omitempty" example:"in_progress"`
	Tasks       []BoardCardResponse `json:"tasks"`
} // @name BoardColumnResponse

// BoardCardResponse is a task as shown on the board.
type BoardCardResponse struct {
	ID                 uuid.UUID  `json:"id"                    example:"123e4567-e89b-12d3-a456-426614174000"`
	Title              string     `json:"title"                 example:"Write quarterly report"`
	Status             string     `json:"status"                example:"in_progress"`
	Priority           string     `json:"priority"              example:"high"`
	BoardPosition      int        `json:"board_position"        example:"0"`
	CategoryID         *uuid.UUID `json:"category_id,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	ProgressPercentage int        `json:"progress_percentage"   example:"40"`
	Tags               []string   `json:"tags"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
} // @name BoardCardResponse

func toBoardResponse(v *appsvcs.BoardView) BoardResponse {
	resp := BoardResponse{Columns: make([]BoardColumnResponse, len(v.Lanes)), Total: v.Total}
	for i, lane := range v.Lanes {
		cards := make([]BoardCardResponse, len(lane.Cards))
		for j, c := range lane.Cards {
			tags := c.Tags
			if tags == nil {
				tags = []string{}
			}
			cards[j] = BoardCardResponse{
				ID:                 c.ID,
				Title:              c.Title,
				Status:             c.Status,
				Priority:           c.Priority,
				BoardPosition:      c.Position,
				CategoryID:         c.CategoryID,
				DueDate:            c.DueDate,
				ProgressPercentage: c.Progress,
				Tags:               tags,
				CompletedAt:        c.CompletedAt,
			}
		}
		resp.Columns[i] = BoardColumnResponse{BoardColumn: lane.Column, Status: lane.Status, Tasks: cards}
	}
	return resp
}

// GetBoardHandler handles GET /api/board.
type GetBoardHandler struct {
	svc TaskUseCases
}

// NewGetBoardHandler returns a GetBoardHandler backed by svc.
func NewGetBoardHandler(svc TaskUseCases) *GetBoardHandler {
	return &GetBoardHandler{svc: svc}
}

// Execute returns the owner's board.
//
//	@Summary		Get board
//	@Description	Mapped columns in configured order (empty ones included), then any other column in use, alphabetically. Tasks are ordered by board_position.
//	@Tags			board
//	@Produce		json
//	@Success		200	{object}	BoardResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/board [get]
func (h *GetBoardHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	view, err := h.svc.Board(r.Context(), ownerID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBoardResponse(view))
}

// CompactBoardResponse reports what a compaction changed.
type CompactBoardResponse struct {
	Partitions int `json:"partitions" example:"4"`
	Moved      int `json:"moved"      example:"2"`
} // @name CompactBoardResponse

// CompactBoardHandler handles POST /api/board/compact.
type CompactBoardHandler struct {
	svc TaskUseCases
}

// NewCompactBoardHandler returns a CompactBoardHandler backed by svc.
func NewCompactBoardHandler(svc TaskUseCases) *CompactBoardHandler {
	return &CompactBoardHandler{svc: svc}
}

// Execute renumbers every column of the owner's board to 0..N-1.
//
//	@Summary		Compact board
//	@Description	Repairs gaps and duplicate positions left by imports, keeping relative order
//	@Tags			board
//	@Produce		json
//	@Success		200	{object}	CompactBoardResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/board/compact [post]
func (h *CompactBoardHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	result, err := h.svc.Compact(r.Context(), ownerID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, CompactBoardResponse{Partitions: result.Partitions, Moved: result.Moved})
}

// AnalyticsResponse documents GET /api/tasks/analytics.
type AnalyticsResponse struct {
	TotalTasks           int            `json:"total_tasks"           example:"20"`
	CompletedTasks       int            `json:"completed_tasks"       example:"5"`
	OverdueTasks         int            `json:"overdue_tasks"         example:"2"`
	DueThisWeek          int            `json:"due_this_week"         example:"3"`
	CompletionRate       float64        `json:"completion_rate"       example:"25"`
	StatusDistribution   map[string]int `json:"status_distribution"`
	PriorityDistribution map[string]int `json:"priority_distribution"`
} // @name AnalyticsResponse

// AnalyticsHandler handles GET /api/tasks/analytics.
type AnalyticsHandler struct {
	svc TaskUseCases
}

// NewAnalyticsHandler returns an AnalyticsHandler backed by svc.
func NewAnalyticsHandler(svc TaskUseCases) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Execute returns task statistics for the owner.
//
//	@Summary	Task analytics
//	@Tags		tasks
//	@Produce	json
//	@Success	200	{object}	AnalyticsResponse
//	@Failure	401	{object}	ErrorResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/api/tasks/analytics [get]
func (h *AnalyticsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	a, err := h.svc.Analytics(r.Context(), ownerID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, AnalyticsResponse{
		TotalTasks:           a.Total,
		CompletedTasks:       a.Completed,
		OverdueTasks:         a.Overdue,
		DueThisWeek:          a.DueThisWeek,
		CompletionRate:       a.CompletionRate,
		StatusDistribution:   a.ByStatus,
		PriorityDistribution: a.ByPriority,
	})
}
