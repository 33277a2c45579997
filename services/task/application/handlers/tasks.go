package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mindflow/backend/pkg/errhttp"
	"github.com/mindflow/backend/pkg/httpx"
	pkgvalidator "github.com/mindflow/backend/pkg/validator"
	appsvcs "github.com/mindflow/backend/services/task/application/services"
)

// CreateTaskRequest is the request body for POST /api/tasks.
type CreateTaskRequest struct {
	Title             string     `json:"title"               validate:"required,max=200"                                            example:"Write quarterly report"`
	Description       string     `json:"description"         validate:"max=5000"`
	CategoryID        *uuid.UUID `json:"category_id"                                                                                example:"550e8400-e29b-41d4-a716-446655440000"`
	BoardColumn       string     `json:"board_column"        validate:"omitempty,board_column"                                      example:"todo"`
	Status            string     `json:"status"              validate:"omitempty,oneof=todo in_progress waiting done cancelled"     example:"todo"`
	Priority          string     `json:"priority"            validate:"omitempty,oneof=low medium high urgent"                      example:"high"`
	Source            string     `json:"source"              validate:"omitempty,oneof=manual quick_add import recurring"           example:"manual"`
	DueDate           *time.Time `json:"due_date"                                                                                   example:"2024-02-01T17:00:00Z"`
	StartDate         *time.Time `json:"start_date"`
	EstimatedDuration *int       `json:"estimated_duration"  validate:"omitempty,gte=0"                                             example:"90"`
	Progress          int        `json:"progress_percentage" validate:"gte=0,lte=100"`
	Tags              []string   `json:"tags"                validate:"max=20,dive,tag"`
} // @name CreateTaskRequest

// CreateTaskHandler handles POST /api/tasks.
type CreateTaskHandler struct {
	svc TaskUseCases
}

// NewCreateTaskHandler returns a CreateTaskHandler backed by svc.
func NewCreateTaskHandler(svc TaskUseCases) *CreateTaskHandler {
	return &CreateTaskHandler{svc: svc}
}

// Execute creates a task at the end of its column.
//
//	@Summary		Create task
//	@Description	Creates a task and appends it to the end of its board column (the first mapped column by default)
//	@Tags			tasks
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateTaskRequest	true	"Task creation request"
//	@Success		201		{object}	TaskResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse	"category not found"
//	@Failure		422		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/tasks [post]
func (h *CreateTaskHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[CreateTaskRequest](w, r)
	if !ok {
		return
	}

	task, err := h.svc.Create(r.Context(), ownerID, appsvcs.CreateTaskInput{
		Title:             req.Title,
		Description:       req.Description,
		CategoryID:        req.CategoryID,
		Column:            req.BoardColumn,
		Status:            req.Status,
		Priority:          req.Priority,
		Source:            req.Source,
		DueDate:           req.DueDate,
		StartDate:         req.StartDate,
		EstimatedDuration: req.EstimatedDuration,
		Progress:          req.Progress,
		Tags:              req.Tags,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toTaskResponse(task))
}

// GetTaskHandler handles GET /api/tasks/{id}.
type GetTaskHandler struct {
	svc TaskUseCases
}

// NewGetTaskHandler returns a GetTaskHandler backed by svc.
func NewGetTaskHandler(svc TaskUseCases) *GetTaskHandler {
	return &GetTaskHandler{svc: svc}
}

// Execute returns one task.
//
//	@Summary	Get task
//	@Tags		tasks
//	@Produce	json
//	@Param		id	path		string	true	"Task ID"	format(uuid)
//	@Success	200	{object}	TaskResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/tasks/{id} [get]
func (h *GetTaskHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.svc.Get(r.Context(), ownerID, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTaskResponse(task))
}

// ListTasksQuery holds the query parameters of GET /api/tasks.
type ListTasksQuery struct {
	Status     string `json:"status"       validate:"omitempty,oneof=todo in_progress waiting done cancelled"`
	Priority   string `json:"priority"     validate:"omitempty,oneof=low medium high urgent"`
	CategoryID string `json:"category_id"  validate:"omitempty,uuid"`
	Column     string `json:"board_column" validate:"omitempty,board_column"`
	DueSoon    int    `json:"due_soon"     validate:"gte=0,lte=365"`
	Overdue    bool   `json:"overdue"`
	Limit      int    `json:"limit"        validate:"gte=0,lte=200"` // matches MaxListLimit
	Offset     int    `json:"offset"       validate:"gte=0"`
}

// TaskListResponse is one page of tasks.
type TaskListResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Total  int            `json:"total"  example:"42"`
	Limit  int            `json:"limit"  example:"50"`
	Offset int            `json:"offset" example:"0"`
} // @name TaskListResponse

// ListTasksHandler handles GET /api/tasks.
type ListTasksHandler struct {
	svc TaskUseCases
}

// NewListTasksHandler returns a ListTasksHandler backed by svc.
func NewListTasksHandler(svc TaskUseCases) *ListTasksHandler {
	return &ListTasksHandler{svc: svc}
}

// Execute lists the owner's tasks. The total match count is also sent in
// X-Total-Count.
//
//	@Summary	List tasks
//	@Tags		tasks
//	@Produce	json
//	@Param		status			query		string	false	"Status filter"	Enums(todo, in_progress, waiting, done, cancelled)
//	@Param		priority		query		string	false	"Priority filter"	Enums(low, medium, high, urgent)
//	@Param		category_id		query		string	false	"Category filter"	format(uuid)
//	@Param		board_column	query		string	false	"Board column filter"
//	@Param		due_soon		query		int		false	"Open tasks due within this many days"
//	@Param		overdue			query		bool	false	"Only open tasks past their due date"
//	@Param		limit			query		int		false	"Page size (default 50, max 200)"
//	@Param		offset			query		int		false	"Page offset"
//	@Success	200				{object}	TaskListResponse
//	@Failure	400				{object}	ErrorResponse
//	@Failure	401				{object}	ErrorResponse
//	@Failure	422				{object}	ErrorResponse
//	@Router		/api/tasks [get]
func (h *ListTasksHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	q, ok := parseListQuery(w, r)
	if !ok {
		return
	}

	in := appsvcs.ListTasksInput{
		Status:   q.Status,
		Priority: q.Priority,
		Column:   q.Column,
		DueSoon:  q.DueSoon,
		Overdue:  q.Overdue,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.CategoryID != "" {
		id := uuid.MustParse(q.CategoryID)
		in.CategoryID = &id
	}

	tasks, total, err := h.svc.List(r.Context(), ownerID, in)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	limit := q.Limit
	if limit == 0 {
		limit = appsvcs.DefaultListLimit
	}
	resp := TaskListResponse{Tasks: make([]TaskResponse, len(tasks)), Total: total, Limit: limit, Offset: q.Offset}
	for i, t := range tasks {
		resp.Tasks[i] = toTaskResponse(t)
	}
	httpx.Page(w, total, resp)
}

func parseListQuery(w http.ResponseWriter, r *http.Request) (*ListTasksQuery, bool) {
	v := r.URL.Query()
	q := &ListTasksQuery{
		Status:     v.Get("status"),
		Priority:   v.Get("priority"),
		CategoryID: v.Get("category_id"),
		Column:     v.Get("board_column"),
	}

	ints := []struct {
		name string
		dst  *int
	}{{"due_soon", &q.DueSoon}, {"limit", &q.Limit}, {"offset", &q.Offset}}
	for _, p := range ints {
		raw := v.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid " + p.name})
			return nil, false
		}
		*p.dst = n
	}
	if raw := v.Get("overdue"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid overdue"})
			return nil, false
		}
		q.Overdue = b
	}

	if err := pkgvalidator.Validate(q); err != nil {
		httpx.ValidationError(w, pkgvalidator.FormatValidationErrors(err))
		return nil, false
	}
	return q, true
}

// PatchTaskRequest is the request body for PATCH /api/tasks/{id}. Absent
// fields are left unchanged; category_id, due_date and start_date accept null
// to clear them. Board placement changes go through the move endpoint.
type PatchTaskRequest struct {
	Title             *string             `json:"title"               validate:"omitempty,max=200"`
	Description       *string             `json:"description"         validate:"omitempty,max=5000"`
	CategoryID        Optional[uuid.UUID] `json:"category_id"         swaggertype:"string" format:"uuid"`
	Status            *string             `json:"status"              validate:"omitempty,oneof=todo in_progress waiting done cancelled"`
	Priority          *string             `json:"priority"            validate:"omitempty,oneof=low medium high urgent"`
	DueDate           Optional[time.Time] `json:"due_date"            swaggertype:"string" format:"date-time"`
	StartDate         Optional[time.Time] `json:"start_date"          swaggertype:"string" format:"date-time"`
	EstimatedDuration *int                `json:"estimated_duration"  validate:"omitempty,gte=0"`
	Progress          *int                `json:"progress_percentage" validate:"omitempty,gte=0,lte=100"`
	Tags              *[]string           `json:"tags"                validate:"omitempty,max=20,dive,tag"`
	BoardColumn       *string             `json:"board_column"        validate:"isdefault" swaggerignore:"true"`
	BoardPosition     *int                `json:"board_position"      validate:"isdefault" swaggerignore:"true"`
} // @name PatchTaskRequest

// PatchTaskHandler handles PATCH /api/tasks/{id}.
type PatchTaskHandler struct {
	svc TaskUseCases
}

// NewPatchTaskHandler returns a PatchTaskHandler backed by svc.
func NewPatchTaskHandler(svc TaskUseCases) *PatchTaskHandler {
	return &PatchTaskHandler{svc: svc}
}

// Execute updates the task's non-board fields.
//
//	@Summary		Update task
//	@Description	Updates any field except board_column and board_position. A status that disagrees with the task's mapped column is rejected.
//	@Tags			tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Task ID"	format(uuid)
//	@Param			request	body		PatchTaskRequest	true	"Fields to change"
//	@Success		200		{object}	TaskResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/tasks/{id} [patch]
func (h *PatchTaskHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[PatchTaskRequest](w, r)
	if !ok {
		return
	}

	task, err := h.svc.Patch(r.Context(), ownerID, id, appsvcs.PatchTaskInput{
		Title:             req.Title,
		Description:       req.Description,
		CategoryID:        req.CategoryID.ptr(),
		ClearCategory:     req.CategoryID.Null,
		Status:            req.Status,
		Priority:          req.Priority,
		DueDate:           req.DueDate.ptr(),
		ClearDueDate:      req.DueDate.Null,
		StartDate:         req.StartDate.ptr(),
		ClearStartDate:    req.StartDate.Null,
		EstimatedDuration: req.EstimatedDuration,
		Progress:          req.Progress,
		Tags:              req.Tags,
	})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTaskResponse(task))
}

// MoveTaskRequest is the request body for POST /api/tasks/{id}/move.
type MoveTaskRequest struct {
	BoardColumn   string `json:"board_column"   validate:"required,board_column" example:"in_progress"`
	BoardPosition *int   `json:"board_position" validate:"omitempty,gte=0"       example:"0"`
} // @name MoveTaskRequest

// MoveTaskHandler handles POST /api/tasks/{id}/move.
type MoveTaskHandler struct {
	svc TaskUseCases
}

// NewMoveTaskHandler returns a MoveTaskHandler backed by svc.
func NewMoveTaskHandler(svc TaskUseCases) *MoveTaskHandler {
	return &MoveTaskHandler{svc: svc}
}

// Execute moves a task on the board.
//
//	@Summary		Move task
//	@Description	Moves a task to a position in a column, shifting its neighbours. Without board_position the task goes to the end of the column; positions past the end are clamped.
//	@Tags			board
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Task ID"	format(uuid)
//	@Param			request	body		MoveTaskRequest	true	"Target column and position"
//	@Success		200		{object}	TaskResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"board changed concurrently; retry"
//	@Failure		422		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse	"storage failure; retry"
//	@Router			/api/tasks/{id}/move [post]
func (h *MoveTaskHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[MoveTaskRequest](w, r)
	if !ok {
		return
	}

	task, err := h.svc.Move(r.Context(), ownerID, id, req.BoardColumn, req.BoardPosition)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTaskResponse(task))
}

// DeleteTaskHandler handles DELETE /api/tasks/{id}.
type DeleteTaskHandler struct {
	svc TaskUseCases
}

// NewDeleteTaskHandler returns a DeleteTaskHandler backed by svc.
func NewDeleteTaskHandler(svc TaskUseCases) *DeleteTaskHandler {
	return &DeleteTaskHandler{svc: svc}
}

// Execute deletes a task and closes the gap in its column.
//
//	@Summary	Delete task
//	@Tags		tasks
//	@Param		id	path	string	true	"Task ID"	format(uuid)
//	@Success	204
//	@Failure	400	{object}	ErrorResponse
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	503	{object}	ErrorResponse
//	@Router		/api/tasks/{id} [delete]
func (h *DeleteTaskHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), ownerID, id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
