package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mindflow/backend/pkg/auth"
	appsvcs "github.com/mindflow/backend/services/task/application/services"
	taskdomain "github.com/mindflow/backend/services/task/domain"
	"github.com/mindflow/backend/services/task/domain/models"
	domainsvcs "github.com/mindflow/backend/services/task/domain/services"
)

type stubTasks struct {
	task *models.Task
	err  error

	owner    uuid.UUID
	id       uuid.UUID
	create   appsvcs.CreateTaskInput
	list     appsvcs.ListTasksInput
	patch    appsvcs.PatchTaskInput
	column   string
	position *int
	deleted  bool
}

func (s *stubTasks) Create(_ context.Context, owner uuid.UUID, in appsvcs.CreateTaskInput) (*models.Task, error) {
	s.owner, s.create = owner, in
	return s.task, s.err
}

func (s *stubTasks) Get(_ context.Context, owner, id uuid.UUID) (*models.Task, error) {
	s.owner, s.id = owner, id
	return s.task, s.err
}

func (s *stubTasks) List(_ context.Context, owner uuid.UUID, in appsvcs.ListTasksInput) ([]*models.Task, int, error) {
	s.owner, s.list = owner, in
	if s.err != nil {
		return nil, 0, s.err
	}
	return []*models.Task{s.task}, 7, nil
}

func (s *stubTasks) Patch(_ context.Context, owner, id uuid.UUID, in appsvcs.PatchTaskInput) (*models.Task, error) {
	s.owner, s.id, s.patch = owner, id, in
	return s.task, s.err
}

func (s *stubTasks) Move(_ context.Context, owner, id uuid.UUID, column string, position *int) (*models.Task, error) {
	s.owner, s.id, s.column, s.position = owner, id, column, position
	return s.task, s.err
}

func (s *stubTasks) Delete(_ context.Context, owner, id uuid.UUID) error {
	s.owner, s.id, s.deleted = owner, id, true
	return s.err
}

func (s *stubTasks) Board(context.Context, uuid.UUID) (*appsvcs.BoardView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &appsvcs.BoardView{
		Lanes: []appsvcs.BoardLane{
			{Column: "todo", Status: "todo", Cards: []appsvcs.BoardCard{{ID: s.task.ID, Title: "a", Position: 0}}},
			{Column: "someday", Cards: []appsvcs.BoardCard{}},
		},
		Total: 1,
	}, nil
}

func (s *stubTasks) Analytics(context.Context, uuid.UUID) (*appsvcs.Analytics, error) {
	return &appsvcs.Analytics{Total: 4, Completed: 1, CompletionRate: 25, ByStatus: map[string]int{"todo": 3, "done": 1}}, s.err
}

func (s *stubTasks) Compact(context.Context, uuid.UUID) (domainsvcs.CompactionResult, error) {
	return domainsvcs.CompactionResult{Partitions: 2, Moved: 1}, s.err
}

type stubCategories struct {
	created appsvcs.CreateCategoryInput
	err     error
}

func (s *stubCategories) Create(_ context.Context, owner uuid.UUID, in appsvcs.CreateCategoryInput) (*models.Category, error) {
	s.created = in
	if s.err != nil {
		return nil, s.err
	}
	return models.NewCategory(owner, in.Name, models.CategoryProject, in.Color)
}

func (s *stubCategories) List(_ context.Context, owner uuid.UUID) ([]*models.Category, error) {
	c, _ := models.NewCategory(owner, "Work", models.CategoryProject, "")
	return []*models.Category{c}, s.err
}

func sampleTask(owner uuid.UUID) *models.Task {
	task, _ := models.NewTask(owner, models.TaskTitle("Write report"), models.BoardColumn("in_progress"))
	task.Status = models.StatusInProgress
	task.BoardPosition = 2
	return task
}

type harness struct {
	router     http.Handler
	tasks      *stubTasks
	categories *stubCategories
	owner      uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	owner := uuid.New()
	h := &harness{tasks: &stubTasks{task: sampleTask(owner)}, categories: &stubCategories{}, owner: owner}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if req.Header.Get("X-Test-Anonymous") != "" {
					next.ServeHTTP(w, req)
					return
				}
				next.ServeHTTP(w, req.WithContext(auth.WithOwnerID(req.Context(), owner)))
			})
		})
		TaskRoutes(r, h.tasks, h.categories)
	})
	h.router = r
	return h
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return m
}

func TestCreateTask(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/tasks", `{"title":"Write report","board_column":"in_progress","priority":"high","tags":["work"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if h.tasks.owner != h.owner {
		t.Errorf("owner = %v, want %v", h.tasks.owner, h.owner)
	}
	if h.tasks.create.Column != "in_progress" || h.tasks.create.Priority != "high" || len(h.tasks.create.Tags) != 1 {
		t.Errorf("create input = %+v", h.tasks.create)
	}
	body := decode(t, w)
	if body["board_column"] != "in_progress" || body["board_position"] != float64(2) {
		t.Errorf("body = %v", body)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed", `{"title":`, http.StatusBadRequest},
		{"missing title", `{}`, http.StatusUnprocessableEntity},
		{"bad column", `{"title":"x","board_column":"In Progress"}`, http.StatusUnprocessableEntity},
		{"bad priority", `{"title":"x","priority":"p1"}`, http.StatusUnprocessableEntity},
		{"progress", `{"title":"x","progress_percentage":120}`, http.StatusUnprocessableEntity},
		{"comma tag", `{"title":"x","tags":["a,b"]}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if w := h.do(http.MethodPost, "/api/tasks", tt.body); w.Code != tt.code {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.code, w.Body.String())
			}
		})
	}
}

func TestGetTask(t *testing.T) {
	h := newHarness(t)
	id := h.tasks.task.ID

	w := h.do(http.MethodGet, "/api/tasks/"+id.String(), "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if h.tasks.id != id {
		t.Errorf("id = %v, want %v", h.tasks.id, id)
	}
	if tags, ok := decode(t, w)["tags"].([]any); !ok || len(tags) != 0 {
		t.Errorf("tags should be an empty array, got %v", decode(t, w)["tags"])
	}

	if w := h.do(http.MethodGet, "/api/tasks/not-a-uuid", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		code       int
		retryAfter string
	}{
		{taskdomain.ErrTaskNotFound, http.StatusNotFound, ""},
		{fmt.Errorf("%w: column %q requires status", taskdomain.ErrStatusConflict, "done"), http.StatusUnprocessableEntity, ""},
		{fmt.Errorf("%w: pq: deadlock", taskdomain.ErrBoardConflict), http.StatusConflict, "1"},
		{fmt.Errorf("%w: connection reset", taskdomain.ErrStorageFailure), http.StatusServiceUnavailable, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			h := newHarness(t)
			h.tasks.err = tt.err
			w := h.do(http.MethodPost, "/api/tasks/"+uuid.NewString()+"/move", `{"board_column":"done"}`)
			if w.Code != tt.code {
				t.Errorf("status = %d, want %d", w.Code, tt.code)
			}
			if got := w.Header().Get("Retry-After"); got != tt.retryAfter {
				t.Errorf("Retry-After = %q, want %q", got, tt.retryAfter)
			}
			if strings.Contains(w.Body.String(), "connection reset") || strings.Contains(w.Body.String(), "deadlock") {
				t.Errorf("driver error leaked: %s", w.Body.String())
			}
		})
	}
}

func TestListTasks(t *testing.T) {
	h := newHarness(t)
	cat := uuid.New()

	w := h.do(http.MethodGet, "/api/tasks?status=todo&priority=high&category_id="+cat.String()+"&due_soon=3&overdue=true&limit=10&offset=20", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	in := h.tasks.list
	if in.Status != "todo" || in.Priority != "high" || in.DueSoon != 3 || !in.Overdue || in.Limit != 10 || in.Offset != 20 {
		t.Errorf("list input = %+v", in)
	}
	if in.CategoryID == nil || *in.CategoryID != cat {
		t.Errorf("category = %v, want %v", in.CategoryID, cat)
	}
	if got := w.Header().Get("X-Total-Count"); got != "7" {
		t.Errorf("X-Total-Count = %q, want 7", got)
	}
	body := decode(t, w)
	if body["total"] != float64(7) || len(body["tasks"].([]any)) != 1 {
		t.Errorf("body = %v", body)
	}
}

func TestListTasks_BadQuery(t *testing.T) {
	tests := []struct {
		query string
		code  int
	}{
		{"limit=ten", http.StatusBadRequest},
		{"overdue=maybe", http.StatusBadRequest},
		{"limit=500", http.StatusUnprocessableEntity},
		{"status=paused", http.StatusUnprocessableEntity},
		{"category_id=123", http.StatusUnprocessableEntity},
		{"offset=-1", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			h := newHarness(t)
			if w := h.do(http.MethodGet, "/api/tasks?"+tt.query, ""); w.Code != tt.code {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.code, w.Body.String())
			}
		})
	}
}

func TestPatchTask(t *testing.T) {
	h := newHarness(t)
	id := uuid.New()

	w := h.do(http.MethodPatch, "/api/tasks/"+id.String(),
		`{"title":"renamed","category_id":null,"due_date":"2024-03-01T12:00:00Z","progress_percentage":30}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	in := h.tasks.patch
	if in.Title == nil || *in.Title != "renamed" {
		t.Errorf("title = %v", in.Title)
	}
	if !in.ClearCategory || in.CategoryID != nil {
		t.Errorf("category: clear=%v id=%v, want clear", in.ClearCategory, in.CategoryID)
	}
	want := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if in.DueDate == nil || !in.DueDate.Equal(want) || in.ClearDueDate {
		t.Errorf("due date = %v clear=%v", in.DueDate, in.ClearDueDate)
	}
	if in.StartDate != nil || in.ClearStartDate {
		t.Errorf("absent start_date touched: %v %v", in.StartDate, in.ClearStartDate)
	}
	if in.Progress == nil || *in.Progress != 30 {
		t.Errorf("progress = %v", in.Progress)
	}
}

func TestPatchTask_RejectsBoardFields(t *testing.T) {
	for _, body := range []string{`{"board_column":"done"}`, `{"board_position":0}`} {
		h := newHarness(t)
		if w := h.do(http.MethodPatch, "/api/tasks/"+uuid.NewString(), body); w.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: status = %d, want 422", body, w.Code)
		}
		if h.tasks.id != uuid.Nil {
			t.Errorf("%s: service was called", body)
		}
	}
}

func TestMoveTask(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		code     int
		column   string
		position *int
	}{
		{"with position", `{"board_column":"todo","board_position":0}`, http.StatusOK, "todo", new(int)},
		{"append", `{"board_column":"review"}`, http.StatusOK, "review", nil},
		{"missing column", `{"board_position":1}`, http.StatusUnprocessableEntity, "", nil},
		{"negative position", `{"board_column":"todo","board_position":-1}`, http.StatusUnprocessableEntity, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			w := h.do(http.MethodPost, "/api/tasks/"+uuid.NewString()+"/move", tt.body)
			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.code, w.Body.String())
			}
			if h.tasks.column != tt.column {
				t.Errorf("column = %q, want %q", h.tasks.column, tt.column)
			}
			if (h.tasks.position == nil) != (tt.position == nil) ||
				(tt.position != nil && *h.tasks.position != *tt.position) {
				t.Errorf("position = %v, want %v", h.tasks.position, tt.position)
			}
		})
	}
}

func TestDeleteTask(t *testing.T) {
	h := newHarness(t)
	w := h.do(http.MethodDelete, "/api/tasks/"+uuid.NewString(), "")
	if w.Code != http.StatusNoContent || !h.tasks.deleted {
		t.Errorf("status = %d, deleted = %v", w.Code, h.tasks.deleted)
	}
}

func TestGetBoard(t *testing.T) {
	h := newHarness(t)
	w := h.do(http.MethodGet, "/api/board", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	columns := body["columns"].([]any)
	if len(columns) != 2 {
		t.Fatalf("columns = %v", columns)
	}
	first := columns[0].(map[string]any)
	if first["board_column"] != "todo" || len(first["tasks"].([]any)) != 1 {
		t.Errorf("first column = %v", first)
	}
	second := columns[1].(map[string]any)
	if _, hasStatus := second["status"]; hasStatus {
		t.Errorf("unmapped column should have no status: %v", second)
	}
	if tasks, ok := second["tasks"].([]any); !ok || len(tasks) != 0 {
		t.Errorf("empty lane tasks = %v, want []", second["tasks"])
	}
}

func TestCompactAndAnalytics(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/board/compact", "")
	if w.Code != http.StatusOK {
		t.Fatalf("compact status = %d", w.Code)
	}
	if body := decode(t, w); body["partitions"] != float64(2) || body["moved"] != float64(1) {
		t.Errorf("compact body = %v", body)
	}

	w = h.do(http.MethodGet, "/api/tasks/analytics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("analytics status = %d", w.Code)
	}
	body := decode(t, w)
	if body["total_tasks"] != float64(4) || body["completion_rate"] != float64(25) {
		t.Errorf("analytics body = %v", body)
	}
}

func TestCategories(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/categories", `{"name":"Home","color":"#10B981","category_type":"area"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if h.categories.created.Type != "area" || h.categories.created.Color != "#10B981" {
		t.Errorf("create input = %+v", h.categories.created)
	}

	if w := h.do(http.MethodPost, "/api/categories", `{"name":"Home","color":"#FFF"}`); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("short color status = %d, want 422", w.Code)
	}

	h.categories.err = taskdomain.ErrCategoryAlreadyExists
	if w := h.do(http.MethodPost, "/api/categories", `{"name":"Home"}`); w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", w.Code)
	}

	h.categories.err = nil
	w = h.do(http.MethodGet, "/api/categories", "")
	var list []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("list = %s (%v)", w.Body.String(), err)
	}
	if list[0]["color"] != models.DefaultCategoryColor {
		t.Errorf("color = %v, want default", list[0]["color"])
	}
}

func TestRequiresOwner(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodGet, "/api/board", http.NoBody)
	req.Header.Set("X-Test-Anonymous", "1")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
