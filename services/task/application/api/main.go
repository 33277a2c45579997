package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/mindflow/backend/services/task/application/handlers"
)

// TaskRoutes registers the task, board and category endpoints on r. The
// caller mounts r behind the auth middleware.
func TaskRoutes(r chi.Router, tasks handlers.TaskUseCases, categories handlers.CategoryUseCases) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", handlers.NewListTasksHandler(tasks).Execute)
		r.Post("/", handlers.NewCreateTaskHandler(tasks).Execute)
		r.Get("/analytics", handlers.NewAnalyticsHandler(tasks).Execute)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.NewGetTaskHandler(tasks).Execute)
			r.Patch("/", handlers.NewPatchTaskHandler(tasks).Execute)
			r.Delete("/", handlers.NewDeleteTaskHandler(tasks).Execute)
			r.Post("/move", handlers.NewMoveTaskHandler(tasks).Execute)
		})
	})
	r.Route("/board", func(r chi.Router) {
		r.Get("/", handlers.NewGetBoardHandler(tasks).Execute)
		r.Post("/compact", handlers.NewCompactBoardHandler(tasks).Execute)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", handlers.NewListCategoriesHandler(categories).Execute)
		r.Post("/", handlers.NewCreateCategoryHandler(categories).Execute)
	})
}
