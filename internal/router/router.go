package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskdeck/backend/api/handler"
)

type Handlers struct {
	Task   *apiHandler.TaskHandler
	Prefs  *apiHandler.PrefsHandler
	Events *apiHandler.EventsHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Task collection
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))
	r.POST("/api/v1/tasks/{id}/toggle", authMiddleware(handlers.Task.ToggleStatus))
	r.POST("/api/v1/tasks/{id}/subtasks/{subtaskID}/toggle", authMiddleware(handlers.Task.ToggleSubtask))
	r.GET("/api/v1/summary", authMiddleware(handlers.Task.GetSummary))

	// Change feed and preferences
	r.GET("/api/v1/events", authMiddleware(handlers.Events.Stream))
	r.GET("/api/v1/preferences", authMiddleware(handlers.Prefs.GetPreferences))
	r.PUT("/api/v1/preferences", authMiddleware(handlers.Prefs.UpdatePreferences))

	return r
}
