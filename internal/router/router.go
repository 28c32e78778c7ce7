package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"go-workspace-dashboard/internal/config"
	"go-workspace-dashboard/internal/handler"
	"go-workspace-dashboard/internal/metrics"
	"go-workspace-dashboard/internal/middleware"
)

// streamIdleTimeout must stay above the SSE heartbeat interval.
const streamIdleTimeout = 45 * time.Second

type Handlers struct {
	Files    *handler.FileHandler
	Database *handler.DatabaseHandler
	Cron     *handler.CronHandler
	Process  *handler.ProcessHandler
	Logs     *handler.LogsHandler
	Events   *handler.EventsHandler
	Health   *handler.HealthHandler
}

func New(cfg *config.Config, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.ControlRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", h.Health.Health)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(rateLimitMiddleware.Handler)

		api.Group(func(api chi.Router) {
			api.Use(middleware.Timeout(cfg.RequestTimeout))

			api.Get("/workspaces", h.Files.Workspaces)
			api.Get("/files", h.Files.Tree)
			api.Get("/file", h.Files.Read)
			api.Post("/file", h.Files.Write)
			api.Delete("/file", h.Files.Delete)
			api.Get("/image", h.Files.Image)
			api.Get("/search", h.Files.Search)

			api.Get("/database", h.Database.List)
			api.Get("/database/{table}", h.Database.Rows)
			api.Get("/database/{table}/schema", h.Database.Schema)

			api.Get("/cron", h.Cron.List)
			api.Post("/cron/{id}/run", h.Cron.Run)
			api.Post("/cron/{id}/toggle", h.Cron.Toggle)

			api.Get("/processes", h.Process.List)
			api.Post("/process/kill", h.Process.Kill)
			api.Get("/system", h.Process.System)

			api.Get("/activity", h.Logs.Activity)
			api.Get("/logs", h.Logs.Logs)
		})

		api.Group(func(api chi.Router) {
			api.Use(middleware.StreamingTimeout(cfg.LogStreamMaxDuration, streamIdleTimeout))

			api.Get("/logs/stream", h.Logs.Stream)
			api.Get("/events", h.Events.Stream)
		})
	})

	return r
}
