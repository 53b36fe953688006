package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/javariai/corpus/internal/api"
	"github.com/javariai/corpus/internal/api/handlers"
	"github.com/javariai/corpus/internal/api/middleware"
)

type RouterConfig struct {
	ImportJobHandler *handlers.ImportJobHandler
	RecordsHandler   *handlers.RecordsHandler
	StatsHandler     *handlers.StatsHandler
	VerifyHandler    *handlers.VerifyHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/import-jobs", func(r chi.Router) {
		r.Post("/", cfg.ImportJobHandler.Create)
		r.Get("/", cfg.ImportJobHandler.List)
		r.Get("/{id}", cfg.ImportJobHandler.Get)
	})

	r.Route("/knowledge", func(r chi.Router) {
		r.Get("/records", cfg.RecordsHandler.List)
		r.Get("/stats", cfg.StatsHandler.Get)
	})

	r.Post("/verify", cfg.VerifyHandler.Run)

	return r
}
