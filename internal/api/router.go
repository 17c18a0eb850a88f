package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"rental-reconciliation/internal/logging"
)

// NewRouter creates the Chi router with all API routes mounted. runs may be
// nil, in which case the run archive endpoints answer 503.
func NewRouter(reconciler Reconciler, runs RunStore, logger zerolog.Logger) http.Handler {
	h := &Handlers{
		reconciler: reconciler,
		runs:       runs,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/reconcile", h.Reconcile)

		r.Get("/runs", h.ListRuns)
		r.Get("/runs/{id}", h.GetRun)
	})

	return r
}

// requestLogger puts a per-request logger in the context and logs completion.
func requestLogger(base zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base.With().Str("request_id", middleware.GetReqID(r.Context())).Logger()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), &logger)))

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Msg("request handled")
		})
	}
}
