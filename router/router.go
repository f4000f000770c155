// Package router exposes the pipeline's external HTTP surface (spec.md
// §6): a trigger endpoint that enqueues a players-stage run, and a
// Prometheus metrics endpoint.
package router

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Trigger enqueues a players-stage task id and returns it immediately;
// the actual run happens out of band (spec.md §6 "Inbound HTTP trigger").
type Trigger interface {
	TriggerPlayersRun() string
}

// NewRouter returns a configured chi Router with request logging, panic
// recovery, the players-run trigger, and the Prometheus metrics endpoint.
func NewRouter(logger zerolog.Logger, trigger Trigger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Post("/pipelines/players/runs", func(w http.ResponseWriter, r *http.Request) {
		taskID := trigger.TriggerPlayersRun()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"task_id": taskID,
			"status":  "queued",
		})
	})

	return r
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(rw, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("req_id", chimw.GetReqID(r.Context())).
				Int("status", rw.Status()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
