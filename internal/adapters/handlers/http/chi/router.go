package chi

import (
	"encoding/json"
	"log/slog"
	"mediavault/internal/adapters/handlers/http/chi/v1/record"
	"mediavault/internal/adapters/handlers/http/chi/v1/upload"
	"mediavault/internal/adapters/metrics"
	"mediavault/internal/config"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds http.Handler with chi, prom may be nil
func NewRouter(logger *slog.Logger, uploadHandler *upload.HandlerV1, recordHandler *record.HandlerV1, prom *metrics.Prometheus, env config.Env, server config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	//handle requestID to facilitate debug (X-Request-ID)
	//It fetches from request if exists, or creates it
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	if prom != nil {
		r.Use(MetricsMiddleware(prom))
	}
	r.Use(middleware.Recoverer)
	if server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(server.RequestTimeout))
	}
	if server.MaxBodySize > 0 {
		r.Use(middleware.RequestSize(server.MaxBodySize))
	}

	if !env.IsProd() {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Link", "ETag"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/upload", uploadHandler.Routes())
		r.Mount("/files", recordHandler.Routes())
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	})

	if prom != nil {
		r.Method(http.MethodGet, "/metrics", prom.Handler())
	}

	return r
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
