package metrics

import (
	"mediavault/internal/core/domain"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus holds all Prometheus metrics for the service
type Prometheus struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec   // mediavault_http_requests_total{method,route,status}
	RequestDuration *prometheus.HistogramVec // mediavault_http_request_duration_seconds{method,route}
	SessionsTotal   *prometheus.CounterVec   // mediavault_upload_sessions_total{outcome}
	MediaFilesTotal *prometheus.CounterVec   // mediavault_media_files_processed_total{kind,outcome}
}

// NewPrometheus registers the metrics on a dedicated registry
func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Prometheus{
		registry: registry,
		RequestsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "mediavault_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		RequestDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mediavault_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		SessionsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "mediavault_upload_sessions_total",
			Help: "Multipart upload sessions by outcome",
		}, []string{"outcome"}),

		MediaFilesTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "mediavault_media_files_processed_total",
			Help: "Files handled by the media post processor by kind and outcome",
		}, []string{"kind", "outcome"}),
	}
}

// ObserveSession counts a session lifecycle event
func (p *Prometheus) ObserveSession(outcome string) {
	p.SessionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveMediaFile counts a processed media file
func (p *Prometheus) ObserveMediaFile(kind domain.FileType, outcome string) {
	p.MediaFilesTotal.WithLabelValues(string(kind), outcome).Inc()
}

// ObserveRequest records one HTTP request
func (p *Prometheus) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	p.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposes the registry
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Noop discards every observation
type Noop struct{}

func (Noop) ObserveSession(string)                    {}
func (Noop) ObserveMediaFile(domain.FileType, string) {}
