package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "socialpulse/internal/errors"
)

// MetricRegistry exposes the metric definitions.
type MetricRegistry interface {
	Definitions() map[string]interface{}
}

// MetricsHandler serves the metric registry and the Prometheus scrape endpoint
type MetricsHandler struct {
	registry     MetricRegistry
	prometheus   http.Handler
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler creates a new metrics handler. prometheus may be nil when
// metrics export is disabled.
func NewMetricsHandler(registry MetricRegistry, prometheus http.Handler, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(nil, false)
	}
	return &MetricsHandler{
		registry:     registry,
		prometheus:   prometheus,
		errorHandler: errorHandler,
	}
}

// Routes sets up the metric registry routes
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/definitions", h.GetDefinitions)
	return r
}

// GetDefinitions handles GET /api/v1/metrics/definitions
func (h *MetricsHandler) GetDefinitions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.registry.Definitions())
}

// Prometheus handles GET /metrics
func (h *MetricsHandler) Prometheus(w http.ResponseWriter, r *http.Request) {
	if h.prometheus == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrServiceUnavailable.WithMessage("Metrics export is disabled"))
		return
	}
	h.prometheus.ServeHTTP(w, r)
}
