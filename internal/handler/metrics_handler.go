package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/medready/enroll-advisor-api/pkg/errors"
	"github.com/medready/enroll-advisor-api/pkg/response"
)

type metricsProvider interface {
	Handler() http.Handler
}

// MetricsHandler serves the Prometheus scrape endpoint.
type MetricsHandler struct {
	metrics metricsProvider
}

// NewMetricsHandler constructs the handler.
func NewMetricsHandler(metrics metricsProvider) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Scrape handles GET /metrics.
func (h *MetricsHandler) Scrape(c *gin.Context) {
	if h.metrics == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
