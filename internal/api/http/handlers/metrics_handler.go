package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/referral-service/internal/observability"
)

// MetricsHandler exposes the in-memory counters for operators.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler returns a new handler instance.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Snapshot handles GET /admin/metrics.
func (h *MetricsHandler) Snapshot(c *fiber.Ctx) error {
	requests, errs := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"requests": requests,
			"errors":   errs,
		},
	})
}
