package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/referral-service/internal/repository"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	directory   *repository.Directory
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, directory *repository.Directory) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, directory: directory}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness. The only dependency is the in-process
// directory, so readiness reports its size rather than probing anything.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ready",
		"dependencies": fiber.Map{
			"directory": fiber.Map{
				"status": "ok",
				"users":  h.directory.Count(),
			},
		},
	})
}
