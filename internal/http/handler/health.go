package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"policyaudit/internal/framework"
	"policyaudit/internal/service"
)

// HealthCheck godoc
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// ReadinessCheck godoc
// @Summary Readiness probe; checks the upload archive when enabled
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /api/ready [get]
func ReadinessCheck(svc service.ComplianceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := svc.Ready(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ready"})
	}
}

// ListFrameworks godoc
// @Summary List selectable compliance frameworks
// @Tags frameworks
// @Produce json
// @Success 200 {object} map[string][]model.Framework
// @Router /api/frameworks [get]
func ListFrameworks(catalog *framework.Catalog) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"frameworks": catalog.List()})
	}
}
