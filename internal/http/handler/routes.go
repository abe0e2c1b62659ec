package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"policyaudit/internal/framework"
	"policyaudit/internal/service"
)

// RegisterRoutes attaches the API routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, svc service.ComplianceService, catalog *framework.Catalog, logger *zap.Logger) {
	api := app.Group("/api")

	api.Get("/health", HealthCheck())
	api.Get("/ready", ReadinessCheck(svc))
	api.Get("/frameworks", ListFrameworks(catalog))
	api.Post("/analyze-document", AnalyzeDocument(svc, logger))
	api.Post("/assistant/chat", AssistantChat(svc, logger))
}
