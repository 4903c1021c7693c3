package api

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes wires the two frontend operations plus the health probe.
func SetupRoutes(app *fiber.App, h *Handler) {
	app.Get("/health", h.Health)
	app.Post("/embed", h.EmbedCodebase)
	app.Post("/analyze", h.AnalyzeQuery)
}
