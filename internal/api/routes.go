package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recapbot/recapbot/internal/api/handlers"
	"github.com/recapbot/recapbot/internal/services"
)

// SetupRoutes configures the operational HTTP surface: platform health
// probes plus a small read-only API over buffers and stored summaries.
func SetupRoutes(app *fiber.App, svc *services.Services) {
	ok := func(c *fiber.Ctx) error {
		return c.SendString("ok")
	}

	// Render and friends probe these paths to detect an open port.
	app.Get("/", ok)
	app.Get("/healthz", ok)
	app.Get("/livez", ok)
	app.Get("/readyz", ok)

	api := app.Group("/api/v1")

	summaryHandler := handlers.NewSummaryHandler(svc)
	api.Get("/users/:id/summaries", summaryHandler.ListSummaries)
	api.Get("/users/:id/summaries/search", summaryHandler.SearchSummaries)
	api.Get("/summaries/:id", summaryHandler.GetSummary)

	userHandler := handlers.NewUserHandler(svc)
	api.Get("/users/:id", userHandler.GetUser)

	bufferHandler := handlers.NewBufferHandler(svc)
	api.Get("/chats/:id/buffer", bufferHandler.GetStatus)

	providerHandler := handlers.NewProviderHandler(svc)
	api.Get("/providers", providerHandler.ListProviders)
}
