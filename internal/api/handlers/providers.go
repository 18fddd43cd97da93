package handlers

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/recapbot/recapbot/internal/services"
)

type ProviderHandler struct {
	services *services.Services
}

func NewProviderHandler(svc *services.Services) *ProviderHandler {
	return &ProviderHandler{
		services: svc,
	}
}

// ListProviders handles GET /api/v1/providers
func (h *ProviderHandler) ListProviders(c *fiber.Ctx) error {
	active, model := h.services.ActiveProvider()

	ids := h.services.Providers.List()
	sort.Strings(ids)

	out := make([]fiber.Map, 0, len(ids))
	for _, id := range ids {
		entry := fiber.Map{
			"id":     id,
			"active": id == active,
		}
		if id == active {
			entry["model"] = model
		}
		out = append(out, entry)
	}

	return c.JSON(fiber.Map{
		"providers": out,
		"count":     len(out),
	})
}
