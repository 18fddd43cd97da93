package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/recapbot/recapbot/internal/services"
)

type SummaryHandler struct {
	services *services.Services
}

func NewSummaryHandler(svc *services.Services) *SummaryHandler {
	return &SummaryHandler{
		services: svc,
	}
}

// ListSummaries handles GET /api/v1/users/:id/summaries
func (h *SummaryHandler) ListSummaries(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	summaries, err := h.services.ListSummaries(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch summaries",
		})
	}

	return c.JSON(fiber.Map{
		"summaries": summaries,
		"count":     len(summaries),
	})
}

// SearchSummaries handles GET /api/v1/users/:id/summaries/search?q=keyword
func (h *SummaryHandler) SearchSummaries(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter q is required",
		})
	}

	summaries, err := h.services.SearchSummaries(c.Context(), userID, keyword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search summaries",
		})
	}

	return c.JSON(fiber.Map{
		"keyword":   keyword,
		"summaries": summaries,
		"count":     len(summaries),
	})
}

// GetSummary handles GET /api/v1/summaries/:id
func (h *SummaryHandler) GetSummary(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Summary ID is required",
		})
	}

	summary, err := h.services.GetSummary(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrSummaryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Summary not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch summary",
		})
	}

	return c.JSON(summary)
}
