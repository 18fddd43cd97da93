package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/recapbot/recapbot/internal/services"
)

type BufferHandler struct {
	services *services.Services
}

func NewBufferHandler(svc *services.Services) *BufferHandler {
	return &BufferHandler{
		services: svc,
	}
}

// GetStatus handles GET /api/v1/chats/:id/buffer
func (h *BufferHandler) GetStatus(c *fiber.Ctx) error {
	chatID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid chat ID",
		})
	}

	status := h.services.Buffers.Status(chatID)

	resp := fiber.Map{
		"chat_id":       chatID,
		"count":         status.Count,
		"capacity":      status.Capacity,
		"since_summary": status.SinceSummary,
	}
	if !status.LastSummaryAt.IsZero() {
		resp["last_summary_at"] = status.LastSummaryAt
	}

	return c.JSON(resp)
}
