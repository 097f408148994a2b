package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"campusadvisor/internal/services"
)

// ChatHandler handles student query requests.
type ChatHandler struct {
	orchestrator *services.Orchestrator
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(orchestrator *services.Orchestrator) *ChatHandler {
	return &ChatHandler{orchestrator: orchestrator}
}

// ChatRequest is the request body for POST /api/chat.
type ChatRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

// Handle processes a student query end to end
// POST /api/chat
func (h *ChatHandler) Handle(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query is required",
		})
	}

	envelope := h.orchestrator.Handle(c.Context(), req.Query, req.SessionID)
	return c.JSON(envelope)
}
