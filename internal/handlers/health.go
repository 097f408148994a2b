package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"campusadvisor/internal/services"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	sessions *services.SessionManager
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(sessions *services.SessionManager) *HealthHandler {
	return &HealthHandler{sessions: sessions}
}

// Handle responds with server health status
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":          "healthy",
		"active_sessions": h.sessions.Registry().Count(),
		"timestamp":       time.Now().Format(time.RFC3339),
	})
}
