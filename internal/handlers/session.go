package handlers

import (
	"github.com/gofiber/fiber/v2"

	"campusadvisor/internal/services"
)

// SessionHandler handles session lifecycle requests.
type SessionHandler struct {
	sessions *services.SessionManager
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions *services.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// CreateSessionRequest is the request body for POST /api/sessions.
type CreateSessionRequest struct {
	StudentID string `json:"student_id"`
}

// Create starts a new advisory session
// POST /api/sessions
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session := h.sessions.CreateSession(req.StudentID)
	return c.Status(fiber.StatusCreated).JSON(session)
}

// Get returns the session state
// GET /api/sessions/:id
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	session := h.sessions.GetSession(sessionID)
	if session == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}
	return c.JSON(session)
}

// Cleanup sweeps expired sessions on demand
// POST /api/sessions/cleanup
func (h *SessionHandler) Cleanup(c *fiber.Ctx) error {
	removed := h.sessions.CleanupExpiredSessions()
	return c.JSON(fiber.Map{
		"removed": removed,
	})
}
