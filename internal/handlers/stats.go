package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"campusadvisor/internal/services"
)

// StatsHandler exposes operational counters and recent traces.
type StatsHandler struct {
	sessions *services.SessionManager
	tracer   *services.Tracer
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(sessions *services.SessionManager, tracer *services.Tracer) *StatsHandler {
	return &StatsHandler{sessions: sessions, tracer: tracer}
}

// Handle returns a point-in-time view of the service
// GET /api/stats
func (h *StatsHandler) Handle(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("spans", "20"))
	if err != nil || limit < 0 {
		limit = 20
	}

	return c.JSON(fiber.Map{
		"active_sessions":  h.sessions.Registry().Count(),
		"student_profiles": h.sessions.Memory().Profiles().Count(),
		"recent_spans":     h.tracer.Recent(limit),
	})
}
