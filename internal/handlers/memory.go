package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"campusadvisor/internal/services"
)

// MemoryHandler exposes the long-term student memory over HTTP.
type MemoryHandler struct {
	memory *services.MemoryBank
}

// NewMemoryHandler creates a new memory handler.
func NewMemoryHandler(memory *services.MemoryBank) *MemoryHandler {
	return &MemoryHandler{memory: memory}
}

// GetContext returns the student's profile, recent interactions and
// context summary
// GET /api/students/:id/context
func (h *MemoryHandler) GetContext(c *fiber.Ctx) error {
	studentID := c.Params("id")
	if studentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student ID is required",
		})
	}
	return c.JSON(h.memory.GetStudentContext(studentID))
}

// InterestRequest is the request body for recording an interest.
type InterestRequest struct {
	Interest string `json:"interest"`
}

// AddInterest records a topic of interest on the student's profile
// POST /api/students/:id/interests
func (h *MemoryHandler) AddInterest(c *fiber.Ctx) error {
	studentID := c.Params("id")

	var req InterestRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Interest) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Interest is required",
		})
	}

	h.memory.AddInterest(studentID, req.Interest)
	return c.Status(fiber.StatusNoContent).Send(nil)
}

// ProgramViewRequest is the request body for recording a program view.
type ProgramViewRequest struct {
	Program string `json:"program"`
}

// AddProgramView records that the student looked at a program
// POST /api/students/:id/programs
func (h *MemoryHandler) AddProgramView(c *fiber.Ctx) error {
	studentID := c.Params("id")

	var req ProgramViewRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Program) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Program is required",
		})
	}

	h.memory.AddProgramView(studentID, req.Program)
	return c.Status(fiber.StatusNoContent).Send(nil)
}
