package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"campusadvisor/internal/services"
)

// CatalogHandler handles catalog search requests. The service may be
// nil when no catalog document is configured.
type CatalogHandler struct {
	catalog *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Search runs a keyword search over the catalog
// GET /api/catalog/search?q=...&collection=...&top_k=...
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	if h.catalog == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Catalog search is not configured",
		})
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter q is required",
		})
	}

	collection := c.Query("collection", "catalog")
	topK, err := strconv.Atoi(c.Query("top_k", "5"))
	if err != nil || topK <= 0 {
		topK = 5
	}

	results := h.catalog.Search(query, collection, topK)
	return c.JSON(fiber.Map{
		"query":      query,
		"collection": collection,
		"results":    results,
		"total":      len(results),
	})
}
