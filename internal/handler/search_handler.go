package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/service"
)

// SearchHandler serves free-text search.
type SearchHandler struct {
	svc *service.SearchService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Register mounts the search route.
func (h *SearchHandler) Register(api fiber.Router) {
	api.Get("/search", h.search)
}

func (h *SearchHandler) search(c fiber.Ctx) error {
	// Both q and query are accepted; clients disagree on which one to send.
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		query = strings.TrimSpace(c.Query("query"))
	}
	if query == "" {
		return respondError(c, fiber.StatusBadRequest, "search query is required")
	}

	page, err := h.svc.Search(c.Context(), query, listParams(c))
	if err != nil {
		return respondServiceError(c, err, "search results")
	}
	return respondList(c, page.Source, page.Items, page.Pagination)
}
