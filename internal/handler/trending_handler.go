package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/service"
)

// TrendingHandler serves the ranked trending lists.
type TrendingHandler struct {
	svc *service.TrendingService
}

// NewTrendingHandler creates a new TrendingHandler.
func NewTrendingHandler(svc *service.TrendingService) *TrendingHandler {
	return &TrendingHandler{svc: svc}
}

// Register mounts the trending routes.
func (h *TrendingHandler) Register(api fiber.Router) {
	api.Get("/trending", h.trending(""))
	api.Get("/trending/movies", h.trending(models.MediaTypeMovie))
	api.Get("/trending/tv", h.trending(models.MediaTypeTV))
}

func (h *TrendingHandler) trending(mediaType models.MediaType) fiber.Handler {
	return func(c fiber.Ctx) error {
		window := models.TimeWindow(c.Query("timeWindow", string(models.WindowDay)))
		if !window.Valid() {
			return respondError(c, fiber.StatusBadRequest,
				"timeWindow must be 'day' or 'week'")
		}

		items, source, err := h.svc.Trending(c.Context(), window, mediaType,
			fiber.Query(c, "forceRefresh", false))
		if err != nil {
			return respondServiceError(c, err, "trending titles")
		}
		return respondData(c, source, items)
	}
}
