package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/service"
)

// movieListings and tvListings map the route segments onto cache categories.
var movieListings = map[string]models.Category{
	"popular":     models.CategoryPopular,
	"top-rated":   models.CategoryTopRated,
	"upcoming":    models.CategoryUpcoming,
	"now-playing": models.CategoryNowPlaying,
}

var tvListings = map[string]models.Category{
	"popular":    models.CategoryPopular,
	"top-rated":  models.CategoryTopRated,
	"on-the-air": models.CategoryOnTheAir,
}

// CatalogHandler serves movie and TV listings, details and related titles.
type CatalogHandler struct {
	svc *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Register mounts the catalog routes on the /movies and /tv groups.
func (h *CatalogHandler) Register(api fiber.Router) {
	movies := api.Group("/movies")
	for segment, category := range movieListings {
		movies.Get("/"+segment, h.listing(models.MediaTypeMovie, category))
	}
	movies.Get("/:id", h.details(models.MediaTypeMovie))
	movies.Get("/:id/videos", h.videos(models.MediaTypeMovie))
	movies.Get("/:id/similar", h.related(models.MediaTypeMovie, models.CategorySimilar))
	movies.Get("/:id/recommended", h.related(models.MediaTypeMovie, models.CategoryRecommended))

	tv := api.Group("/tv")
	for segment, category := range tvListings {
		tv.Get("/"+segment, h.listing(models.MediaTypeTV, category))
	}
	tv.Get("/:id", h.details(models.MediaTypeTV))
	tv.Get("/:id/videos", h.videos(models.MediaTypeTV))
	tv.Get("/:id/similar", h.related(models.MediaTypeTV, models.CategorySimilar))
	tv.Get("/:id/recommended", h.related(models.MediaTypeTV, models.CategoryRecommended))
}

func (h *CatalogHandler) listing(mediaType models.MediaType, category models.Category) fiber.Handler {
	return func(c fiber.Ctx) error {
		page, err := h.svc.Listing(c.Context(), mediaType, category, listParams(c))
		if err != nil {
			return respondServiceError(c, err, string(category)+" listing")
		}
		return respondList(c, page.Source, page.Items, page.Pagination)
	}
}

func (h *CatalogHandler) details(mediaType models.MediaType) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return respondError(c, fiber.StatusBadRequest, "invalid media ID")
		}

		item, source, err := h.svc.Details(c.Context(), mediaType, id,
			fiber.Query(c, "forceRefresh", false))
		if err != nil {
			return respondServiceError(c, err, "media details")
		}
		return respondData(c, source, item)
	}
}

func (h *CatalogHandler) videos(mediaType models.MediaType) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return respondError(c, fiber.StatusBadRequest, "invalid media ID")
		}

		videos, source, err := h.svc.Videos(c.Context(), mediaType, id)
		if err != nil {
			return respondServiceError(c, err, "videos")
		}
		return respondData(c, source, videos)
	}
}

func (h *CatalogHandler) related(mediaType models.MediaType, category models.Category) fiber.Handler {
	return func(c fiber.Ctx) error {
		id, ok := idParam(c)
		if !ok {
			return respondError(c, fiber.StatusBadRequest, "invalid media ID")
		}

		page, err := h.svc.Related(c.Context(), mediaType, id, category, listParams(c))
		if err != nil {
			return respondServiceError(c, err, string(category)+" titles")
		}
		return respondList(c, page.Source, page.Items, page.Pagination)
	}
}

// idParam reads the numeric :id path segment.
func idParam(c fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
