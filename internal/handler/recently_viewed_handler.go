package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/middleware"
	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/service"
)

// RecentlyViewedHandler serves the authenticated viewing-history routes.
type RecentlyViewedHandler struct {
	svc *service.UserService
}

// NewRecentlyViewedHandler creates a new RecentlyViewedHandler.
func NewRecentlyViewedHandler(svc *service.UserService) *RecentlyViewedHandler {
	return &RecentlyViewedHandler{svc: svc}
}

// Register mounts the recently-viewed routes on an authenticated group.
func (h *RecentlyViewedHandler) Register(api fiber.Router) {
	recent := api.Group("/recently-viewed")
	recent.Get("/", h.list)
	recent.Post("/", h.track)
	recent.Delete("/", h.clear)
	recent.Get("/progress/:mediaType/:mediaId", h.progress)
	recent.Delete("/:id", h.remove)
}

func (h *RecentlyViewedHandler) list(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)
	mediaType, ok := optionalMediaTypeQuery(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "mediaType must be 'movie' or 'tv'")
	}

	views, pagination, err := h.svc.RecentlyViewed(c.Context(), who.SubjectID, mediaType, listParams(c))
	if err != nil {
		return respondServiceError(c, err, "viewing history")
	}
	return respondList(c, "", views, pagination)
}

func (h *RecentlyViewedHandler) track(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	var req models.TrackViewRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	view, err := h.svc.TrackView(c.Context(), who.SubjectID, req)
	if err != nil {
		return respondServiceError(c, err, "view")
	}
	return c.Status(fiber.StatusCreated).JSON(DataResponse{Success: true, Data: view})
}

func (h *RecentlyViewedHandler) progress(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)
	mediaType, mediaID, ok := mediaKeyParams(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid media key")
	}

	progress, err := h.svc.Progress(c.Context(), who.SubjectID, mediaType, mediaID)
	if err != nil {
		return respondServiceError(c, err, "watch progress")
	}
	return respondData(c, "", progress)
}

func (h *RecentlyViewedHandler) remove(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	if err := h.svc.RemoveView(c.Context(), who.SubjectID, c.Params("id")); err != nil {
		return respondServiceError(c, err, "history entry")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *RecentlyViewedHandler) clear(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	removed, err := h.svc.ClearViews(c.Context(), who.SubjectID)
	if err != nil {
		return respondServiceError(c, err, "viewing history")
	}
	return c.JSON(fiber.Map{"success": true, "removed": removed})
}
