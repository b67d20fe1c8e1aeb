package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/middleware"
	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/service"
)

// FavoritesHandler serves the authenticated favorites routes.
type FavoritesHandler struct {
	svc *service.UserService
}

// NewFavoritesHandler creates a new FavoritesHandler.
func NewFavoritesHandler(svc *service.UserService) *FavoritesHandler {
	return &FavoritesHandler{svc: svc}
}

// Register mounts the favorites routes on an authenticated group.
func (h *FavoritesHandler) Register(api fiber.Router) {
	favorites := api.Group("/favorites")
	favorites.Get("/", h.list)
	favorites.Post("/", h.add)
	favorites.Delete("/", h.clear)
	favorites.Get("/check/:mediaType/:mediaId", h.check)
	favorites.Delete("/media/:mediaType/:mediaId", h.removeByMedia)
	favorites.Delete("/:id", h.remove)
}

func (h *FavoritesHandler) list(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)
	mediaType, ok := optionalMediaTypeQuery(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "mediaType must be 'movie' or 'tv'")
	}

	favorites, pagination, err := h.svc.Favorites(c.Context(), who.SubjectID, mediaType, listParams(c))
	if err != nil {
		return respondServiceError(c, err, "favorites")
	}
	return respondList(c, "", favorites, pagination)
}

func (h *FavoritesHandler) add(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	var req models.AddFavoriteRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	fav, err := h.svc.AddFavorite(c.Context(), who.SubjectID, req)
	if err != nil {
		return respondServiceError(c, err, "favorite")
	}
	return c.Status(fiber.StatusCreated).JSON(DataResponse{Success: true, Data: fav})
}

func (h *FavoritesHandler) check(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)
	mediaType, mediaID, ok := mediaKeyParams(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid media key")
	}

	isFavorite, fav, err := h.svc.IsFavorite(c.Context(), who.SubjectID, mediaType, mediaID)
	if err != nil {
		return respondServiceError(c, err, "favorite")
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"isFavorite": isFavorite,
		"favorite":   fav,
	})
}

func (h *FavoritesHandler) remove(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	if err := h.svc.RemoveFavorite(c.Context(), who.SubjectID, c.Params("id")); err != nil {
		return respondServiceError(c, err, "favorite")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *FavoritesHandler) removeByMedia(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)
	mediaType, mediaID, ok := mediaKeyParams(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid media key")
	}

	if err := h.svc.RemoveFavoriteByMedia(c.Context(), who.SubjectID, mediaType, mediaID); err != nil {
		return respondServiceError(c, err, "favorite")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *FavoritesHandler) clear(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	removed, err := h.svc.ClearFavorites(c.Context(), who.SubjectID)
	if err != nil {
		return respondServiceError(c, err, "favorites")
	}
	return c.JSON(fiber.Map{"success": true, "removed": removed})
}

// mediaKeyParams reads the :mediaType/:mediaId pair shared by media-keyed
// routes.
func mediaKeyParams(c fiber.Ctx) (models.MediaType, int, bool) {
	mediaType, ok := mediaTypeParam(c)
	if !ok {
		return "", 0, false
	}
	mediaID, err := strconv.Atoi(c.Params("mediaId"))
	if err != nil || mediaID <= 0 {
		return "", 0, false
	}
	return mediaType, mediaID, true
}

// optionalMediaTypeQuery reads a ?mediaType= filter; empty means both.
func optionalMediaTypeQuery(c fiber.Ctx) (models.MediaType, bool) {
	mt := models.MediaType(c.Query("mediaType"))
	if mt == "" {
		return "", true
	}
	if mt != models.MediaTypeMovie && mt != models.MediaTypeTV {
		return "", false
	}
	return mt, true
}
