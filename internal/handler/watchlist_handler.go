package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/middleware"
	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/service"
)

// WatchlistHandler serves the authenticated watchlist routes.
type WatchlistHandler struct {
	svc *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(svc *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{svc: svc}
}

// Register mounts the watchlist routes on an authenticated group.
func (h *WatchlistHandler) Register(api fiber.Router) {
	lists := api.Group("/watchlists")
	lists.Get("/", h.list)
	lists.Post("/", h.create)
	lists.Get("/:id", h.get)
	lists.Put("/:id", h.update)
	lists.Delete("/:id", h.remove)
	lists.Post("/:id/items", h.addItem)
	lists.Delete("/:id/items/:itemId", h.removeItem)
}

func (h *WatchlistHandler) list(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	lists, err := h.svc.List(c.Context(), who.SubjectID)
	if err != nil {
		return respondServiceError(c, err, "watchlists")
	}
	return respondData(c, "", lists)
}

func (h *WatchlistHandler) create(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	var req models.CreateWatchlistRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	w, err := h.svc.Create(c.Context(), who.SubjectID, req)
	if err != nil {
		return respondServiceError(c, err, "watchlist")
	}
	return c.Status(fiber.StatusCreated).JSON(DataResponse{Success: true, Data: w})
}

func (h *WatchlistHandler) get(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	w, err := h.svc.Get(c.Context(), who.SubjectID, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err, "watchlist")
	}
	return respondData(c, "", w)
}

func (h *WatchlistHandler) update(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	var req models.CreateWatchlistRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	w, err := h.svc.Update(c.Context(), who.SubjectID, c.Params("id"), req)
	if err != nil {
		return respondServiceError(c, err, "watchlist")
	}
	return respondData(c, "", w)
}

func (h *WatchlistHandler) remove(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	if err := h.svc.Delete(c.Context(), who.SubjectID, c.Params("id")); err != nil {
		return respondServiceError(c, err, "watchlist")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *WatchlistHandler) addItem(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	var req models.AddWatchlistItemRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	item, err := h.svc.AddItem(c.Context(), who.SubjectID, c.Params("id"), req)
	if err != nil {
		return respondServiceError(c, err, "watchlist item")
	}
	return c.Status(fiber.StatusCreated).JSON(DataResponse{Success: true, Data: item})
}

func (h *WatchlistHandler) removeItem(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	if err := h.svc.RemoveItem(c.Context(), who.SubjectID, c.Params("id"), c.Params("itemId")); err != nil {
		return respondServiceError(c, err, "watchlist item")
	}
	return c.JSON(fiber.Map{"success": true})
}
