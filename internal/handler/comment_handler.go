package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/middleware"
	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/service"
)

// CommentHandler serves the authenticated comment routes.
type CommentHandler struct {
	svc *service.SocialService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(svc *service.SocialService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Register mounts the comment routes on an authenticated group. Routes with
// a literal tail segment go first so /:mediaType/:mediaId cannot shadow them.
func (h *CommentHandler) Register(api fiber.Router) {
	comments := api.Group("/comments")
	comments.Get("/:id/replies", h.replies)
	comments.Post("/:id/like", h.toggleLike)
	comments.Get("/:mediaType/:mediaId/stats", h.stats)
	comments.Get("/:mediaType/:mediaId", h.list)
	comments.Post("/:mediaType/:mediaId", h.create)
	comments.Put("/:id", h.update)
	comments.Delete("/:id", h.remove)
}

func (h *CommentHandler) list(c fiber.Ctx) error {
	mediaType, mediaID, ok := mediaKeyParams(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid media key")
	}

	comments, pagination, err := h.svc.Comments(c.Context(), mediaType, mediaID,
		listParams(c), c.Query("sort", "newest"))
	if err != nil {
		return respondServiceError(c, err, "comments")
	}
	return respondList(c, "", comments, pagination)
}

func (h *CommentHandler) stats(c fiber.Ctx) error {
	mediaType, mediaID, ok := mediaKeyParams(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid media key")
	}

	stats, err := h.svc.CommentStats(c.Context(), mediaType, mediaID)
	if err != nil {
		return respondServiceError(c, err, "comment stats")
	}
	return respondData(c, "", stats)
}

func (h *CommentHandler) create(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)
	mediaType, mediaID, ok := mediaKeyParams(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid media key")
	}

	var req models.CreateCommentRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	comment, err := h.svc.PostComment(c.Context(), who, mediaType, mediaID, req)
	if err != nil {
		return respondServiceError(c, err, "comment")
	}
	return c.Status(fiber.StatusCreated).JSON(DataResponse{Success: true, Data: comment})
}

func (h *CommentHandler) replies(c fiber.Ctx) error {
	replies, err := h.svc.Replies(c.Context(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err, "comment")
	}
	return respondData(c, "", replies)
}

func (h *CommentHandler) update(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	var req struct {
		Text string `json:"text" validate:"required,max=2000"`
	}
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	comment, err := h.svc.EditComment(c.Context(), who, c.Params("id"), req.Text)
	if err != nil {
		return respondServiceError(c, err, "comment")
	}
	return respondData(c, "", comment)
}

func (h *CommentHandler) remove(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	if err := h.svc.DeleteComment(c.Context(), who, c.Params("id")); err != nil {
		return respondServiceError(c, err, "comment")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *CommentHandler) toggleLike(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	liked, likes, err := h.svc.ToggleLike(c.Context(), who, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err, "comment")
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"liked":      liked,
		"likesCount": likes,
	})
}
