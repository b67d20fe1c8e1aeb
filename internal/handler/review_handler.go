package handler

import (
	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/middleware"
	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/service"
)

// ReviewHandler serves the authenticated review routes.
type ReviewHandler struct {
	svc *service.SocialService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(svc *service.SocialService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// Register mounts the review routes on an authenticated group. Routes with a
// literal tail segment go first so /:mediaType/:mediaId cannot shadow them.
func (h *ReviewHandler) Register(api fiber.Router) {
	reviews := api.Group("/reviews")
	reviews.Post("/:id/vote", h.vote)
	reviews.Get("/:mediaType/:mediaId/stats", h.stats)
	reviews.Get("/:mediaType/:mediaId/me", h.mine)
	reviews.Get("/:mediaType/:mediaId", h.list)
	reviews.Post("/:mediaType/:mediaId", h.create)
	reviews.Put("/:id", h.update)
	reviews.Delete("/:id", h.remove)
}

func (h *ReviewHandler) list(c fiber.Ctx) error {
	mediaType, mediaID, ok := mediaKeyParams(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid media key")
	}

	sentiment := models.Sentiment(c.Query("sentiment"))
	if sentiment != "" && !validSentiment(sentiment) {
		return respondError(c, fiber.StatusBadRequest, "invalid sentiment filter")
	}

	reviews, pagination, err := h.svc.Reviews(c.Context(), mediaType, mediaID,
		listParams(c), sentiment, c.Query("sort", "newest"))
	if err != nil {
		return respondServiceError(c, err, "reviews")
	}
	return respondList(c, "", reviews, pagination)
}

func (h *ReviewHandler) stats(c fiber.Ctx) error {
	mediaType, mediaID, ok := mediaKeyParams(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid media key")
	}

	stats, err := h.svc.ReviewStats(c.Context(), mediaType, mediaID)
	if err != nil {
		return respondServiceError(c, err, "review stats")
	}
	return respondData(c, "", stats)
}

func (h *ReviewHandler) mine(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)
	mediaType, mediaID, ok := mediaKeyParams(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid media key")
	}

	review, err := h.svc.UserReview(c.Context(), who, mediaType, mediaID)
	if err != nil {
		return respondServiceError(c, err, "review")
	}
	return respondData(c, "", review)
}

func (h *ReviewHandler) create(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)
	mediaType, mediaID, ok := mediaKeyParams(c)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, "invalid media key")
	}

	var req models.CreateReviewRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	review, err := h.svc.PostReview(c.Context(), who, mediaType, mediaID, req)
	if err != nil {
		return respondServiceError(c, err, "review")
	}
	return c.Status(fiber.StatusCreated).JSON(DataResponse{Success: true, Data: review})
}

func (h *ReviewHandler) update(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	var req models.UpdateReviewRequest
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	review, err := h.svc.EditReview(c.Context(), who, c.Params("id"), req)
	if err != nil {
		return respondServiceError(c, err, "review")
	}
	return respondData(c, "", review)
}

func (h *ReviewHandler) remove(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	if err := h.svc.DeleteReview(c.Context(), who, c.Params("id")); err != nil {
		return respondServiceError(c, err, "review")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ReviewHandler) vote(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	var req struct {
		Helpful *bool `json:"helpful" validate:"required"`
	}
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	helpful, unhelpful, err := h.svc.VoteReview(c.Context(), who, c.Params("id"), *req.Helpful)
	if err != nil {
		return respondServiceError(c, err, "review")
	}
	return c.JSON(fiber.Map{
		"success":        true,
		"helpfulCount":   helpful,
		"unhelpfulCount": unhelpful,
	})
}

func validSentiment(s models.Sentiment) bool {
	switch s {
	case models.SentimentTerrible, models.SentimentBad, models.SentimentAverage,
		models.SentimentGood, models.SentimentGreat, models.SentimentExcellent:
		return true
	}
	return false
}
