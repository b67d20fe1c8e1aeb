package handler

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"movie-discovery-backend/internal/models"
	"movie-discovery-backend/internal/service"
)

// validate checks request bodies against their struct tags. One instance is
// shared; the validator caches struct metadata internally.
var validate = validator.New()

// DataResponse wraps a single resource.
type DataResponse struct {
	Success bool          `json:"success"`
	Source  models.Source `json:"source,omitempty"`
	Data    any           `json:"data"`
}

// ListResponse wraps a result list with paging metadata.
type ListResponse struct {
	Success    bool               `json:"success"`
	Source     models.Source      `json:"source,omitempty"`
	Results    any                `json:"results"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func respondData(c fiber.Ctx, source models.Source, data any) error {
	return c.JSON(DataResponse{Success: true, Source: source, Data: data})
}

func respondList(c fiber.Ctx, source models.Source, results any, pagination models.Pagination) error {
	return c.JSON(ListResponse{
		Success:    true,
		Source:     source,
		Results:    results,
		Pagination: &pagination,
	})
}

func respondError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Message: message})
}

// respondServiceError maps the service sentinels onto HTTP statuses; anything
// unrecognized is logged and returned as a 500 without leaking internals.
func respondServiceError(c fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, message+" not found")
	case errors.Is(err, service.ErrConflict):
		return respondError(c, fiber.StatusConflict, message+" already exists")
	case errors.Is(err, service.ErrForbidden):
		return respondError(c, fiber.StatusForbidden, "not allowed to modify this "+message)
	case errors.Is(err, service.ErrUpstream):
		slog.Error("provider request failed", "error", err)
		return respondError(c, fiber.StatusInternalServerError, "failed to retrieve "+message)
	default:
		slog.Error("request failed", "error", err)
		return respondError(c, fiber.StatusInternalServerError, "failed to process "+message)
	}
}

// bindBody decodes and validates a JSON request body, answering 400 itself
// when either step fails.
func bindBody(c fiber.Ctx, out any) (ok bool, err error) {
	if err := c.Bind().JSON(out); err != nil {
		return false, respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "validation failed",
			Error:   err.Error(),
		})
	}
	return true, nil
}

// listParams reads the shared paging query parameters.
func listParams(c fiber.Ctx) models.ListParams {
	params := models.ListParams{
		Page:         fiber.Query(c, "page", 1),
		Limit:        fiber.Query(c, "limit", 10),
		ForceRefresh: fiber.Query(c, "forceRefresh", false),
	}
	params.Validate()
	return params
}

// mediaTypeParam reads and validates a :mediaType path segment.
func mediaTypeParam(c fiber.Ctx) (models.MediaType, bool) {
	mt := models.MediaType(c.Params("mediaType"))
	if mt != models.MediaTypeMovie && mt != models.MediaTypeTV {
		return "", false
	}
	return mt, true
}
