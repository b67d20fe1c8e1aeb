package handler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"movie-discovery-backend/internal/middleware"
	"movie-discovery-backend/internal/service"
)

// maxAvatarBytes caps avatar uploads at 2 MiB.
const maxAvatarBytes = 2 << 20

// avatarExtensions is the allow-list for uploaded avatar files.
var avatarExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UserHandler serves the authenticated profile routes.
type UserHandler struct {
	svc       *service.UserService
	uploadDir string
}

// NewUserHandler creates a new UserHandler. uploadDir is where avatar files
// land; cmd serves it statically under /uploads.
func NewUserHandler(svc *service.UserService, uploadDir string) *UserHandler {
	return &UserHandler{svc: svc, uploadDir: uploadDir}
}

// Register mounts the profile routes on an authenticated group.
func (h *UserHandler) Register(api fiber.Router) {
	users := api.Group("/users")
	users.Get("/me", h.me)
	users.Put("/me", h.updateProfile)
	users.Post("/me/avatar", h.uploadAvatar)
}

// me mirrors the verified identity into the users table and returns the
// account, so the first authenticated call is also the sign-up.
func (h *UserHandler) me(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	user, err := h.svc.EnsureUser(c.Context(), who.SubjectID, who.Email, who.Name)
	if err != nil {
		return respondServiceError(c, err, "profile")
	}
	return respondData(c, "", user)
}

func (h *UserHandler) updateProfile(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	var req struct {
		DisplayName string `json:"displayName" validate:"required,max=255"`
	}
	if ok, err := bindBody(c, &req); !ok {
		return err
	}

	user, err := h.svc.UpdateProfile(c.Context(), who.SubjectID, req.DisplayName)
	if err != nil {
		return respondServiceError(c, err, "profile")
	}
	return respondData(c, "", user)
}

func (h *UserHandler) uploadAvatar(c fiber.Ctx) error {
	who := middleware.CallerIdentity(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "avatar file is required")
	}
	if file.Size > maxAvatarBytes {
		return respondError(c, fiber.StatusBadRequest, "avatar must be 2MB or smaller")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !avatarExtensions[ext] {
		return respondError(c, fiber.StatusBadRequest,
			"avatar must be a jpg, jpeg, png or webp file")
	}

	filename := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		return respondServiceError(c, err, "avatar")
	}

	photoURL := fmt.Sprintf("/uploads/%s", filename)
	if err := h.svc.SetAvatar(c.Context(), who.SubjectID, photoURL); err != nil {
		return respondServiceError(c, err, "avatar")
	}
	return c.JSON(fiber.Map{"success": true, "photoUrl": photoURL})
}
