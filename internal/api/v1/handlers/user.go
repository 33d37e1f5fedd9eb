package handlers

import (
	"taskhub/internal/middleware"
	"taskhub/internal/service"
	"taskhub/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ListUsers mengembalikan user yang bisa di-assign ke task.
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Users.ListUsers(c.UserContext())
	if err != nil {
		return fail(c, "list users", err)
	}
	return success(c, fiber.StatusOK, "Users retrieved successfully", users)
}

// Profile mengembalikan profil user yang sedang login.
func (h *Handler) Profile(c *fiber.Ctx) error {
	me := middleware.Identity(c)
	u, err := h.Users.Profile(c.UserContext(), me.UserID)
	if err != nil {
		return fail(c, "get profile", err)
	}
	return success(c, fiber.StatusOK, "Profile retrieved successfully", u)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	me := middleware.Identity(c)

	var req service.ProfileInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "update profile", err)
	}

	u, err := h.Users.UpdateProfile(c.UserContext(), me.UserID, req)
	if err != nil {
		return fail(c, "update profile", err)
	}
	logger.AuditLogger.Info("Profile updated", zap.Int("user_id", me.UserID))
	return success(c, fiber.StatusOK, "Profile updated successfully", u)
}
