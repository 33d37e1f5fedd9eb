package handlers

import (
	"taskhub/internal/service"
	"taskhub/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Register membuat akun baru dan langsung mengembalikan pasangan token.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "register", err)
	}

	res, err := h.Users.Register(c.UserContext(), req)
	if err != nil {
		return fail(c, "register", err)
	}
	return success(c, fiber.StatusCreated, "User created successfully", fiber.Map{
		"user":    res.User,
		"refresh": res.Tokens.Refresh,
		"access":  res.Tokens.Access,
	})
}

// fungsi login dengan menggunakan JSON Web Token (JWT)
func (h *Handler) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "login", err)
	}

	res, err := h.Users.Login(c.UserContext(), req)
	if err != nil {
		return fail(c, "login", err)
	}
	return success(c, fiber.StatusOK, "Login success", fiber.Map{
		"user":    res.User,
		"refresh": res.Tokens.Refresh,
		"access":  res.Tokens.Access,
	})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	var req refreshRequest
	if err := parseOptional(c, &req); err != nil {
		return badRequest(c, "logout", err)
	}

	if err := h.Users.Logout(c.UserContext(), req.Refresh); err != nil {
		return fail(c, "logout", err)
	}
	logger.AuditLogger.Info("Logout success")
	return success(c, fiber.StatusOK, "Successfully logged out.", nil)
}

func (h *Handler) RefreshToken(c *fiber.Ctx) error {
	var req refreshRequest
	if err := parseOptional(c, &req); err != nil {
		return badRequest(c, "refresh token", err)
	}

	access, err := h.Users.RefreshAccess(c.UserContext(), req.Refresh)
	if err != nil {
		return fail(c, "refresh token", err)
	}
	return success(c, fiber.StatusOK, "Token refreshed", fiber.Map{"access": access})
}
