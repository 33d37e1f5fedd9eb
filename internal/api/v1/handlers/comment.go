package handlers

import (
	"taskhub/internal/middleware"
	"taskhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListComments(c *fiber.Ctx) error {
	taskID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	comments, err := h.Comments.List(c.UserContext(), taskID)
	if err != nil {
		return fail(c, "list comments", err)
	}
	return success(c, fiber.StatusOK, "Comments retrieved successfully", comments)
}

func (h *Handler) CreateComment(c *fiber.Ctx) error {
	me := middleware.Identity(c)
	taskID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	var req service.CommentInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "create comment", err)
	}

	comment, err := h.Comments.Create(c.UserContext(), taskID, me, req)
	if err != nil {
		return fail(c, "create comment", err)
	}
	return success(c, fiber.StatusCreated, "Comment created successfully", comment)
}

func (h *Handler) DeleteComment(c *fiber.Ctx) error {
	me := middleware.Identity(c)
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.Comments.Delete(c.UserContext(), id, me); err != nil {
		return fail(c, "delete comment", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
