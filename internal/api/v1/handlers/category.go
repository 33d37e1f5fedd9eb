package handlers

import (
	"taskhub/internal/middleware"
	"taskhub/internal/service"
	"taskhub/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	var req service.CategoryInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "create category", err)
	}

	cat, err := h.Categories.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, "create category", err)
	}
	logger.AuditLogger.Info("Category created", zap.Int("category_id", cat.ID))
	return success(c, fiber.StatusCreated, "Category created successfully", cat)
}

func (h *Handler) ListCategories(c *fiber.Ctx) error {
	cats, err := h.Categories.List(c.UserContext())
	if err != nil {
		return fail(c, "list categories", err)
	}
	return success(c, fiber.StatusOK, "Categories retrieved successfully", cats)
}

func (h *Handler) GetCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	cat, err := h.Categories.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "get category", err)
	}
	return success(c, fiber.StatusOK, "Category retrieved successfully", cat)
}

func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	var req service.UpdateCategoryInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "update category", err)
	}
	if c.Method() == fiber.MethodPut && req.Name == nil {
		return fail(c, "update category", service.FieldError("name", "This field is required."))
	}

	cat, err := h.Categories.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, "update category", err)
	}
	return success(c, fiber.StatusOK, "Category updated successfully", cat)
}

func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.Categories.Delete(c.UserContext(), id); err != nil {
		return fail(c, "delete category", err)
	}
	logger.AuditLogger.Info("Category deleted", zap.Int("category_id", id))
	return c.SendStatus(fiber.StatusNoContent)
}

// CategoryTasks mengembalikan task milik user yang login pada kategori ini.
func (h *Handler) CategoryTasks(c *fiber.Ctx) error {
	me := middleware.Identity(c)
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	tasks, err := h.Tasks.ByCategory(c.UserContext(), me.UserID, id)
	if err != nil {
		return fail(c, "category tasks", err)
	}
	return success(c, fiber.StatusOK, "Tasks retrieved successfully", tasks)
}
