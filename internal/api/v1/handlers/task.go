package handlers

import (
	"taskhub/internal/middleware"
	"taskhub/internal/service"
	"taskhub/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Task handlers

type assignRequest struct {
	UserID *int `json:"user_id"`
}

// CreateTask adalah fungsi untuk membuat task baru milik user yang login
func (h *Handler) CreateTask(c *fiber.Ctx) error {
	me := middleware.Identity(c)

	var req service.CreateTaskInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "create task", err)
	}

	task, err := h.Tasks.Create(c.UserContext(), me.UserID, req)
	if err != nil {
		return fail(c, "create task", err)
	}
	logger.AuditLogger.Info("Task created", zap.Int("task_id", task.ID), zap.Int("user_id", me.UserID))
	return success(c, fiber.StatusCreated, "Task created successfully", task)
}

func (h *Handler) ListTasks(c *fiber.Ctx) error {
	me := middleware.Identity(c)
	tasks, err := h.Tasks.List(c.UserContext(), me.UserID)
	if err != nil {
		return fail(c, "list tasks", err)
	}
	return success(c, fiber.StatusOK, "Tasks retrieved successfully", tasks)
}

func (h *Handler) GetTask(c *fiber.Ctx) error {
	me := middleware.Identity(c)
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	task, err := h.Tasks.Get(c.UserContext(), id, me.UserID)
	if err != nil {
		return fail(c, "get task", err)
	}
	return success(c, fiber.StatusOK, "Task retrieved successfully", task)
}

// UpdateTask melayani PUT dan PATCH. PUT wajib menyertakan title.
func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	me := middleware.Identity(c)
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	var req service.UpdateTaskInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "update task", err)
	}
	if c.Method() == fiber.MethodPut && req.Title == nil {
		return fail(c, "update task", service.FieldError("title", "This field is required."))
	}

	task, err := h.Tasks.Update(c.UserContext(), id, me.UserID, req)
	if err != nil {
		return fail(c, "update task", err)
	}
	logger.AuditLogger.Info("Task updated", zap.Int("task_id", task.ID), zap.Int("user_id", me.UserID))
	return success(c, fiber.StatusOK, "Task updated successfully", task)
}

func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	me := middleware.Identity(c)
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	if err := h.Tasks.Delete(c.UserContext(), id, me.UserID); err != nil {
		return fail(c, "delete task", err)
	}
	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", id), zap.Int("user_id", me.UserID))
	return c.SendStatus(fiber.StatusNoContent)
}

// FilterTasks menerima query category_id, status, due_date dan due_within_24h.
func (h *Handler) FilterTasks(c *fiber.Ctx) error {
	me := middleware.Identity(c)
	tasks, err := h.Tasks.Filter(c.UserContext(), me.UserID, service.FilterParams{
		CategoryID:   c.Query("category_id"),
		Status:       c.Query("status"),
		DueDate:      c.Query("due_date"),
		DueWithin24h: c.Query("due_within_24h"),
	})
	if err != nil {
		return fail(c, "filter tasks", err)
	}
	return success(c, fiber.StatusOK, "Tasks retrieved successfully", tasks)
}

// DueSoon tidak memerlukan autentikasi dan mencakup task semua user.
func (h *Handler) DueSoon(c *fiber.Ctx) error {
	tasks, err := h.Tasks.DueSoon(c.UserContext())
	if err != nil {
		return fail(c, "due soon", err)
	}
	return success(c, fiber.StatusOK, "Tasks retrieved successfully", tasks)
}

func (h *Handler) AssignTask(c *fiber.Ctx) error {
	me := middleware.Identity(c)
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}

	var req assignRequest
	if err := parseOptional(c, &req); err != nil {
		return badRequest(c, "assign task", err)
	}

	task, err := h.Tasks.Assign(c.UserContext(), id, me, req.UserID)
	if err != nil {
		return fail(c, "assign task", err)
	}
	logger.AuditLogger.Info("Task assignment changed", zap.Int("task_id", id), zap.Int("by", me.UserID))
	return success(c, fiber.StatusOK, "Task assigned successfully", task)
}

func (h *Handler) AssignedTasks(c *fiber.Ctx) error {
	me := middleware.Identity(c)
	tasks, err := h.Tasks.AssignedTo(c.UserContext(), me.UserID)
	if err != nil {
		return fail(c, "assigned tasks", err)
	}
	return success(c, fiber.StatusOK, "Tasks retrieved successfully", tasks)
}
