package handlers

import (
	"errors"
	"strconv"

	"taskhub/internal/service"
	"taskhub/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler mengikat semua service yang dipakai oleh route API v1.
type Handler struct {
	Users      *service.UserService
	Tasks      *service.TaskService
	Categories *service.CategoryService
	Comments   *service.CommentService
	// UploadDir is the filesystem root served under /uploads.
	UploadDir string
}

func success(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"success": true,
		"status":  status,
		"data":    data,
	})
}

func failure(c *fiber.Ctx, status int, message string, fields map[string]string) error {
	body := fiber.Map{
		"message": message,
		"success": false,
		"status":  status,
	}
	if len(fields) > 0 {
		body["errors"] = fields
	}
	return c.Status(status).JSON(body)
}

func badRequest(c *fiber.Ctx, op string, err error) error {
	logger.ErrorLogger.Error("Bad request in "+op, zap.Error(err))
	return failure(c, fiber.StatusBadRequest, "Bad request", nil)
}

// fail maps a service error onto the response envelope. Unknown errors are 500.
func fail(c *fiber.Ctx, op string, err error) error {
	var se *service.Error
	if !errors.As(err, &se) {
		logger.ErrorLogger.Error("Error in "+op, zap.Error(err))
		return failure(c, fiber.StatusInternalServerError, "Internal server error", nil)
	}

	status := fiber.StatusInternalServerError
	switch se.Kind {
	case service.KindValidation:
		status = fiber.StatusBadRequest
		logger.AuditLogger.Warn("Validation error in "+op, zap.String("error", se.Error()))
	case service.KindNotFound:
		status = fiber.StatusNotFound
	case service.KindPermission:
		status = fiber.StatusForbidden
		logger.SecurityLogger.Warn("Permission denied in "+op, zap.String("error", se.Error()))
	case service.KindAuthentication:
		status = fiber.StatusUnauthorized
		logger.SecurityLogger.Warn("Authentication failed in "+op, zap.String("error", se.Error()))
	}
	return failure(c, status, se.Message, se.Fields)
}

// paramID parses a numeric path parameter. Non-numeric ids are reported as
// missing resources.
func paramID(c *fiber.Ctx, name string) (int, bool) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func notFound(c *fiber.Ctx) error {
	return failure(c, fiber.StatusNotFound, "Not found.", nil)
}

// parseOptional parses a JSON body if one was sent.
func parseOptional(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}
