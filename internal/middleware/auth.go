package middleware

import (
	"strings"

	"taskhub/internal/auth"
	"taskhub/internal/models"
	"taskhub/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Keys used for the authenticated caller in fiber Locals.
const (
	LocalUserID = "userID"
	LocalRole   = "role"
)

// UseToken memvalidasi access token dari header Authorization: Bearer <token>.
func UseToken(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authentication credentials were not provided.")
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return unauthorized(c, "Invalid token format")
		}
		return authenticate(c, tokens, parts[1])
	}
}

// UseQueryToken is UseToken for clients that cannot set headers, such as
// browser websockets. The token is read from ?token=.
func UseQueryToken(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("token")
		if raw == "" {
			return unauthorized(c, "Authentication credentials were not provided.")
		}
		return authenticate(c, tokens, raw)
	}
}

func authenticate(c *fiber.Ctx, tokens *auth.TokenManager, raw string) error {
	claims, err := tokens.ParseAccess(raw)
	if err != nil {
		logger.SecurityLogger.Warn("Rejected token", zap.String("path", c.Path()), zap.Error(err))
		return unauthorized(c, "Given token not valid for any token type")
	}
	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalRole, claims.Role)
	return c.Next()
}

// Identity returns the caller stored by UseToken.
func Identity(c *fiber.Ctx) models.Identity {
	id, _ := c.Locals(LocalUserID).(int)
	role, _ := c.Locals(LocalRole).(string)
	return models.Identity{UserID: id, Role: role}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
		"success": false,
		"status":  fiber.StatusUnauthorized,
	})
}
