package v1

import (
	"taskhub/internal/api/v1/handlers"
	"taskhub/internal/auth"
	"taskhub/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the /api/v1 surface. Literal paths are registered
// before their /:id siblings, and due_soon before the authenticated group.
func RegisterRoutes(app *fiber.App, h *handlers.Handler, tokens *auth.TokenManager) {
	api := app.Group("/api/v1")
	requireAuth := middleware.UseToken(tokens)

	// Auth
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", h.Register)
	authRoutes.Post("/login", h.Login)
	authRoutes.Post("/logout", h.Logout)
	authRoutes.Post("/token/refresh", h.RefreshToken)
	authRoutes.Get("/profile", requireAuth, h.Profile)
	authRoutes.Put("/profile", requireAuth, h.UpdateProfile)
	authRoutes.Patch("/profile", requireAuth, h.UpdateProfile)
	authRoutes.Post("/profile/avatar", requireAuth, h.UploadAvatar)
	authRoutes.Get("/users", requireAuth, h.ListUsers)

	// Public
	api.Get("/tasks/due_soon", h.DueSoon)

	// Task
	taskRoutes := api.Group("/tasks", requireAuth)
	taskRoutes.Get("/", h.ListTasks)
	taskRoutes.Post("/", h.CreateTask)
	taskRoutes.Get("/filter", h.FilterTasks)
	taskRoutes.Get("/assigned", h.AssignedTasks)
	taskRoutes.Get("/:id", h.GetTask)
	taskRoutes.Put("/:id", h.UpdateTask)
	taskRoutes.Patch("/:id", h.UpdateTask)
	taskRoutes.Delete("/:id", h.DeleteTask)
	taskRoutes.Patch("/:id/assign", h.AssignTask)
	taskRoutes.Get("/:id/comments", h.ListComments)
	taskRoutes.Post("/:id/comments", h.CreateComment)

	// Comment
	commentRoutes := api.Group("/comments", requireAuth)
	commentRoutes.Delete("/:id", h.DeleteComment)

	// Category
	categoryRoutes := api.Group("/categories", requireAuth)
	categoryRoutes.Get("/", h.ListCategories)
	categoryRoutes.Post("/", h.CreateCategory)
	categoryRoutes.Get("/:id", h.GetCategory)
	categoryRoutes.Put("/:id", h.UpdateCategory)
	categoryRoutes.Patch("/:id", h.UpdateCategory)
	categoryRoutes.Delete("/:id", h.DeleteCategory)
	categoryRoutes.Get("/:id/tasks", h.CategoryTasks)
}
