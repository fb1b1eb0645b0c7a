package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Posts          *handlers.PostsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The authentication middleware runs on
// every request and only binds a principal; the RequireAuthenticated guards
// on write routes are what actually reject anonymous callers.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/validate", cfg.Auth.Validate)
	authGroup.Get("/me", cfg.Auth.Me)

	users := app.Group("/api/users")
	users.Get("", cfg.Users.List)
	users.Get("/username/:username", auth.RequireAuthenticated(), cfg.Users.GetByUsername)
	users.Get("/:id", cfg.Users.GetByID)
	users.Post("", auth.RequireAuthenticated(), cfg.Users.Create)

	posts := app.Group("/api/posts")
	posts.Get("", cfg.Posts.List)
	posts.Get("/search", cfg.Posts.Search)
	posts.Get("/author/:id", cfg.Posts.ListByAuthor)
	posts.Get("/:id", cfg.Posts.GetByID)
	posts.Post("", auth.RequireAuthenticated(), cfg.Posts.Create)
	posts.Put("/:id", auth.RequireAuthenticated(), cfg.Posts.Update)
	posts.Delete("/:id", auth.RequireAuthenticated(), cfg.Posts.Delete)
}
