package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/medbook_backend/internal/api/http/handler"
)

func (r *Router) registerAuthRoutes(api fiber.Router, ah *handler.AuthHandler, authRequired fiber.Handler) {
	admin := api.Group("/admin")
	admin.Post("/login", ah.Login)
	admin.Post("/logout", authRequired, ah.Logout)
	admin.Get("/me", authRequired, ah.Me)
}
