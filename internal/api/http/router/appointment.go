package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/medbook_backend/internal/api/http/handler"
)

func (r *Router) registerAppointmentRoutes(
	api fiber.Router,
	ah *handler.AppointmentHandler,
	authRequired fiber.Handler,
) {
	api.Get("/doctors", ah.Doctors)

	appts := api.Group("/appointments")

	// public booking surface
	appts.Post("/", ah.Book)
	appts.Get("/availability", ah.Availability)

	appts.Get("/", authRequired, ah.List)

	a := appts.Group("/:id")
	a.Get("/", authRequired, ah.Get)
	a.Put("/", authRequired, ah.Update)
	a.Patch("/status", authRequired, ah.UpdateStatus)
	a.Delete("/", authRequired, ah.Delete)
}
