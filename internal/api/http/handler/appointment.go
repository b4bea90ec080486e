package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/medbook_backend/internal/service/appointment"
)

type AppointmentHandler struct {
	svc appointment.Service
}

func NewAppointmentHandler(svc appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	var (
		ve *appointment.ValidationError
		ce *appointment.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		return badRequest(c, ve.Reason)
	case errors.Is(err, appointment.ErrInvalidID):
		return badRequest(c, err.Error())
	case errors.As(err, &ce):
		return conflict(c, ce.Reason)
	case errors.Is(err, appointment.ErrNotFound):
		return notFound(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /appointments/availability?date=YYYY-MM-DD
func (h *AppointmentHandler) Availability(c fiber.Ctx) error {
	av, err := h.svc.Availability(c.Context(), c.Query("date"))
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, av)
}

// POST /appointments
func (h *AppointmentHandler) Book(c fiber.Ctx) error {
	var body appointment.BookRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appt, err := h.svc.Book(c.Context(), body)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return created(c, appt)
}

// GET /appointments
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	appts, err := h.svc.List(c.Context(), appointment.ListRequest{
		Doctor: c.Query("doctor"),
		Status: c.Query("status"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appts)
}

// GET /appointments/:id
func (h *AppointmentHandler) Get(c fiber.Ctx) error {
	id, err := appointment.ParseID(c.Params("id"))
	if err != nil {
		return mapAppointmentError(c, err)
	}

	appt, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}

// PUT /appointments/:id
func (h *AppointmentHandler) Update(c fiber.Ctx) error {
	id, err := appointment.ParseID(c.Params("id"))
	if err != nil {
		return mapAppointmentError(c, err)
	}

	var body appointment.UpdateRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appt, err := h.svc.Update(c.Context(), id, body)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}

// PATCH /appointments/:id/status
func (h *AppointmentHandler) UpdateStatus(c fiber.Ctx) error {
	id, err := appointment.ParseID(c.Params("id"))
	if err != nil {
		return mapAppointmentError(c, err)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appt, err := h.svc.UpdateStatus(c.Context(), id, body.Status)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, appt)
}

// DELETE /appointments/:id
func (h *AppointmentHandler) Delete(c fiber.Ctx) error {
	id, err := appointment.ParseID(c.Params("id"))
	if err != nil {
		return mapAppointmentError(c, err)
	}

	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapAppointmentError(c, err)
	}
	return noContent(c)
}

// GET /doctors
func (h *AppointmentHandler) Doctors(c fiber.Ctx) error {
	return ok(c, h.svc.Doctors())
}
