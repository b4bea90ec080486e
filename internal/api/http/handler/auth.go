package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/medbook_backend/internal/service/auth"
	"github.com/Alijeyrad/medbook_backend/pkg/reqctx"
)

// CookieSettings shapes the session cookie.
type CookieSettings struct {
	Name   string
	Domain string
	Secure bool
}

type AuthHandler struct {
	svc    auth.Service
	cookie CookieSettings
}

func NewAuthHandler(svc auth.Service, cookie CookieSettings) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "medbook_session"
	}
	return &AuthHandler{svc: svc, cookie: cookie}
}

func mapAuthError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrUnauthorized):
		return unauthorized(c)
	default:
		return internalError(c, err)
	}
}

func (h *AuthHandler) setCookie(c fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.Domain,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// POST /api/v1/admin/login
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	sess, err := h.svc.Login(c.Context(), body.Email, body.Password)
	if err != nil {
		return mapAuthError(c, err)
	}

	h.setCookie(c, sess.Token, sess.ExpiresAt)
	return ok(c, fiber.Map{
		"admin_id":     sess.AdminID,
		"access_token": sess.Token,
		"expires_at":   sess.ExpiresAt,
	})
}

// POST /api/v1/admin/logout
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	id, found := reqctx.IdentityFromContext(c.Context())
	if !found {
		return unauthorized(c)
	}

	if err := h.svc.Logout(c.Context(), id.SessionID); err != nil {
		return mapAuthError(c, err)
	}

	h.setCookie(c, "", time.Unix(0, 0))
	return noContent(c)
}

// GET /api/v1/admin/me
func (h *AuthHandler) Me(c fiber.Ctx) error {
	id, found := reqctx.IdentityFromContext(c.Context())
	if !found {
		return unauthorized(c)
	}

	admin, err := h.svc.Me(c.Context(), id.AdminID)
	if err != nil {
		return mapAuthError(c, err)
	}

	return ok(c, fiber.Map{
		"id":         admin.ID,
		"email":      admin.Email,
		"created_at": admin.CreatedAt,
	})
}
