package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/medbook_backend/internal/service/auth"
	pasetotoken "github.com/Alijeyrad/medbook_backend/pkg/paseto"
	"github.com/Alijeyrad/medbook_backend/pkg/reqctx"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*pasetotoken.Claims, error)
}

// AuthRequired accepts the session cookie or a Bearer PASETO access token whose session
// is still live. On success, stores *pasetotoken.Claims in c.Locals(pasetotoken.CtxKeyClaims)
// and the admin identity in the request context.
func AuthRequired(authn Authenticator, cookieName string) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := pasetotoken.TokenFromRequest(c, cookieName)
		if token == "" {
			return unauthorized(c)
		}

		claims, err := authn.Authenticate(c.Context(), token)
		if errors.Is(err, auth.ErrUnauthorized) {
			return unauthorized(c)
		}
		if err != nil {
			reqctx.Logger(c.Context()).Error("authenticate request", "err", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}

		c.Locals(pasetotoken.CtxKeyClaims, claims)
		c.SetContext(reqctx.WithIdentity(c.Context(), reqctx.Identity{
			AdminID:   claims.AdminID,
			SessionID: claims.SessionID,
		}))
		return c.Next()
	}
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}
