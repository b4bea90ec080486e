package pasetotoken

import (
	"time"

	"github.com/google/uuid"
)

type TokenType string

const TokenTypeAccess TokenType = "access"

// Claims is the app-facing token payload.
type Claims struct {
	Type TokenType

	// AdminID is carried as "uid"; SessionID as "sid".
	AdminID   uuid.UUID
	SessionID uuid.UUID

	Issuer   string
	Audience string

	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
	TokenID   string // jti
	Subject   string
}

func (c *Claims) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
