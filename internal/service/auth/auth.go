package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Alijeyrad/medbook_backend/config"
	"github.com/Alijeyrad/medbook_backend/internal/repo"
	pasetotoken "github.com/Alijeyrad/medbook_backend/pkg/paseto"
	"github.com/Alijeyrad/medbook_backend/pkg/util/password"
)

const minPasswordLength = 8

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Session is a freshly opened admin session.
type Session struct {
	AdminID   uuid.UUID
	SessionID uuid.UUID
	Token     string
	ExpiresAt time.Time
}

type Config struct {
	// SessionTTL is how long Redis keeps the session. Tokens outliving it are refused.
	SessionTTL time.Duration
}

func FromCentralConfig(c config.AuthenticationConfig) Config {
	ttl := time.Duration(c.SessionTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return Config{SessionTTL: ttl}
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*pasetotoken.Claims, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	CreateAdmin(ctx context.Context, email, password string) (*repo.Admin, error)
	Me(ctx context.Context, adminID uuid.UUID) (*repo.Admin, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	store    repo.Store
	sessions SessionStore
	tokens   *pasetotoken.Manager
	hasher   *password.Hasher
	cfg      Config
	now      func() time.Time
}

func New(
	store repo.Store,
	sessions SessionStore,
	tokens *pasetotoken.Manager,
	hasher *password.Hasher,
	cfg Config,
) Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &authService{
		store:    store,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		cfg:      cfg,
		now:      time.Now,
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func (s *authService) Login(ctx context.Context, email, pw string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || pw == "" {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.store.FindAdminByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}

	if err := s.hasher.Verify(admin.PasswordHash, pw); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			slog.Error("login: stored password hash unreadable", "admin_id", admin.ID, "err", err)
		}
		return nil, ErrInvalidCredentials
	}

	sessionID := uuid.Must(uuid.NewV7())
	if err := s.sessions.Create(ctx, sessionID, admin.ID, s.cfg.SessionTTL); err != nil {
		return nil, err
	}

	token, exp, err := s.tokens.IssueAccess(admin.ID, sessionID)
	if err != nil {
		_, _ = s.sessions.Delete(ctx, sessionID)
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	slog.Info("admin logged in", "admin_id", admin.ID, "session_id", sessionID)
	return &Session{AdminID: admin.ID, SessionID: sessionID, Token: token, ExpiresAt: exp}, nil
}

// ---------------------------------------------------------------------------
// Authenticate
// ---------------------------------------------------------------------------

func (s *authService) Authenticate(ctx context.Context, token string) (*pasetotoken.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrUnauthorized
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if claims.Type != pasetotoken.TokenTypeAccess {
		return nil, ErrUnauthorized
	}

	owner, err := s.sessions.Lookup(ctx, claims.SessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if owner != claims.AdminID {
		return nil, ErrUnauthorized
	}

	return claims, nil
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	deleted, err := s.sessions.Delete(ctx, sessionID)
	if err != nil {
		return err
	}
	if !deleted {
		slog.Debug("logout: session not found (already expired)", "session_id", sessionID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Admin accounts
// ---------------------------------------------------------------------------

func (s *authService) CreateAdmin(ctx context.Context, email, pw string) (*repo.Admin, error) {
	email = normalizeEmail(email)
	if a, err := mail.ParseAddress(email); err != nil || a.Address != email {
		return nil, ErrInvalidEmail
	}
	if utf8.RuneCountInString(pw) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(pw)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	admin := &repo.Admin{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.InsertAdmin(ctx, admin); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrAdminExists
		}
		return nil, err
	}

	slog.Info("admin created", "admin_id", admin.ID, "email", admin.Email)
	return admin, nil
}

func (s *authService) Me(ctx context.Context, adminID uuid.UUID) (*repo.Admin, error) {
	admin, err := s.store.FindAdminByID(ctx, adminID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return admin, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
