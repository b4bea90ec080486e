package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/medbook_backend/internal/repo"
	"github.com/Alijeyrad/medbook_backend/pkg/database"
	pasetotoken "github.com/Alijeyrad/medbook_backend/pkg/paseto"
	"github.com/Alijeyrad/medbook_backend/pkg/util/password"
)

type memSessions struct {
	mu sync.Mutex
	m  map[uuid.UUID]uuid.UUID
}

func newMemSessions() *memSessions {
	return &memSessions{m: map[uuid.UUID]uuid.UUID{}}
}

func (s *memSessions) Create(_ context.Context, sid, adminID uuid.UUID, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[sid] = adminID
	return nil
}

func (s *memSessions) Lookup(_ context.Context, sid uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.m[sid]
	if !ok {
		return uuid.Nil, ErrSessionNotFound
	}
	return id, nil
}

func (s *memSessions) Delete(_ context.Context, sid uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[sid]
	delete(s.m, sid)
	return ok, nil
}

func newTestAuth(t *testing.T) (Service, *memSessions, *pasetotoken.Manager) {
	t.Helper()

	db, err := database.New(database.SQLiteMemory())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	keys := pasetotoken.NewLocalKeys()
	tokens, err := pasetotoken.New(pasetotoken.Config{
		Mode:      keys.Mode,
		Issuer:    "medbook_backend",
		Audience:  "medbook-admin",
		AccessTTL: time.Hour,
	}, keys)
	require.NoError(t, err)

	hasher := password.NewHasher(password.Config{MemoryKiB: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	sessions := newMemSessions()

	return New(repo.New(db), sessions, tokens, hasher, Config{SessionTTL: time.Hour}), sessions, tokens
}

func TestCreateAdmin(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	a, err := svc.CreateAdmin(ctx, " Admin@Clinic.test ", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "admin@clinic.test", a.Email)
	assert.NotEqual(t, "s3cret-pass", a.PasswordHash)

	_, err = svc.CreateAdmin(ctx, "admin@clinic.test", "another-pass")
	assert.ErrorIs(t, err, ErrAdminExists)

	_, err = svc.CreateAdmin(ctx, "other@clinic.test", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.CreateAdmin(ctx, "not an email", "long-enough")
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestLoginAuthenticateLogout(t *testing.T) {
	svc, sessions, _ := newTestAuth(t)
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, "admin@clinic.test", "s3cret-pass")
	require.NoError(t, err)

	sess, err := svc.Login(ctx, "ADMIN@clinic.test", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, sess.AdminID)
	assert.NotEmpty(t, sess.Token)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	claims, err := svc.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.AdminID)
	assert.Equal(t, sess.SessionID, claims.SessionID)

	me, err := svc.Me(ctx, claims.AdminID)
	require.NoError(t, err)
	assert.Equal(t, "admin@clinic.test", me.Email)

	require.NoError(t, svc.Logout(ctx, sess.SessionID))
	assert.Empty(t, sessions.m)

	_, err = svc.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// a second logout is harmless
	assert.NoError(t, svc.Logout(ctx, sess.SessionID))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, sessions, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, "admin@clinic.test", "s3cret-pass")
	require.NoError(t, err)

	for _, tc := range []struct{ email, pw string }{
		{"admin@clinic.test", "wrong-pass"},
		{"nobody@clinic.test", "s3cret-pass"},
		{"", ""},
	} {
		_, err := svc.Login(ctx, tc.email, tc.pw)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "email=%q", tc.email)
	}
	assert.Empty(t, sessions.m)
}

func TestAuthenticate_Rejects(t *testing.T) {
	svc, sessions, tokens := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "v4.local.garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// well formed token without a live session
	tok, _, err := tokens.IssueAccess(uuid.New(), uuid.New())
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// session owned by someone else
	sid := uuid.New()
	require.NoError(t, sessions.Create(ctx, sid, uuid.New(), time.Hour))
	tok, _, err = tokens.IssueAccess(uuid.New(), sid)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
