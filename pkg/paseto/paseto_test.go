package pasetotoken

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestManager(t *testing.T, keys Keys, now *time.Time) *Manager {
	t.Helper()
	m, err := New(Config{
		Mode:      keys.Mode,
		Issuer:    "medbook_backend",
		Audience:  "medbook-admin",
		AccessTTL: time.Hour,
		Now:       func() time.Time { return *now },
	}, keys)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	for _, keys := range []Keys{NewLocalKeys(), NewPublicKeys()} {
		t.Run(string(keys.Mode), func(t *testing.T) {
			now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
			m := newTestManager(t, keys, &now)

			admin, sid := uuid.New(), uuid.New()
			tok, exp, err := m.IssueAccess(admin, sid)
			if err != nil {
				t.Fatalf("IssueAccess() error = %v", err)
			}
			if !exp.Equal(now.Add(time.Hour)) {
				t.Errorf("expiry = %s, want %s", exp, now.Add(time.Hour))
			}

			claims, err := m.Verify(tok)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if claims.AdminID != admin || claims.SessionID != sid {
				t.Errorf("claims ids = %v/%v, want %v/%v", claims.AdminID, claims.SessionID, admin, sid)
			}
			if claims.Type != TokenTypeAccess {
				t.Errorf("type = %q, want access", claims.Type)
			}
		})
	}
}

func TestVerify_Expired(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, NewLocalKeys(), &now)

	tok, _, err := m.IssueAccess(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	now = now.Add(2 * time.Hour)
	_, err = m.Verify(tok)
	var invalid ErrInvalidToken
	if !errors.As(err, &invalid) {
		t.Fatalf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_WrongKeyAndGarbage(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	issuer := newTestManager(t, NewLocalKeys(), &now)
	other := newTestManager(t, NewLocalKeys(), &now)

	tok, _, err := issuer.IssueAccess(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	for _, in := range []string{tok, "", "v4.local.garbage"} {
		if _, err := other.Verify(in); err == nil {
			t.Errorf("Verify(%q) succeeded with foreign key", in)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	keys := NewLocalKeys()
	if _, err := New(Config{Mode: ModePublic, Issuer: "i", Audience: "a"}, keys); err == nil {
		t.Error("expected mode mismatch error")
	}
	if _, err := New(Config{Mode: ModeLocal, Audience: "a"}, keys); err == nil {
		t.Error("expected missing issuer error")
	}
	if _, err := LoadKeys(KeyStrings{Mode: ModeLocal}); err == nil {
		t.Error("expected missing key error")
	}
}

func TestGenerateKeyStrings_Loadable(t *testing.T) {
	for _, mode := range []Mode{ModeLocal, ModePublic} {
		ks, err := GenerateKeyStrings(mode)
		if err != nil {
			t.Fatalf("GenerateKeyStrings(%s) error = %v", mode, err)
		}
		if _, err := LoadKeys(ks); err != nil {
			t.Errorf("LoadKeys(generated %s) error = %v", mode, err)
		}
	}
	if _, err := GenerateKeyStrings("bogus"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
