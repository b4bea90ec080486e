package password

import (
	"errors"
	"strings"
	"testing"
)

// Small parameters keep the suite fast; the encoding is the same.
func testHasher() *Hasher {
	return NewHasher(Config{MemoryKiB: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
}

func TestHash(t *testing.T) {
	hash, err := testHasher().Hash("correcthorsebatterystaple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("Hash() format invalid, got %s", hash)
	}
	if !strings.Contains(hash, "m=8192,t=1,p=1") {
		t.Errorf("Hash() params not encoded correctly: %s", hash)
	}
	if parts := strings.Split(hash, "$"); len(parts) != 6 {
		t.Errorf("Hash() expected 6 parts, got %d", len(parts))
	}
}

func TestVerify(t *testing.T) {
	h := testHasher()
	password := "mysecretpassword"

	hash, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
	}{
		{"correct password", hash, password, nil},
		{"wrong password", hash, "wrongpassword", ErrMismatch},
		{"empty password", hash, "", ErrMismatch},
		{"empty hash", "", password, ErrInvalidHash},
		{"random string", "randomgarbage", password, ErrInvalidHash},
		{"wrong algorithm", "$argon2i$v=19$m=65536,t=3,p=2$c29tZXNhbHQ$c29tZWhhc2g", password, ErrInvalidHash},
		{"malformed params", "$argon2id$v=19$invalid$c29tZXNhbHQ$c29tZWhhc2g", password, ErrInvalidHash},
		{"future version", "$argon2id$v=20$m=65536,t=3,p=2$c29tZXNhbHQ$c29tZWhhc2g", password, ErrIncompatibleVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h.Verify(tt.hash, tt.password); !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHashUniqueness(t *testing.T) {
	h := testHasher()
	hash1, _ := h.Hash("samepassword")
	hash2, _ := h.Hash("samepassword")

	if hash1 == hash2 {
		t.Error("Hash() should produce unique hashes for same password (different salts)")
	}
	if err := Verify(hash1, "samepassword"); err != nil {
		t.Errorf("hash1 verification failed: %v", err)
	}
	if err := Verify(hash2, "samepassword"); err != nil {
		t.Errorf("hash2 verification failed: %v", err)
	}
}

func TestNeedsRehash(t *testing.T) {
	h := testHasher()
	hash, _ := h.Hash("testpassword")
	if h.NeedsRehash(hash) {
		t.Error("NeedsRehash() should return false for the hasher's own params")
	}

	stronger := NewHasher(Config{MemoryKiB: 16 * 1024, Iterations: 1, Parallelism: 1})
	if !stronger.NeedsRehash(hash) {
		t.Error("NeedsRehash() should return true for different params")
	}
	if !h.NeedsRehash("garbage") {
		t.Error("NeedsRehash() should return true for an unreadable hash")
	}
}

func TestConfigToParams(t *testing.T) {
	p := Config{}.ToParams()
	if p.Memory != 64*1024 || p.Iterations != 3 || p.KeyLength != 32 {
		t.Errorf("zero Config should take defaults, got %+v", p)
	}

	low := DefaultConfig()
	low.LowMemoryMode = true
	if got := low.ToParams().Memory; got != 32*1024 {
		t.Errorf("LowMemoryMode memory = %d, want %d", got, 32*1024)
	}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"default length (0)", 0, 16},
		{"custom length 8", 8, 8},
		{"custom length 32", 32, 32},
		{"negative length", -5, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.length)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Generate(%d) length = %d, want %d", tt.length, len(got), tt.want)
			}
		})
	}
}
