package config

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalYAML = `
database:
  driver: sqlite
  path: ":memory:"
authentication:
  paseto:
    local_key_hex: "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestReadConfig_Defaults(t *testing.T) {
	cfg, err := ReadConfig(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Booking.WorkStartHour != 9 || cfg.Booking.WorkEndHour != 17 {
		t.Errorf("work hours = %d-%d, want 9-17", cfg.Booking.WorkStartHour, cfg.Booking.WorkEndHour)
	}
	if cfg.Booking.IntervalMinutes != 30 {
		t.Errorf("interval = %d, want 30", cfg.Booking.IntervalMinutes)
	}
	if cfg.Booking.Timezone != "UTC" {
		t.Errorf("timezone = %q, want UTC", cfg.Booking.Timezone)
	}
	if len(cfg.Booking.Doctors) == 0 {
		t.Error("expected default doctors")
	}
	if cfg.Server.Cookie.Name != "medbook_session" {
		t.Errorf("cookie name = %q", cfg.Server.Cookie.Name)
	}
	if cfg.Notifications.Transport != "inprocess" {
		t.Errorf("transport = %q", cfg.Notifications.Transport)
	}
}

func TestReadConfig_EnvOverride(t *testing.T) {
	t.Setenv("MEDBOOK_BOOKING_INTERVAL_MINUTES", "15")
	t.Setenv("MEDBOOK_SERVER_PORT", "8088")

	cfg, err := ReadConfig(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	if cfg.Booking.IntervalMinutes != 15 {
		t.Errorf("interval = %d, want 15", cfg.Booking.IntervalMinutes)
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("port = %d, want 8088", cfg.Server.Port)
	}
}

func TestReadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "database:\n  driver: mysql\nauthentication:\n  paseto:\n    local_key_hex: \"00\"\n"},
		{"inverted hours", minimalYAML + "booking:\n  work_start_hour: 18\n  work_end_hour: 9\n"},
		{"zero interval", minimalYAML + "booking:\n  interval_minutes: 0\n"},
		{"bad timezone", minimalYAML + "booking:\n  timezone: Mars/Olympus\n"},
		{"bad transport", minimalYAML + "notifications:\n  transport: carrier-pigeon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadConfig(writeConfig(t, tt.body)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_MissingPasetoKey(t *testing.T) {
	cfg := Config{
		Database:      DatabaseConfig{Driver: "postgres"},
		Booking:       BookingConfig{WorkStartHour: 9, WorkEndHour: 17, IntervalMinutes: 30, Timezone: "UTC", Doctors: []string{"Dr. A"}},
		Notifications: NotificationsConfig{Transport: "inprocess"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without a paseto key")
	}

	cfg.Authentication.Paseto.LocalKeyHex = "00"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
