package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Alijeyrad/medbook_backend/pkg/constants"
)

var GlobalConf *Config

func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	setDefaults(v)

	// Allow env vars to override config values.
	// e.g. MEDBOOK_DATABASE_HOST overrides database.host
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The config file is optional in container deployments.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "medbook.db")

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("server.port", 5000)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.cookie.name", "medbook_session")
	v.SetDefault("server.rate_limit.max", 20)
	v.SetDefault("server.rate_limit.expiration_seconds", 30)

	v.SetDefault("booking.work_start_hour", 9)
	v.SetDefault("booking.work_end_hour", 17)
	v.SetDefault("booking.interval_minutes", 30)
	v.SetDefault("booking.timezone", "UTC")
	v.SetDefault("booking.doctors", []string{"Dr. García", "Dr. López", "Dr. Martínez"})

	v.SetDefault("authentication.session_ttl_minutes", 24*60)
	v.SetDefault("authentication.paseto.mode", "local")
	v.SetDefault("authentication.paseto.issuer", constants.ServiceName)
	v.SetDefault("authentication.paseto.audience", "medbook-admin")
	v.SetDefault("authentication.paseto.access_ttl_minutes", 24*60)

	v.SetDefault("email.app_name", "Medical Booking")
	v.SetDefault("email.smtp.port", 587)
	v.SetDefault("email.smtp.timeout_seconds", 30)

	v.SetDefault("notifications.transport", "inprocess")
	v.SetDefault("notifications.workers", 2)
	v.SetDefault("notifications.queue_size", 256)
	v.SetDefault("notifications.subject", "medbook.appointment.booked")
	v.SetDefault("notifications.timeout_seconds", 30)

	v.SetDefault("nats.url", "nats://127.0.0.1:4222")

	v.SetDefault("password.memory_kib", 64*1024)
	v.SetDefault("password.iterations", 3)
	v.SetDefault("password.parallelism", 2)
	v.SetDefault("password.salt_length", 16)
	v.SetDefault("password.key_length", 32)

	v.SetDefault("observability.service_name", constants.ServiceName)
	v.SetDefault("observability.metrics.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output.stdout", true)
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}

	b := c.Booking
	if b.WorkStartHour < 0 || b.WorkEndHour > 24 || b.WorkStartHour >= b.WorkEndHour {
		return fmt.Errorf("booking hours must satisfy 0 <= work_start_hour < work_end_hour <= 24, got %d-%d", b.WorkStartHour, b.WorkEndHour)
	}
	if b.IntervalMinutes <= 0 || b.IntervalMinutes > 24*60 {
		return fmt.Errorf("booking.interval_minutes must be in (0, 1440], got %d", b.IntervalMinutes)
	}
	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("booking.timezone: %w", err)
	}
	if len(b.Doctors) == 0 {
		return errors.New("booking.doctors must list at least one practitioner")
	}

	switch c.Notifications.Transport {
	case "inprocess", "nats":
	default:
		return fmt.Errorf("notifications.transport must be inprocess or nats, got %q", c.Notifications.Transport)
	}

	p := c.Authentication.Paseto
	if p.LocalKeyHex == "" && p.SecretKeyHex == "" && p.PublicKeyHex == "" {
		return errors.New("authentication.paseto requires a key")
	}

	return nil
}
