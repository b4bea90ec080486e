package app

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/medbook_backend/config"
	"github.com/Alijeyrad/medbook_backend/internal/repo"
	"github.com/Alijeyrad/medbook_backend/internal/service/notification"
	"github.com/Alijeyrad/medbook_backend/pkg/database"
	"github.com/Alijeyrad/medbook_backend/pkg/email"
	"github.com/Alijeyrad/medbook_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/medbook_backend/pkg/redis"
	"github.com/Alijeyrad/medbook_backend/pkg/sms"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideStore),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideEmailClient),
	fx.Provide(ProvideSMSClient),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideBookingMetrics),
	fx.Provide(ProvideNatsClient),
)

func ProvideStore(lc fx.Lifecycle, cfg *config.Config) (repo.Store, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			return db.Close()
		},
	})
	return repo.New(db), nil
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedisFromCentral(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideEmailClient(cfg *config.Config) (*email.Client, error) {
	return email.NewFromCentral(cfg.Email)
}

func ProvideSMSClient(cfg *config.Config) (*sms.Client, error) {
	return sms.NewFromConfig(cfg.SMS)
}

// ProvideNatsClient connects only when bookings travel over NATS; otherwise it
// provides a nil connection.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if cfg.Notifications.Transport != notification.TransportNATS {
		return nil, nil
	}

	nc, err := nats.Connect(cfg.Nats.URL, nats.Name(cfg.Observability.ServiceName))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}

// ProvideBookingMetrics records on the meter installed by ProvideOTel, or nowhere
// when observability is off.
func ProvideBookingMetrics(provider *observability.Provider) (*observability.BookingMetrics, error) {
	if provider == nil {
		return observability.NopBookingMetrics(), nil
	}
	return observability.NewBookingMetrics(provider.MeterProvider.Meter("github.com/Alijeyrad/medbook_backend/internal/service/appointment"))
}
