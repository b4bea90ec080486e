package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/medbook_backend/config"
	"github.com/Alijeyrad/medbook_backend/internal/repo"
	"github.com/Alijeyrad/medbook_backend/internal/service/appointment"
	"github.com/Alijeyrad/medbook_backend/internal/service/auth"
	"github.com/Alijeyrad/medbook_backend/internal/service/notification"
	"github.com/Alijeyrad/medbook_backend/internal/service/scheduling"
	"github.com/Alijeyrad/medbook_backend/pkg/email"
	"github.com/Alijeyrad/medbook_backend/pkg/observability"
	pasetotoken "github.com/Alijeyrad/medbook_backend/pkg/paseto"
	"github.com/Alijeyrad/medbook_backend/pkg/sms"
	"github.com/Alijeyrad/medbook_backend/pkg/util/password"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideGridConfig,
		ProvidePasetoManager,
		ProvidePasswordHasher,
		ProvideSessionStore,
		ProvideAuthService,
		ProvideNotifier,
		ProvideDispatcher,
		ProvideAppointmentService,
	),
)

func ProvideGridConfig(cfg *config.Config) scheduling.Config {
	return scheduling.FromCentralConfig(cfg.Booking)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}

func ProvidePasswordHasher(cfg *config.Config) *password.Hasher {
	return password.NewHasher(password.FromCentralConfig(cfg.Password))
}

func ProvideSessionStore(rdb *redis.Client) auth.SessionStore {
	return auth.NewRedisSessions(rdb)
}

func ProvideAuthService(
	store repo.Store,
	sessions auth.SessionStore,
	paseto *pasetotoken.Manager,
	hasher *password.Hasher,
	cfg *config.Config,
) auth.Service {
	return auth.New(store, sessions, paseto, hasher, auth.FromCentralConfig(cfg.Authentication))
}

func ProvideNotifier(cfg *config.Config, grid scheduling.Config, mail *email.Client, smsCli *sms.Client) *notification.Notifier {
	return notification.NewNotifier(mail, smsCli, notification.NotifierConfigFromCentral(cfg, grid.Location), slog.Default())
}

func ProvideDispatcher(
	lc fx.Lifecycle,
	cfg *config.Config,
	nc *nats.Conn,
	notifier *notification.Notifier,
) notification.Dispatcher {
	n := cfg.Notifications

	if n.Transport == notification.TransportNATS && nc != nil {
		return notification.NewNATSDispatcher(nc, n.Subject, slog.Default())
	}

	d := notification.NewInProcessDispatcher(notifier, n.Workers, n.QueueSize, time.Duration(n.TimeoutSeconds)*time.Second, slog.Default())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			d.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining notification queue")
			return d.Close(ctx)
		},
	})
	return d
}

func ProvideAppointmentService(
	store repo.Store,
	grid scheduling.Config,
	cfg *config.Config,
	dispatcher notification.Dispatcher,
	metrics *observability.BookingMetrics,
) appointment.Service {
	return appointment.New(appointment.Options{
		Store:       store,
		Grid:        grid,
		Doctors:     cfg.Booking.Doctors,
		PhoneRegion: cfg.Booking.PhoneRegion,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      slog.Default(),
	})
}
