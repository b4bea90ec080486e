package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/medbook_backend/config"
	"github.com/Alijeyrad/medbook_backend/internal/service/notification"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	Cfg      *config.Config
	NC       *nats.Conn
	Notifier *notification.Notifier
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		slog.Debug("workers: notifications are in-process, no NATS subscriptions")
		return
	}

	var subs []*nats.Subscription
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sub, err := startNotificationWorker(p.NC, p.Cfg.Notifications, p.Notifier)
			if err != nil {
				return err
			}
			subs = append(subs, sub)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Drain handled by ProvideNatsClient
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// notification_worker
// ---------------------------------------------------------------------------

// startNotificationWorker joins the notifier queue group so each booking is
// handled by exactly one running instance.
func startNotificationWorker(nc *nats.Conn, cfg config.NotificationsConfig, n *notification.Notifier) (*nats.Subscription, error) {
	subject := cfg.Subject
	if subject == "" {
		subject = notification.DefaultSubject
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	sub, err := nc.QueueSubscribe(subject, notification.DefaultQueueGroup,
		notification.BookedMessageHandler(n, timeout, slog.Default()))
	if err != nil {
		slog.Error("notification_worker: subscribe failed", "subject", subject, "err", err)
		return nil, err
	}

	slog.Info("notification_worker: subscribed", "subject", subject, "queue", notification.DefaultQueueGroup)
	return sub, nil
}
