package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Alijeyrad/medbook_backend/config"
	"github.com/Alijeyrad/medbook_backend/internal/repo"
	"github.com/Alijeyrad/medbook_backend/pkg/email"
	"github.com/Alijeyrad/medbook_backend/pkg/sms"
)

// Handler reacts to a committed booking.
type Handler interface {
	Notify(ctx context.Context, a repo.Appointment)
}

type SMSSender interface {
	SendBookingReceived(ctx context.Context, t sms.BookingText) error
	IsEnabled() bool
}

type NotifierConfig struct {
	AppName       string
	ClinicAddress string
	Location      *time.Location
	// SendTimeout bounds each individual email or SMS.
	SendTimeout time.Duration
}

func NotifierConfigFromCentral(c *config.Config, loc *time.Location) NotifierConfig {
	return NotifierConfig{
		AppName:       c.Email.AppName,
		ClinicAddress: c.Email.ClinicAddress,
		Location:      loc,
		SendTimeout:   time.Duration(c.Notifications.TimeoutSeconds) * time.Second,
	}
}

// Notifier sends the clinic and patient emails and, when enabled, the patient SMS.
// Delivery failures are logged and never returned.
type Notifier struct {
	mail email.Sender
	sms  SMSSender
	cfg  NotifierConfig
	log  *slog.Logger
}

func NewNotifier(mail email.Sender, smsCli SMSSender, cfg NotifierConfig, log *slog.Logger) *Notifier {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{mail: mail, sms: smsCli, cfg: cfg, log: log.With("component", "notifier")}
}

func (n *Notifier) Notify(ctx context.Context, a repo.Appointment) {
	data := email.AppointmentEmailData{
		AppName:     n.cfg.AppName,
		PatientName: a.PatientName,
		Email:       a.Email,
		Phone:       a.Phone,
		Doctor:      a.Doctor,
		ScheduledAt: a.ScheduledAt,
		Notes:       a.Notes,
		Location:    n.cfg.Location,
	}

	if n.cfg.ClinicAddress != "" {
		n.sendEmail(ctx, a, "clinic", email.BuildClinicNotificationEmail(n.cfg.ClinicAddress, data))
	} else {
		n.log.Debug("clinic address not configured, skipping clinic email", "appointment_id", a.ID)
	}
	n.sendEmail(ctx, a, "patient", email.BuildPatientConfirmationEmail(data))

	if n.sms != nil && n.sms.IsEnabled() {
		sctx, cancel := context.WithTimeout(ctx, n.cfg.SendTimeout)
		defer cancel()
		err := n.sms.SendBookingReceived(sctx, sms.BookingText{
			Phone:       a.Phone,
			PatientName: a.PatientName,
			Doctor:      a.Doctor,
			When:        a.ScheduledAt.In(n.cfg.Location).Format("2006-01-02 15:04"),
		})
		if err != nil {
			n.log.Warn("booking sms failed", "appointment_id", a.ID, "err", err)
		}
	}
}

func (n *Notifier) sendEmail(ctx context.Context, a repo.Appointment, recipient string, m email.Message) {
	if n.mail == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, n.cfg.SendTimeout)
	defer cancel()

	err := n.mail.Send(ctx, m)
	var disabled email.ErrDisabled
	switch {
	case err == nil:
		n.log.Info("booking email sent", "appointment_id", a.ID, "recipient", recipient)
	case errors.As(err, &disabled):
		n.log.Debug("email disabled, skipping", "appointment_id", a.ID, "recipient", recipient)
	default:
		n.log.Warn("booking email failed", "appointment_id", a.ID, "recipient", recipient, "err", err)
	}
}
