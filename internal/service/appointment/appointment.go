package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/medbook_backend/internal/repo"
	"github.com/Alijeyrad/medbook_backend/internal/service/notification"
	"github.com/Alijeyrad/medbook_backend/internal/service/scheduling"
	"github.com/Alijeyrad/medbook_backend/pkg/observability"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type BookRequest struct {
	PatientName string `json:"patientName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Date        string `json:"date"`
	Doctor      string `json:"doctor"`
	Notes       string `json:"notes"`
}

// UpdateRequest replaces every editable field of an appointment. Status is untouched.
type UpdateRequest BookRequest

// ListRequest holds raw query values. From is inclusive and To exclusive; a bare
// YYYY-MM-DD for To covers that whole day.
type ListRequest struct {
	Doctor string
	Status string
	From   string
	To     string
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	Availability(ctx context.Context, date string) (*Availability, error)
	Book(ctx context.Context, req BookRequest) (*repo.Appointment, error)
	Get(ctx context.Context, id uuid.UUID) (*repo.Appointment, error)
	List(ctx context.Context, req ListRequest) ([]repo.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*repo.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*repo.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Doctors() []string
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type Options struct {
	Store       repo.Store
	Grid        scheduling.Config
	Doctors     []string
	PhoneRegion string
	Dispatcher  notification.Dispatcher
	Metrics     *observability.BookingMetrics
	Now         func() time.Time
	Logger      *slog.Logger
}

type service struct {
	store       repo.Store
	grid        scheduling.Config
	doctorList  []string
	doctors     map[string]struct{}
	phoneRegion string
	dispatcher  notification.Dispatcher
	metrics     *observability.BookingMetrics
	now         func() time.Time
	log         *slog.Logger
}

func New(opts Options) Service {
	s := &service{
		store:       opts.Store,
		grid:        opts.Grid,
		doctors:     make(map[string]struct{}, len(opts.Doctors)),
		phoneRegion: strings.ToUpper(strings.TrimSpace(opts.PhoneRegion)),
		dispatcher:  opts.Dispatcher,
		metrics:     opts.Metrics,
		now:         opts.Now,
		log:         opts.Logger,
	}
	for _, d := range opts.Doctors {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, dup := s.doctors[d]; !dup {
			s.doctors[d] = struct{}{}
			s.doctorList = append(s.doctorList, d)
		}
	}
	if s.dispatcher == nil {
		s.dispatcher = notification.Nop()
	}
	if s.metrics == nil {
		s.metrics = observability.NopBookingMetrics()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log = s.log.With("component", "appointment")
	return s
}

func (s *service) Doctors() []string {
	out := make([]string, len(s.doctorList))
	copy(out, s.doctorList)
	return out
}

func (s *service) Availability(ctx context.Context, date string) (*Availability, error) {
	if strings.TrimSpace(date) == "" {
		return nil, ErrDateRequired
	}
	day, err := s.grid.ParseDay(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	from, to := s.grid.DayBounds(day)
	rows, err := s.store.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list day appointments: %w", err)
	}

	held := make(map[int64]time.Time, len(rows))
	for _, r := range rows {
		if !r.Status.Active() {
			continue
		}
		t := scheduling.Normalize(r.ScheduledAt)
		held[t.Unix()] = t
	}

	booked := make([]time.Time, 0, len(held))
	for _, t := range held {
		booked = append(booked, t)
	}
	sort.Slice(booked, func(i, j int) bool { return booked[i].Before(booked[j]) })

	grid := s.grid.Generate(day)
	available := make([]time.Time, 0, len(grid))
	for _, t := range grid {
		if _, taken := held[t.Unix()]; !taken {
			available = append(available, t)
		}
	}

	return &Availability{Date: day, AvailableSlots: available, BookedSlots: booked}, nil
}

func (s *service) Book(ctx context.Context, req BookRequest) (*repo.Appointment, error) {
	d, err := s.validate(req, nil)
	if err != nil {
		return nil, s.rejected(ctx, err)
	}

	if err := s.ensureFree(ctx, d.At, uuid.Nil); err != nil {
		return nil, s.rejected(ctx, err)
	}

	now := s.now().UTC()
	a := &repo.Appointment{
		PatientName: d.PatientName,
		Email:       d.Email,
		Phone:       d.Phone,
		ScheduledAt: d.At,
		Doctor:      d.Doctor,
		Notes:       d.Notes,
		Status:      repo.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, a); err != nil {
		if errors.Is(err, repo.ErrSlotTaken) {
			return nil, s.rejected(ctx, ErrSlotTaken)
		}
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	s.metrics.Booked(ctx, a.Doctor)
	s.log.Info("appointment booked",
		"appointment_id", a.ID,
		"doctor", a.Doctor,
		"scheduled_at", a.ScheduledAt.Format(time.RFC3339),
	)

	s.dispatcher.AppointmentBooked(ctx, *a)
	return a, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*repo.Appointment, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return a, nil
}

func (s *service) List(ctx context.Context, req ListRequest) ([]repo.Appointment, error) {
	f := repo.ListFilter{Doctor: strings.TrimSpace(req.Doctor)}

	if raw := strings.TrimSpace(req.Status); raw != "" {
		st, err := parseStatus(raw)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	if raw := strings.TrimSpace(req.From); raw != "" {
		t, err := s.grid.ParseTimestamp(raw)
		if err != nil {
			return nil, ErrInvalidDate
		}
		f.From = t
	}
	if raw := strings.TrimSpace(req.To); raw != "" {
		t, err := s.grid.ParseTimestamp(raw)
		if err != nil {
			return nil, ErrInvalidDate
		}
		if _, err := time.Parse(time.DateOnly, raw); err == nil {
			_, t = s.grid.DayBounds(t)
		}
		f.To = t
	}

	out, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*repo.Appointment, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	d, err := s.validate(BookRequest(req), &cur.ScheduledAt)
	if err != nil {
		return nil, err
	}

	if !d.At.Equal(cur.ScheduledAt) && cur.Status.Active() {
		if err := s.ensureFree(ctx, d.At, cur.ID); err != nil {
			return nil, err
		}
	}

	upd := *cur
	upd.PatientName = d.PatientName
	upd.Email = d.Email
	upd.Phone = d.Phone
	upd.ScheduledAt = d.At
	upd.Doctor = d.Doctor
	upd.Notes = d.Notes
	upd.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, &upd); err != nil {
		return nil, s.storeWriteError("update appointment", err)
	}

	s.log.Info("appointment updated", "appointment_id", upd.ID)
	return &upd, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*repo.Appointment, error) {
	st, err := parseStatus(status)
	if err != nil {
		return nil, err
	}

	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Status == st {
		return cur, nil
	}

	// A cancelled appointment gave its slot away; taking it back needs the slot free.
	if !cur.Status.Active() && st.Active() {
		if err := s.ensureFree(ctx, cur.ScheduledAt, cur.ID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	if err := s.store.UpdateStatus(ctx, cur.ID, st, now); err != nil {
		return nil, s.storeWriteError("update appointment status", err)
	}

	s.log.Info("appointment status changed", "appointment_id", cur.ID, "from", cur.Status, "to", st)
	cur.Status = st
	cur.UpdatedAt = now
	return cur, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete appointment: %w", err)
	}
	s.log.Info("appointment deleted", "appointment_id", id)
	return nil
}

// ensureFree fails with ErrSlotTaken when an active appointment other than self holds at.
func (s *service) ensureFree(ctx context.Context, at time.Time, self uuid.UUID) error {
	held, err := s.store.FindActiveAt(ctx, at)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check slot: %w", err)
	case held.ID == self:
		return nil
	default:
		return ErrSlotTaken
	}
}

func (s *service) storeWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repo.ErrSlotTaken):
		return ErrSlotTaken
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// rejected counts a refused booking and passes err through.
func (s *service) rejected(ctx context.Context, err error) error {
	var (
		ve *ValidationError
		ce *ConflictError
	)
	switch {
	case errors.As(err, &ce):
		s.metrics.Conflict(ctx)
	case errors.As(err, &ve):
		s.metrics.Rejected(ctx, ve.Reason)
	}
	return err
}

func parseStatus(raw string) (repo.Status, error) {
	st := repo.Status(strings.ToLower(strings.TrimSpace(raw)))
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}
