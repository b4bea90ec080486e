package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const appointmentsTable = "appointments"

var appointmentColumns = []string{
	"id", "patient_name", "email", "phone", "scheduled_at",
	"doctor", "notes", "status", "created_at", "updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(r rowScanner) (*Appointment, error) {
	var (
		a                    Appointment
		status               string
		at, created, updated int64
	)
	if err := r.Scan(&a.ID, &a.PatientName, &a.Email, &a.Phone, &at,
		&a.Doctor, &a.Notes, &status, &created, &updated); err != nil {
		return nil, err
	}
	a.ScheduledAt = fromUnix(at)
	a.Status = Status(status)
	a.CreatedAt = fromUnixMilli(created)
	a.UpdatedAt = fromUnixMilli(updated)
	return &a, nil
}

func (s *sqlStore) selectAppointments() *entsql.Selector {
	b := s.builder()
	return b.Select(appointmentColumns...).From(b.Table(appointmentsTable))
}

func (s *sqlStore) queryOne(ctx context.Context, sel *entsql.Selector) (*Appointment, error) {
	query, args := sel.Limit(1).Query()
	a, err := scanAppointment(s.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan appointment: %w", err)
	}
	return a, nil
}

func (s *sqlStore) queryMany(ctx context.Context, sel *entsql.Selector) ([]Appointment, error) {
	query, args := sel.OrderBy(entsql.Asc("scheduled_at"), entsql.Asc("created_at")).Query()
	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	appts := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appts = append(appts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}
	return appts, nil
}

func (s *sqlStore) FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.queryOne(ctx, s.selectAppointments().Where(entsql.EQ("id", id.String())))
}

func (s *sqlStore) FindActiveAt(ctx context.Context, at time.Time) (*Appointment, error) {
	return s.queryOne(ctx, s.selectAppointments().Where(entsql.And(
		entsql.EQ("scheduled_at", at.Unix()),
		entsql.NEQ("status", string(StatusCancelled)),
	)))
}

func (s *sqlStore) ListBetween(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	return s.queryMany(ctx, s.selectAppointments().Where(entsql.And(
		entsql.GTE("scheduled_at", from.Unix()),
		entsql.LT("scheduled_at", to.Unix()),
	)))
}

func (s *sqlStore) List(ctx context.Context, f ListFilter) ([]Appointment, error) {
	var preds []*entsql.Predicate
	if f.Doctor != "" {
		preds = append(preds, entsql.EQ("doctor", f.Doctor))
	}
	if f.Status != "" {
		preds = append(preds, entsql.EQ("status", string(f.Status)))
	}
	if !f.From.IsZero() {
		preds = append(preds, entsql.GTE("scheduled_at", f.From.Unix()))
	}
	if !f.To.IsZero() {
		preds = append(preds, entsql.LT("scheduled_at", f.To.Unix()))
	}

	sel := s.selectAppointments()
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	return s.queryMany(ctx, sel)
}

func (s *sqlStore) Insert(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusPending
	}

	query, args := s.builder().Insert(appointmentsTable).
		Columns(appointmentColumns...).
		Values(a.ID.String(), a.PatientName, a.Email, a.Phone, a.ScheduledAt.Unix(),
			a.Doctor, a.Notes, string(a.Status), a.CreatedAt.UnixMilli(), a.UpdatedAt.UnixMilli()).
		Query()

	if _, err := s.conn.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (s *sqlStore) Update(ctx context.Context, a *Appointment) error {
	query, args := s.builder().Update(appointmentsTable).
		Set("patient_name", a.PatientName).
		Set("email", a.Email).
		Set("phone", a.Phone).
		Set("scheduled_at", a.ScheduledAt.Unix()).
		Set("doctor", a.Doctor).
		Set("notes", a.Notes).
		Set("updated_at", a.UpdatedAt.UnixMilli()).
		Where(entsql.EQ("id", a.ID.String())).
		Query()

	return s.execOne(ctx, "update appointment", query, args)
}

func (s *sqlStore) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, at time.Time) error {
	query, args := s.builder().Update(appointmentsTable).
		Set("status", string(status)).
		Set("updated_at", at.UnixMilli()).
		Where(entsql.EQ("id", id.String())).
		Query()

	return s.execOne(ctx, "update appointment status", query, args)
}

func (s *sqlStore) Delete(ctx context.Context, id uuid.UUID) error {
	query, args := s.builder().Delete(appointmentsTable).
		Where(entsql.EQ("id", id.String())).
		Query()

	return s.execOne(ctx, "delete appointment", query, args)
}

// execOne runs a write that must touch exactly one row.
func (s *sqlStore) execOne(ctx context.Context, op, query string, args []any) error {
	res, err := s.conn.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
