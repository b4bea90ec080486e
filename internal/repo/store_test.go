package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/medbook_backend/pkg/database"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	db, err := database.New(database.SQLiteMemory())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func newAppointment(at time.Time) *Appointment {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &Appointment{
		PatientName: "Ana Pérez",
		Email:       "ana@example.com",
		Phone:       "+34600111222",
		ScheduledAt: at,
		Doctor:      "Dr. García",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

var slot = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func TestInsertAndFind(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := newAppointment(slot)
	if err := s.Insert(ctx, a); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if a.ID == uuid.Nil {
		t.Fatal("Insert() did not assign an id")
	}
	if a.Status != StatusPending {
		t.Errorf("default status = %q, want pending", a.Status)
	}

	got, err := s.FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if !got.ScheduledAt.Equal(slot) || got.PatientName != a.PatientName || got.Status != StatusPending {
		t.Errorf("FindByID() = %+v", got)
	}

	active, err := s.FindActiveAt(ctx, slot)
	if err != nil {
		t.Fatalf("FindActiveAt() error = %v", err)
	}
	if active.ID != a.ID {
		t.Errorf("FindActiveAt() id = %v, want %v", active.ID, a.ID)
	}

	if _, err := s.FindByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByID(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestInsert_SlotTaken(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Insert(ctx, newAppointment(slot)); err != nil {
		t.Fatalf("first Insert() error = %v", err)
	}
	if err := s.Insert(ctx, newAppointment(slot)); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("second Insert() error = %v, want ErrSlotTaken", err)
	}
}

func TestInsert_CancelledDoesNotHoldSlot(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := newAppointment(slot)
	if err := s.Insert(ctx, first); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := s.UpdateStatus(ctx, first.ID, StatusCancelled, time.Now()); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	if _, err := s.FindActiveAt(ctx, slot); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindActiveAt() after cancel error = %v, want ErrNotFound", err)
	}

	second := newAppointment(slot)
	if err := s.Insert(ctx, second); err != nil {
		t.Fatalf("Insert() into released slot error = %v", err)
	}

	// Reactivating the first booking would collide with the second.
	if err := s.UpdateStatus(ctx, first.ID, StatusPending, time.Now()); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("reactivate error = %v, want ErrSlotTaken", err)
	}
}

func TestListBetweenAndFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	times := []time.Time{
		slot.Add(90 * time.Minute),
		slot,
		slot.Add(30 * time.Minute),
		slot.Add(24 * time.Hour),
	}
	for i, at := range times {
		a := newAppointment(at)
		if i == 2 {
			a.Doctor = "Dr. López"
		}
		if err := s.Insert(ctx, a); err != nil {
			t.Fatalf("Insert(%v) error = %v", at, err)
		}
	}

	day, err := s.ListBetween(ctx, slot.Truncate(24*time.Hour), slot.Truncate(24*time.Hour).Add(24*time.Hour))
	if err != nil {
		t.Fatalf("ListBetween() error = %v", err)
	}
	if len(day) != 3 {
		t.Fatalf("ListBetween() returned %d rows, want 3", len(day))
	}
	for i := 1; i < len(day); i++ {
		if day[i].ScheduledAt.Before(day[i-1].ScheduledAt) {
			t.Errorf("ListBetween() not sorted: %v before %v", day[i].ScheduledAt, day[i-1].ScheduledAt)
		}
	}

	byDoctor, err := s.List(ctx, ListFilter{Doctor: "Dr. López"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(byDoctor) != 1 || !byDoctor[0].ScheduledAt.Equal(slot.Add(30*time.Minute)) {
		t.Errorf("List(doctor) = %+v", byDoctor)
	}

	all, err := s.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 4 {
		t.Errorf("List() returned %d rows, want 4", len(all))
	}

	none, err := s.List(ctx, ListFilter{Status: StatusConfirmed})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("List(confirmed) returned %d rows, want 0", len(none))
	}
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := newAppointment(slot)
	if err := s.Insert(ctx, a); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	b := newAppointment(slot.Add(time.Hour))
	if err := s.Insert(ctx, b); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	a.Notes = "first visit"
	a.ScheduledAt = slot.Add(30 * time.Minute)
	if err := s.Update(ctx, a); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := s.FindByID(ctx, a.ID)
	if got.Notes != "first visit" || !got.ScheduledAt.Equal(slot.Add(30*time.Minute)) {
		t.Errorf("Update() not persisted: %+v", got)
	}

	a.ScheduledAt = b.ScheduledAt
	if err := s.Update(ctx, a); !errors.Is(err, ErrSlotTaken) {
		t.Errorf("Update() into taken slot error = %v, want ErrSlotTaken", err)
	}

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
	if err := s.UpdateStatus(ctx, a.ID, StatusConfirmed, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestAdmins(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := &Admin{Email: " Admin@Clinic.test ", PasswordHash: "$argon2id$x", CreatedAt: time.Now()}
	if err := s.InsertAdmin(ctx, a); err != nil {
		t.Fatalf("InsertAdmin() error = %v", err)
	}

	got, err := s.FindAdminByEmail(ctx, "ADMIN@clinic.test")
	if err != nil {
		t.Fatalf("FindAdminByEmail() error = %v", err)
	}
	if got.ID != a.ID || got.Email != "admin@clinic.test" {
		t.Errorf("FindAdminByEmail() = %+v", got)
	}

	byID, err := s.FindAdminByID(ctx, a.ID)
	if err != nil || byID.Email != "admin@clinic.test" {
		t.Errorf("FindAdminByID() = %+v, %v", byID, err)
	}

	dup := &Admin{Email: "admin@clinic.test", PasswordHash: "h", CreatedAt: time.Now()}
	if err := s.InsertAdmin(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate InsertAdmin() error = %v, want ErrDuplicate", err)
	}

	if _, err := s.FindAdminByEmail(ctx, "nobody@clinic.test"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindAdminByEmail(unknown) error = %v, want ErrNotFound", err)
	}
}
