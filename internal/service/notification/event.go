package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/medbook_backend/internal/repo"
)

// BookedEvent is the broker payload for a new booking. It carries everything the
// notifier needs so consumers never read the store.
type BookedEvent struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	PatientName   string    `json:"patient_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Doctor        string    `json:"doctor"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Notes         string    `json:"notes,omitempty"`
	BookedAt      time.Time `json:"booked_at"`
}

func NewBookedEvent(a repo.Appointment) BookedEvent {
	return BookedEvent{
		AppointmentID: a.ID,
		PatientName:   a.PatientName,
		Email:         a.Email,
		Phone:         a.Phone,
		Doctor:        a.Doctor,
		ScheduledAt:   a.ScheduledAt,
		Notes:         a.Notes,
		BookedAt:      a.CreatedAt,
	}
}

func (e BookedEvent) Appointment() repo.Appointment {
	return repo.Appointment{
		ID:          e.AppointmentID,
		PatientName: e.PatientName,
		Email:       e.Email,
		Phone:       e.Phone,
		Doctor:      e.Doctor,
		ScheduledAt: e.ScheduledAt,
		Notes:       e.Notes,
		Status:      repo.StatusPending,
		CreatedAt:   e.BookedAt,
		UpdatedAt:   e.BookedAt,
	}
}
