package repo

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the known appointment states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Active reports whether an appointment in state s holds its slot.
func (s Status) Active() bool {
	return s != StatusCancelled
}

type Appointment struct {
	ID          uuid.UUID `json:"id"`
	PatientName string    `json:"patientName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ScheduledAt time.Time `json:"date"`
	Doctor      string    `json:"doctor"`
	Notes       string    `json:"notes"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Admin struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// ListFilter narrows a listing. Zero values mean "any".
// From is inclusive, To is exclusive.
type ListFilter struct {
	Doctor string
	Status Status
	From   time.Time
	To     time.Time
}
