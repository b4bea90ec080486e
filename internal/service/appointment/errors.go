package appointment

import (
	"errors"

	"github.com/google/uuid"
)

// ValidationError rejects a request before it reaches the store. Reason is safe to
// show to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ConflictError rejects a write that would double-book a slot.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

var (
	ErrMissingFields   = &ValidationError{Reason: "missing required fields"}
	ErrInvalidName     = &ValidationError{Reason: "invalid patient name"}
	ErrInvalidEmail    = &ValidationError{Reason: "invalid email format"}
	ErrPhoneTooShort   = &ValidationError{Reason: "phone number too short"}
	ErrInvalidDoctor   = &ValidationError{Reason: "invalid doctor"}
	ErrInvalidDate     = &ValidationError{Reason: "invalid date format"}
	ErrDateInPast      = &ValidationError{Reason: "date in the past"}
	ErrOutsideHours    = &ValidationError{Reason: "outside business hours"}
	ErrInvalidInterval = &ValidationError{Reason: "invalid interval"}
	ErrInvalidStatus   = &ValidationError{Reason: "invalid status"}
	ErrDateRequired    = &ValidationError{Reason: "date is required"}

	ErrSlotTaken = &ConflictError{Reason: "slot already booked"}

	ErrNotFound  = errors.New("appointment not found")
	ErrInvalidID = errors.New("invalid appointment id")
)

// ParseID parses an appointment id from a path parameter.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}
