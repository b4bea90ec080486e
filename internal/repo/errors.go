package repo

import "errors"

var (
	ErrNotFound = errors.New("record not found")

	// ErrSlotTaken is returned when a write would leave two active appointments
	// at the same instant.
	ErrSlotTaken = errors.New("slot already taken")

	ErrDuplicate = errors.New("duplicate record")
)
