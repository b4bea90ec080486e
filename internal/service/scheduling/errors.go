package scheduling

import "errors"

var (
	ErrInvalidHours    = errors.New("working hours must satisfy 0 <= start < end <= 24")
	ErrInvalidInterval = errors.New("slot interval must be between 1 and 1440 minutes")
	ErrUnparsableDate  = errors.New("unrecognised date format")
)
