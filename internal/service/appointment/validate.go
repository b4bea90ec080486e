package appointment

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"

	"github.com/Alijeyrad/medbook_backend/internal/service/scheduling"
)

const (
	minNameLength  = 2
	minPhoneLength = 6
)

// details is a request that passed field, doctor, date, hours and interval checks.
type details struct {
	PatientName string
	Email       string
	Phone       string
	Doctor      string
	Notes       string
	At          time.Time
}

// validate runs every check except uniqueness, in order, returning the first failure.
// The past-date check is skipped when the timestamp equals keep, so an existing
// appointment can be edited without moving it.
func (s *service) validate(req BookRequest, keep *time.Time) (details, error) {
	name := strings.TrimSpace(req.PatientName)
	addr := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	date := strings.TrimSpace(req.Date)
	doctor := strings.TrimSpace(req.Doctor)

	if name == "" || addr == "" || phone == "" || date == "" || doctor == "" {
		return details{}, ErrMissingFields
	}
	if utf8.RuneCountInString(name) < minNameLength {
		return details{}, ErrInvalidName
	}
	if !validEmail(addr) {
		return details{}, ErrInvalidEmail
	}
	if utf8.RuneCountInString(phone) < minPhoneLength {
		return details{}, ErrPhoneTooShort
	}
	if !s.knownDoctor(doctor) {
		return details{}, ErrInvalidDoctor
	}

	t, err := s.grid.ParseTimestamp(date)
	if err != nil {
		return details{}, ErrInvalidDate
	}
	at := scheduling.Normalize(t)

	if (keep == nil || !at.Equal(*keep)) && at.Before(s.now()) {
		return details{}, ErrDateInPast
	}
	if !s.grid.WithinHours(at) {
		return details{}, ErrOutsideHours
	}
	if !s.grid.Aligned(at) {
		return details{}, ErrInvalidInterval
	}

	return details{
		PatientName: name,
		Email:       addr,
		Phone:       s.normalizePhone(phone),
		Doctor:      doctor,
		Notes:       strings.TrimSpace(req.Notes),
		At:          at.UTC(),
	}, nil
}

func (s *service) knownDoctor(name string) bool {
	_, ok := s.doctors[name]
	return ok
}

// normalizePhone formats numbers that parse as valid in E.164 and keeps the rest as typed.
func (s *service) normalizePhone(raw string) string {
	num, err := phonenumbers.Parse(raw, s.phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// validEmail accepts a bare local@domain address.
func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	if err != nil || a.Name != "" || a.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && at < len(s)-1
}
