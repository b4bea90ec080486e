package email

import (
	"strings"
	"testing"
	"time"
)

var sample = AppointmentEmailData{
	AppName:     "Clínica Norte",
	PatientName: "Ana <b>Pérez</b>",
	Email:       "ana@example.com",
	Phone:       "+34600111222",
	Doctor:      "Dr. García",
	ScheduledAt: time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC),
}

func TestBuildClinicNotificationEmail(t *testing.T) {
	m := BuildClinicNotificationEmail("desk@clinic.test", sample)

	if len(m.To) != 1 || m.To[0] != "desk@clinic.test" {
		t.Errorf("To = %v", m.To)
	}
	if !strings.Contains(m.Subject, "Dr. García") {
		t.Errorf("Subject = %q", m.Subject)
	}
	if !strings.Contains(m.TextBody, "Tuesday, 10 June 2025 at 10:00 UTC") {
		t.Errorf("TextBody missing slot: %s", m.TextBody)
	}
	if strings.Contains(m.HTMLBody, "<b>Pérez</b>") {
		t.Error("HTMLBody must escape patient input")
	}
	if m.Headers["Reply-To"] != "ana@example.com" {
		t.Errorf("Reply-To = %q", m.Headers["Reply-To"])
	}
	if _, err := buildMessage("clinic@clinic.test", m); err != nil {
		t.Errorf("buildMessage() error = %v", err)
	}
}

func TestBuildPatientConfirmationEmail(t *testing.T) {
	m := BuildPatientConfirmationEmail(sample)

	if len(m.To) != 1 || m.To[0] != "ana@example.com" {
		t.Errorf("To = %v", m.To)
	}
	if !strings.Contains(m.Subject, "Clínica Norte") {
		t.Errorf("Subject = %q", m.Subject)
	}
	if _, err := buildMessage("clinic@clinic.test", m); err != nil {
		t.Errorf("buildMessage() error = %v", err)
	}
}

func TestBuildMessage_Invalid(t *testing.T) {
	ok := Message{To: []string{"a@b.test"}, Subject: "s", TextBody: "b"}

	tests := []struct {
		name string
		from string
		msg  Message
	}{
		{"no from", "", ok},
		{"no recipient", "x@y.test", Message{To: []string{" "}, Subject: "s", TextBody: "b"}},
		{"no subject", "x@y.test", Message{To: ok.To, TextBody: "b"}},
		{"no body", "x@y.test", Message{To: ok.To, Subject: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildMessage(tt.from, tt.msg); err == nil {
				t.Error("expected ErrInvalidMessage")
			}
		})
	}
}

func TestClient_DisabledAndFrom(t *testing.T) {
	c, err := New(Config{Enabled: false, From: "desk@clinic.test", AppName: "Clínica Norte"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.Send(t.Context(), BuildPatientConfirmationEmail(sample)); err == nil {
		t.Error("expected ErrDisabled")
	} else if _, ok := err.(ErrDisabled); !ok {
		t.Errorf("Send() error = %T, want ErrDisabled", err)
	}

	if got := c.from(); got != `"Clínica Norte" <desk@clinic.test>` {
		t.Errorf("from() = %q", got)
	}

	if _, err := New(Config{Enabled: true}); err == nil {
		t.Error("expected error when enabled without smtp host")
	}
}
