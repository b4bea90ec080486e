package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/medbook_backend/internal/repo"
	"github.com/Alijeyrad/medbook_backend/pkg/email"
	"github.com/Alijeyrad/medbook_backend/pkg/sms"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func sampleAppointment() repo.Appointment {
	at := time.Date(2030, 1, 15, 10, 30, 0, 0, time.UTC)
	return repo.Appointment{
		ID:          uuid.New(),
		PatientName: "Ana Ruiz",
		Email:       "ana@example.com",
		Phone:       "+34600111222",
		Doctor:      "Dr. López",
		ScheduledAt: at,
		Status:      repo.StatusPending,
		CreatedAt:   at.Add(-48 * time.Hour),
		UpdatedAt:   at.Add(-48 * time.Hour),
	}
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []email.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, m email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, m)
	return s.err
}

type recordingSMS struct {
	enabled bool
	texts   []sms.BookingText
}

func (s *recordingSMS) SendBookingReceived(_ context.Context, t sms.BookingText) error {
	s.texts = append(s.texts, t)
	return nil
}

func (s *recordingSMS) IsEnabled() bool { return s.enabled }

type recordingHandler struct {
	mu   sync.Mutex
	seen []repo.Appointment
	gate chan struct{}
}

func (h *recordingHandler) Notify(_ context.Context, a repo.Appointment) {
	if h.gate != nil {
		<-h.gate
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, a)
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.seen)
}

type fakePublisher struct {
	subject string
	data    []byte
	err     error
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.subject = subject
	p.data = data
	return p.err
}

func TestNotifier_SendsClinicAndPatientEmails(t *testing.T) {
	mail := &recordingSender{}
	text := &recordingSMS{enabled: true}
	n := NewNotifier(mail, text, NotifierConfig{AppName: "Clinic", ClinicAddress: "desk@clinic.test"}, quiet)

	a := sampleAppointment()
	n.Notify(context.Background(), a)

	require.Len(t, mail.msgs, 2)
	assert.Equal(t, []string{"desk@clinic.test"}, mail.msgs[0].To)
	assert.Equal(t, []string{a.Email}, mail.msgs[1].To)

	require.Len(t, text.texts, 1)
	assert.Equal(t, a.Phone, text.texts[0].Phone)
	assert.Equal(t, "2030-01-15 10:30", text.texts[0].When)
}

func TestNotifier_SkipsClinicWithoutAddressAndDisabledSMS(t *testing.T) {
	mail := &recordingSender{}
	text := &recordingSMS{enabled: false}
	n := NewNotifier(mail, text, NotifierConfig{}, quiet)

	n.Notify(context.Background(), sampleAppointment())

	assert.Len(t, mail.msgs, 1)
	assert.Empty(t, text.texts)
}

func TestNotifier_SwallowsSendErrors(t *testing.T) {
	mail := &recordingSender{err: errors.New("smtp down")}
	n := NewNotifier(mail, nil, NotifierConfig{ClinicAddress: "desk@clinic.test"}, quiet)

	assert.NotPanics(t, func() { n.Notify(context.Background(), sampleAppointment()) })
	assert.Len(t, mail.msgs, 2)
}

func TestInProcessDispatcher_DeliversAndDrains(t *testing.T) {
	h := &recordingHandler{}
	d := NewInProcessDispatcher(h, 2, 8, time.Second, quiet)
	d.Start()

	for i := 0; i < 5; i++ {
		d.AppointmentBooked(context.Background(), sampleAppointment())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
	assert.Equal(t, 5, h.count())

	// after close events are dropped, not panicking on a closed channel
	d.AppointmentBooked(context.Background(), sampleAppointment())
	assert.Equal(t, 5, h.count())
}

func TestInProcessDispatcher_DropsWhenFull(t *testing.T) {
	h := &recordingHandler{gate: make(chan struct{})}
	d := NewInProcessDispatcher(h, 1, 1, time.Second, quiet)

	// not started: the single buffer slot fills and the rest must not block
	require.NoError(t, d.enqueue(sampleAppointment()))
	assert.ErrorIs(t, d.enqueue(sampleAppointment()), ErrQueueFull)

	done := make(chan struct{})
	go func() {
		d.AppointmentBooked(context.Background(), sampleAppointment())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("AppointmentBooked blocked on a full queue")
	}

	d.Start()
	close(h.gate)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 1, h.count())
}

func TestNATSDispatcher_PublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	d := NewNATSDispatcher(pub, "", quiet)

	a := sampleAppointment()
	d.AppointmentBooked(context.Background(), a)

	assert.Equal(t, DefaultSubject, pub.subject)
	var ev BookedEvent
	require.NoError(t, json.Unmarshal(pub.data, &ev))
	assert.Equal(t, a.ID, ev.AppointmentID)
	assert.True(t, a.ScheduledAt.Equal(ev.ScheduledAt))
}

func TestNATSDispatcher_PublishErrorIsSwallowed(t *testing.T) {
	d := NewNATSDispatcher(&fakePublisher{err: nats.ErrConnectionClosed}, "x.y", quiet)
	assert.NotPanics(t, func() { d.AppointmentBooked(context.Background(), sampleAppointment()) })
}

func TestBookedMessageHandler(t *testing.T) {
	h := &recordingHandler{}
	handle := BookedMessageHandler(h, time.Second, quiet)

	a := sampleAppointment()
	data, err := json.Marshal(NewBookedEvent(a))
	require.NoError(t, err)

	handle(&nats.Msg{Subject: DefaultSubject, Data: []byte("not json")})
	handle(&nats.Msg{Subject: DefaultSubject, Data: data})

	require.Equal(t, 1, h.count())
	assert.Equal(t, a.ID, h.seen[0].ID)
	assert.Equal(t, a.Doctor, h.seen[0].Doctor)
}
