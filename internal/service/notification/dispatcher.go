package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Alijeyrad/medbook_backend/internal/repo"
)

const (
	TransportInProcess = "inprocess"
	TransportNATS      = "nats"

	DefaultSubject    = "medbook.appointment.booked"
	DefaultQueueGroup = "medbook-notifier"
)

// Dispatcher hands a committed booking to the side-effect pipeline.
// AppointmentBooked must not block on delivery.
type Dispatcher interface {
	AppointmentBooked(ctx context.Context, a repo.Appointment)
}

type nopDispatcher struct{}

func (nopDispatcher) AppointmentBooked(context.Context, repo.Appointment) {}

// Nop discards every event.
func Nop() Dispatcher { return nopDispatcher{} }

// ---------------------------------------------------------------------------
// In-process queue
// ---------------------------------------------------------------------------

// InProcessDispatcher feeds a bounded queue drained by a fixed worker pool.
// When the queue is full the event is dropped.
type InProcessDispatcher struct {
	handler Handler
	queue   chan repo.Appointment
	workers int
	timeout time.Duration
	log     *slog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewInProcessDispatcher(h Handler, workers, queueSize int, timeout time.Duration, log *slog.Logger) *InProcessDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &InProcessDispatcher{
		handler: h,
		queue:   make(chan repo.Appointment, queueSize),
		workers: workers,
		timeout: timeout,
		log:     log.With("component", "notification_dispatcher"),
	}
}

func (d *InProcessDispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
}

func (d *InProcessDispatcher) work() {
	defer d.wg.Done()
	for a := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		d.handler.Notify(ctx, a)
		cancel()
	}
}

func (d *InProcessDispatcher) AppointmentBooked(_ context.Context, a repo.Appointment) {
	if err := d.enqueue(a); err != nil {
		d.log.Warn("booking notification dropped", "appointment_id", a.ID, "err", err)
	}
}

func (d *InProcessDispatcher) enqueue(a repo.Appointment) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	select {
	case d.queue <- a:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops intake and waits for queued events to be handled or ctx to end.
func (d *InProcessDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ---------------------------------------------------------------------------
// NATS
// ---------------------------------------------------------------------------

// Publisher is the slice of *nats.Conn the dispatcher needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NATSDispatcher publishes a BookedEvent per booking. Publish only buffers in the
// client, so the request never waits on the broker.
type NATSDispatcher struct {
	pub     Publisher
	subject string
	log     *slog.Logger
}

func NewNATSDispatcher(pub Publisher, subject string, log *slog.Logger) *NATSDispatcher {
	if subject == "" {
		subject = DefaultSubject
	}
	if log == nil {
		log = slog.Default()
	}
	return &NATSDispatcher{pub: pub, subject: subject, log: log.With("component", "notification_dispatcher")}
}

func (d *NATSDispatcher) AppointmentBooked(_ context.Context, a repo.Appointment) {
	data, err := json.Marshal(NewBookedEvent(a))
	if err != nil {
		d.log.Error("encode booked event", "appointment_id", a.ID, "err", err)
		return
	}
	if err := d.pub.Publish(d.subject, data); err != nil {
		d.log.Warn("publish booked event failed", "appointment_id", a.ID, "subject", d.subject, "err", err)
	}
}

// BookedMessageHandler decodes BookedEvents and runs h on each.
func BookedMessageHandler(h Handler, timeout time.Duration, log *slog.Logger) nats.MsgHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return func(msg *nats.Msg) {
		var ev BookedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			log.Warn("notification_worker: bad booked event", "subject", msg.Subject, "err", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		h.Notify(ctx, ev.Appointment())
	}
}
