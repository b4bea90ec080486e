package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// BookingMetrics counts booking outcomes.
type BookingMetrics struct {
	booked    metric.Int64Counter
	conflicts metric.Int64Counter
	rejected  metric.Int64Counter
}

// NewBookingMetrics registers the booking counters on meter. A nil meter uses the
// global provider.
func NewBookingMetrics(meter metric.Meter) (*BookingMetrics, error) {
	if meter == nil {
		meter = otel.Meter(tracerName)
	}

	booked, err := meter.Int64Counter(
		"appointments_booked_total",
		metric.WithDescription("Appointments successfully booked"),
		metric.WithUnit("{appointment}"),
	)
	if err != nil {
		return nil, err
	}

	conflicts, err := meter.Int64Counter(
		"appointment_booking_conflicts_total",
		metric.WithDescription("Booking attempts rejected because the slot was taken"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	rejected, err := meter.Int64Counter(
		"appointment_booking_rejections_total",
		metric.WithDescription("Booking attempts rejected by validation, by reason"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &BookingMetrics{booked: booked, conflicts: conflicts, rejected: rejected}, nil
}

// NopBookingMetrics records nothing.
func NopBookingMetrics() *BookingMetrics {
	m, _ := NewBookingMetrics(noop.NewMeterProvider().Meter(tracerName))
	return m
}

func (m *BookingMetrics) Booked(ctx context.Context, doctor string) {
	m.booked.Add(ctx, 1, metric.WithAttributes(attribute.String("doctor", doctor)))
}

func (m *BookingMetrics) Conflict(ctx context.Context) {
	m.conflicts.Add(ctx, 1)
}

func (m *BookingMetrics) Rejected(ctx context.Context, reason string) {
	m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
