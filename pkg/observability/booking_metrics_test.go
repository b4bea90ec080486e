package observability

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectSums(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				out[m.Name] += dp.Value
			}
		}
	}
	return out
}

func TestBookingMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	m, err := NewBookingMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewBookingMetrics() error = %v", err)
	}

	ctx := context.Background()
	m.Booked(ctx, "Dr. García")
	m.Booked(ctx, "Dr. López")
	m.Conflict(ctx)
	m.Rejected(ctx, "invalid interval")

	sums := collectSums(t, reader)
	if sums["appointments_booked_total"] != 2 {
		t.Errorf("booked = %d, want 2", sums["appointments_booked_total"])
	}
	if sums["appointment_booking_conflicts_total"] != 1 {
		t.Errorf("conflicts = %d, want 1", sums["appointment_booking_conflicts_total"])
	}
	if sums["appointment_booking_rejections_total"] != 1 {
		t.Errorf("rejections = %d, want 1", sums["appointment_booking_rejections_total"])
	}
}

func TestNopBookingMetrics(t *testing.T) {
	m := NopBookingMetrics()
	m.Booked(context.Background(), "x")
	m.Conflict(context.Background())
	m.Rejected(context.Background(), "y")
}
