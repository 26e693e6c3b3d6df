package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/simp-lee/practice/internal/config"
)

func TestInit_StdoutExporterWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	inst, err := Init(context.Background(), config.TelemetryConfig{
		Exporter:    config.ExporterStdout,
		ServiceName: "practice-test",
	}, WithSpanWriter(&buf))
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	_, span := inst.Tracer("test").Start(context.Background(), "patients.create")
	span.End()

	if err := inst.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}
	if !strings.Contains(buf.String(), "patients.create") {
		t.Errorf("exported spans missing span name; got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "practice-test") {
		t.Errorf("exported spans missing service name; got %q", buf.String())
	}
}

func TestInit_NoneInstallsGlobals(t *testing.T) {
	inst, err := Init(context.Background(), config.TelemetryConfig{Exporter: config.ExporterNone})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(func() { _ = inst.Shutdown(context.Background()) })

	if otel.GetTracerProvider() != inst.TracerProvider {
		t.Error("global tracer provider was not installed")
	}
	if otel.GetMeterProvider() != inst.MeterProvider {
		t.Error("global meter provider was not installed")
	}

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	if !span.SpanContext().IsValid() {
		t.Error("span from installed provider has invalid context")
	}
	span.End()
}

func TestInstruments_MeterCollects(t *testing.T) {
	inst, err := Init(context.Background(), config.TelemetryConfig{})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(func() { _ = inst.Shutdown(context.Background()) })

	counter, err := inst.Meter("test").Int64Counter("records.created")
	if err != nil {
		t.Fatalf("Int64Counter() error: %v", err)
	}
	counter.Add(context.Background(), 2)

	var rm metricdata.ResourceMetrics
	if err := inst.Reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	var found bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "records.created" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok || len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 2 {
				t.Errorf("records.created data = %+v, want single point with value 2", m.Data)
			}
			found = true
		}
	}
	if !found {
		t.Error("records.created was not collected")
	}
}

func TestInstruments_NilFallbacks(t *testing.T) {
	var inst *Instruments

	_, span := inst.Tracer("x").Start(context.Background(), "op")
	span.End()
	if _, err := inst.Meter("x").Int64Counter("c"); err != nil {
		t.Fatalf("noop Int64Counter() error: %v", err)
	}
	if err := inst.Shutdown(context.Background()); err != nil {
		t.Fatalf("nil Shutdown() error: %v", err)
	}
}
