package crud

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/simp-lee/practice/internal/domain"
	"github.com/simp-lee/practice/internal/metrics"
	"github.com/simp-lee/practice/internal/repository"
)

const tracerName = "github.com/simp-lee/practice/internal/module/crud"

// Observed decorates a Service with tracing, logging and metrics.
type Observed[T any] struct {
	inner   Service[T]
	entity  string
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

// ObserveOption configures Observe.
type ObserveOption func(*observeConfig)

type observeConfig struct {
	tracer trace.Tracer
	logger *slog.Logger
	meter  metric.Meter
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) ObserveOption {
	return func(c *observeConfig) {
		c.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) ObserveOption {
	return func(c *observeConfig) {
		c.tracer = tr
	}
}

// WithMeter injects the meter used to create the service counters.
func WithMeter(m metric.Meter) ObserveOption {
	return func(c *observeConfig) {
		c.meter = m
	}
}

// Observe wraps inner. Every operation runs in a span named
// "<entity>.<operation>" carrying the tenant and record ids; failures are
// recorded on the span, logged and counted in metrics.ErrorsTotal.
func Observe[T any](inner Service[T], entity string, opts ...ObserveOption) *Observed[T] {
	var cfg observeConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.tracer == nil {
		cfg.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Observed[T]{
		inner:   inner,
		entity:  entity,
		tracer:  cfg.tracer,
		logger:  cfg.logger.With(slog.String("entity", entity)),
		metrics: newServiceMetrics(cfg.meter),
	}
}

func (s *Observed[T]) Create(ctx context.Context, data *T, tenantID, userID string) (*T, error) {
	ctx, span := s.startSpan(ctx, "create", tenantID, "")
	defer span.End()

	result, err := s.inner.Create(ctx, data, tenantID, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, "create", err)
	}
	s.metrics.record(ctx, s.metrics.created, s.entity)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "record created", slog.String("organization_id", tenantID))
	return result, nil
}

func (s *Observed[T]) FindAll(ctx context.Context, tenantID string, includeDeleted bool, f *repository.Filter) (*repository.Result[T], error) {
	ctx, span := s.startSpan(ctx, "find_all", tenantID, "")
	defer span.End()

	result, err := s.inner.FindAll(ctx, tenantID, includeDeleted, f)
	if err != nil {
		return nil, s.handleError(ctx, span, "find_all", err)
	}
	if result != nil {
		span.SetAttributes(attribute.Int("result.count", len(result.Data)))
		if result.Paginated {
			span.SetAttributes(attribute.Int64("result.total", result.Total))
		}
	}
	return result, nil
}

func (s *Observed[T]) FindOne(ctx context.Context, id, tenantID string, includeDeleted bool, with repository.Relations, columns repository.Columns) (*T, error) {
	ctx, span := s.startSpan(ctx, "find_one", tenantID, id)
	defer span.End()

	result, err := s.inner.FindOne(ctx, id, tenantID, includeDeleted, with, columns)
	if err != nil {
		return nil, s.handleError(ctx, span, "find_one", err)
	}
	span.SetAttributes(attribute.Bool("result.found", result != nil))
	return result, nil
}

func (s *Observed[T]) Update(ctx context.Context, id string, data map[string]any, tenantID, userID string) (*T, error) {
	ctx, span := s.startSpan(ctx, "update", tenantID, id)
	defer span.End()

	result, err := s.inner.Update(ctx, id, data, tenantID, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, "update", err)
	}
	if result != nil {
		s.metrics.record(ctx, s.metrics.updated, s.entity)
		s.logger.LogAttrs(ctx, slog.LevelInfo, "record updated", slog.String("id", id), slog.Int("fields", len(data)))
	}
	return result, nil
}

func (s *Observed[T]) Remove(ctx context.Context, id, tenantID, userID string) (*repository.Message, error) {
	ctx, span := s.startSpan(ctx, "remove", tenantID, id)
	defer span.End()

	result, err := s.inner.Remove(ctx, id, tenantID, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, "remove", err)
	}
	s.metrics.record(ctx, s.metrics.removed, s.entity)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "record removed", slog.String("id", id))
	return result, nil
}

func (s *Observed[T]) Restore(ctx context.Context, id, tenantID, userID string) (*T, error) {
	ctx, span := s.startSpan(ctx, "restore", tenantID, id)
	defer span.End()

	result, err := s.inner.Restore(ctx, id, tenantID, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, "restore", err)
	}
	if result != nil {
		s.metrics.record(ctx, s.metrics.restored, s.entity)
		s.logger.LogAttrs(ctx, slog.LevelInfo, "record restored", slog.String("id", id))
	}
	return result, nil
}

func (s *Observed[T]) HardDelete(ctx context.Context, id, tenantID string) (*repository.Message, error) {
	ctx, span := s.startSpan(ctx, "hard_delete", tenantID, id)
	defer span.End()

	result, err := s.inner.HardDelete(ctx, id, tenantID)
	if err != nil {
		return nil, s.handleError(ctx, span, "hard_delete", err)
	}
	s.metrics.record(ctx, s.metrics.removed, s.entity)
	s.logger.LogAttrs(ctx, slog.LevelWarn, "record permanently deleted", slog.String("id", id))
	return result, nil
}

func (s *Observed[T]) startSpan(ctx context.Context, op, tenantID, id string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("entity", s.entity),
		attribute.String("organization.id", tenantID),
	}
	if id != "" {
		attrs = append(attrs, attribute.String("record.id", id))
	}
	return s.tracer.Start(ctx, s.entity+"."+op, trace.WithAttributes(attrs...))
}

func (s *Observed[T]) handleError(ctx context.Context, span trace.Span, op string, err error) error {
	kind := errorKind(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	metrics.ErrorsTotal.WithLabelValues(s.entity, kind).Inc()

	level := slog.LevelWarn
	if kind == "internal" {
		level = slog.LevelError
	}
	s.logger.LogAttrs(ctx, level, "operation failed",
		slog.String("operation", op),
		slog.String("kind", kind),
		slog.String("error", err.Error()),
	)
	return err
}

// errorKind labels err by its domain error code.
func errorKind(err error) string {
	switch {
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsAlreadyExists(err):
		return "already_exists"
	case domain.IsValidation(err):
		return "validation"
	case domain.IsUnsupported(err):
		return "unsupported"
	case domain.IsUnauthorized(err):
		return "unauthorized"
	default:
		return "internal"
	}
}

type serviceMetrics struct {
	created  metric.Int64Counter
	updated  metric.Int64Counter
	removed  metric.Int64Counter
	restored metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("practice.records.created", metric.WithDescription("Number of records created"))
	updated, _ := m.Int64Counter("practice.records.updated", metric.WithDescription("Number of records updated"))
	removed, _ := m.Int64Counter("practice.records.removed", metric.WithDescription("Number of records removed or permanently deleted"))
	restored, _ := m.Int64Counter("practice.records.restored", metric.WithDescription("Number of records restored"))
	return serviceMetrics{created: created, updated: updated, removed: removed, restored: restored}
}

func (serviceMetrics) record(ctx context.Context, counter metric.Int64Counter, entity string) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
}

var _ Service[struct{}] = (*Observed[struct{}])(nil)
