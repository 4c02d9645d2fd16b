package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/agrovets/ports"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

const tracerName = "github.com/Apurer/agrovet-registry/internal/domains/agrovets/adapters/observability/service"

// Service decorates the agrovet service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core agrovet service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateAgrovet(ctx context.Context, input types.CreateAgrovetInput) (*domain.Agrovet, error) {
	ctx, span := s.tracer.Start(ctx, "AgrovetService.CreateAgrovet")
	defer span.End()

	s.logInfo(ctx, "creating agrovet", slog.String("agrovet.name", input.Name))
	result, err := s.inner.CreateAgrovet(ctx, input)
	s.metrics.record(ctx, "create_agrovet", err)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create agrovet")
	}
	span.SetAttributes(attribute.Int64("agrovet.id", int64(result.ID)))
	s.logInfo(ctx, "agrovet created", slog.Uint64("agrovet.id", result.ID))
	return result, nil
}

func (s *Service) GetAgrovetByID(ctx context.Context, id uint64) (*domain.Agrovet, error) {
	ctx, span := s.tracer.Start(ctx, "AgrovetService.GetAgrovetByID", trace.WithAttributes(attribute.Int64("agrovet.id", int64(id))))
	defer span.End()

	result, err := s.inner.GetAgrovetByID(ctx, id)
	s.metrics.record(ctx, "get_agrovet_by_id", err)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load agrovet", slog.Uint64("agrovet.id", id))
	}
	return result, nil
}

func (s *Service) ListAgrovets(ctx context.Context) ([]*domain.Agrovet, error) {
	ctx, span := s.tracer.Start(ctx, "AgrovetService.ListAgrovets")
	defer span.End()

	result, err := s.inner.ListAgrovets(ctx)
	s.metrics.record(ctx, "list_all_agrovets", err)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list agrovets")
	}
	span.SetAttributes(attribute.Int("agrovet.count", len(result)))
	return result, nil
}

func (s *Service) UpdateAgrovet(ctx context.Context, input types.UpdateAgrovetInput) (*domain.Agrovet, error) {
	ctx, span := s.tracer.Start(ctx, "AgrovetService.UpdateAgrovet", trace.WithAttributes(attribute.Int64("agrovet.id", int64(input.ID))))
	defer span.End()

	s.logInfo(ctx, "updating agrovet", slog.Uint64("agrovet.id", input.ID))
	result, err := s.inner.UpdateAgrovet(ctx, input)
	s.metrics.record(ctx, "update_agrovet", err)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update agrovet", slog.Uint64("agrovet.id", input.ID))
	}
	s.logInfo(ctx, "agrovet updated", slog.Uint64("agrovet.id", result.ID))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	kind := outcome.Of(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("outcome", string(kind)))
	if s.logger == nil {
		return err
	}
	// caller mistakes are routine; only infrastructure failures are errors
	level := slog.LevelWarn
	if kind == outcome.Error {
		level = slog.LevelError
	}
	attrs = append(attrs, slog.String("outcome", string(kind)), slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, level, msg, attrs...)
	return err
}

type serviceMetrics struct {
	commands metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	commands, _ := m.Int64Counter("agrovets.service.commands", metric.WithDescription("Agrovet commands by outcome"))
	return serviceMetrics{commands: commands}
}

func (m serviceMetrics) record(ctx context.Context, command string, err error) {
	if m.commands != nil {
		m.commands.Add(ctx, 1, metric.WithAttributes(
			attribute.String("command", command),
			attribute.String("outcome", string(outcome.Of(err))),
		))
	}
}

var _ ports.Service = (*Service)(nil)
