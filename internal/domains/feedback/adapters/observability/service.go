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

	"github.com/Apurer/agrovet-registry/internal/domains/feedback/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/feedback/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/feedback/ports"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

const tracerName = "github.com/Apurer/agrovet-registry/internal/domains/feedback/adapters/observability/service"

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

func (s *Service) CreateFeedback(ctx context.Context, input types.CreateFeedbackInput) (*domain.Feedback, error) {
	ctx, span := s.tracer.Start(ctx, "FeedbackService.CreateFeedback",
		trace.WithAttributes(attribute.Int64("feedback.agrovet_id", int64(input.AgrovetID))))
	defer span.End()

	result, err := s.inner.CreateFeedback(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to record feedback", slog.Uint64("feedback.agrovet_id", input.AgrovetID))
	}
	s.metrics.recordRating(ctx, result.Rating)
	span.SetAttributes(attribute.Int64("feedback.id", int64(result.ID)))
	s.logInfo(ctx, "feedback recorded", slog.Uint64("feedback.id", result.ID), slog.Float64("feedback.rating", result.Rating))
	return result, nil
}

func (s *Service) FeedbackByAgrovet(ctx context.Context, agrovetID uint64) ([]*domain.Feedback, error) {
	ctx, span := s.tracer.Start(ctx, "FeedbackService.FeedbackByAgrovet",
		trace.WithAttributes(attribute.Int64("agrovet.id", int64(agrovetID))))
	defer span.End()

	result, err := s.inner.FeedbackByAgrovet(ctx, agrovetID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list feedback", slog.Uint64("agrovet.id", agrovetID))
	}
	span.SetAttributes(attribute.Int("feedback.count", len(result)))
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
	if s.logger == nil {
		return err
	}
	level := slog.LevelWarn
	if kind == outcome.Error {
		level = slog.LevelError
	}
	attrs = append(attrs, slog.String("outcome", string(kind)), slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, level, msg, attrs...)
	return err
}

type serviceMetrics struct {
	ratings metric.Float64Histogram
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ratings, _ := m.Float64Histogram("feedback.service.rating",
		metric.WithDescription("Ratings submitted with customer feedback"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5))
	return serviceMetrics{ratings: ratings}
}

func (m serviceMetrics) recordRating(ctx context.Context, rating float64) {
	if m.ratings != nil {
		m.ratings.Record(ctx, rating)
	}
}

var _ ports.Service = (*Service)(nil)
