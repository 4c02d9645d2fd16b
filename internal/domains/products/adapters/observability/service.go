package observability

import (
	"context"
	"io"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/agrovet-registry/internal/domains/products/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/products/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/products/ports"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

const tracerName = "github.com/Apurer/agrovet-registry/internal/domains/products/adapters/observability/service"

// Service decorates the product service with tracing, logging, and metrics.
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

func (s *Service) CreateProduct(ctx context.Context, input types.CreateProductInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct",
		trace.WithAttributes(attribute.Int64("product.agrovet_id", int64(input.AgrovetID))))
	defer span.End()

	s.logInfo(ctx, "creating product", slog.Uint64("product.agrovet_id", input.AgrovetID), slog.String("product.name", input.Name))
	result, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.Uint64("product.agrovet_id", input.AgrovetID))
	}
	s.metrics.recordCreated(ctx, result)
	span.SetAttributes(attribute.Int64("product.id", int64(result.ID)))
	s.logInfo(ctx, "product created", slog.Uint64("product.id", result.ID))
	return result, nil
}

func (s *Service) ProductsByAgrovet(ctx context.Context, agrovetID uint64) ([]*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ProductsByAgrovet",
		trace.WithAttributes(attribute.Int64("agrovet.id", int64(agrovetID))))
	defer span.End()

	result, err := s.inner.ProductsByAgrovet(ctx, agrovetID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products", slog.Uint64("agrovet.id", agrovetID))
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (s *Service) StockSummary(ctx context.Context) ([]domain.StockLevel, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.StockSummary")
	defer span.End()

	result, err := s.inner.StockSummary(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to summarise stock")
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
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
	s.metrics.recordFailure(ctx, kind)
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
	productsCreated metric.Int64Counter
	stockListed     metric.Int64Counter
	failures        metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	productsCreated, _ := m.Int64Counter("products.service.products_created", metric.WithDescription("Number of products listed"))
	stockListed, _ := m.Int64Counter("products.service.stock_units_listed", metric.WithDescription("Stock units on newly listed products"))
	failures, _ := m.Int64Counter("products.service.failures", metric.WithDescription("Failed product commands by outcome"))
	return serviceMetrics{productsCreated: productsCreated, stockListed: stockListed, failures: failures}
}

func (m serviceMetrics) recordCreated(ctx context.Context, p *domain.Product) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("product.category", p.Category)))
	}
	if m.stockListed != nil && p.Stock <= math.MaxInt64 {
		m.stockListed.Add(ctx, int64(p.Stock))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, kind outcome.Kind) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(kind))))
	}
}

var _ ports.Service = (*Service)(nil)
