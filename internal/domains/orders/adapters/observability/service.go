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

	"github.com/Apurer/agrovet-registry/internal/domains/orders/application/types"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/domain"
	"github.com/Apurer/agrovet-registry/internal/domains/orders/ports"
	"github.com/Apurer/agrovet-registry/internal/shared/outcome"
)

const tracerName = "github.com/Apurer/agrovet-registry/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
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

func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int64("order.product_id", int64(input.ProductID))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Uint64("order.product_id", input.ProductID), slog.Uint64("order.quantity", input.Quantity))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Uint64("order.product_id", input.ProductID))
	}
	s.metrics.recordPlaced(ctx, result)
	span.SetAttributes(attribute.Int64("order.id", int64(result.ID)))
	s.logInfo(ctx, "order placed", slog.Uint64("order.id", result.ID), slog.Uint64("order.total_price", result.TotalPrice))
	return result, nil
}

func (s *Service) OrdersByAgrovet(ctx context.Context, agrovetID uint64) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.OrdersByAgrovet",
		trace.WithAttributes(attribute.Int64("agrovet.id", int64(agrovetID))))
	defer span.End()

	result, err := s.inner.OrdersByAgrovet(ctx, agrovetID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.Uint64("agrovet.id", agrovetID))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
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
	ordersPlaced metric.Int64Counter
	revenue      metric.Float64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	revenue, _ := m.Float64Counter("orders.service.order_value", metric.WithDescription("Total price of placed orders"))
	return serviceMetrics{ordersPlaced: ordersPlaced, revenue: revenue}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, order *domain.Order) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(order.Status))))
	}
	if m.revenue != nil {
		m.revenue.Add(ctx, float64(order.TotalPrice))
	}
}

var _ ports.Service = (*Service)(nil)
