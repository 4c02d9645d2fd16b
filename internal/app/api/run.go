package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	marketplaceserver "github.com/Apurer/agrovet-registry/go"
	agrovetobs "github.com/Apurer/agrovet-registry/internal/domains/agrovets/adapters/observability"
	agrovetports "github.com/Apurer/agrovet-registry/internal/domains/agrovets/ports"
	feedbackobs "github.com/Apurer/agrovet-registry/internal/domains/feedback/adapters/observability"
	feedbackports "github.com/Apurer/agrovet-registry/internal/domains/feedback/ports"
	orderobs "github.com/Apurer/agrovet-registry/internal/domains/orders/adapters/observability"
	orderworkflows "github.com/Apurer/agrovet-registry/internal/domains/orders/adapters/workflows"
	orderports "github.com/Apurer/agrovet-registry/internal/domains/orders/ports"
	productobs "github.com/Apurer/agrovet-registry/internal/domains/products/adapters/observability"
	productports "github.com/Apurer/agrovet-registry/internal/domains/products/ports"
	platformobservability "github.com/Apurer/agrovet-registry/internal/platform/observability"
)

// Services are the observability-decorated command services of one process.
type Services struct {
	Agrovets agrovetports.Service
	Products productports.Service
	Orders   orderports.Service
	Feedback feedbackports.Service
}

// DecorateServices wraps every state service with tracing, logging and metrics.
func DecorateServices(rt *Runtime, instruments *platformobservability.Instruments) Services {
	st := rt.State
	logger := effectiveLogger(instruments)
	return Services{
		Agrovets: agrovetobs.New(st.AgrovetService,
			agrovetobs.WithLogger(logger),
			agrovetobs.WithTracer(instruments.Tracer("internal.agrovets.application")),
			agrovetobs.WithMeter(instruments.Meter("internal.agrovets.application")),
		),
		Products: productobs.New(st.ProductService,
			productobs.WithLogger(logger),
			productobs.WithTracer(instruments.Tracer("internal.products.application")),
			productobs.WithMeter(instruments.Meter("internal.products.application")),
		),
		Orders: orderobs.New(st.OrderService,
			orderobs.WithLogger(logger),
			orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
			orderobs.WithMeter(instruments.Meter("internal.orders.application")),
		),
		Feedback: feedbackobs.New(st.FeedbackService,
			feedbackobs.WithLogger(logger),
			feedbackobs.WithTracer(instruments.Tracer("internal.feedback.application")),
			feedbackobs.WithMeter(instruments.Meter("internal.feedback.application")),
		),
	}
}

// Run boots the agrovet marketplace HTTP API with observability, storage, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "agrovet-api"
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	rt, err := Bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()
	services := DecorateServices(rt, instruments)

	var orderWorkflows orderports.WorkflowOrchestrator = orderworkflows.NewInlineOrderWorkflows(services.Orders)
	if rt.Backend == BackendMemory {
		// a worker process cannot share an in-memory region
		logger.Info("memory backend in use, placing orders inline")
	} else if temporalClient, err := ConnectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = orderworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := marketplaceserver.ApiHandleFunctions{
		AgrovetAPI:  marketplaceserver.NewAgrovetAPI(services.Agrovets),
		ProductAPI:  marketplaceserver.NewProductAPI(services.Products),
		OrderAPI:    marketplaceserver.NewOrderAPI(services.Orders, orderWorkflows),
		FeedbackAPI: marketplaceserver.NewFeedbackAPI(services.Feedback),
	}

	engine := gin.Default()
	engine.Use(otelgin.Middleware(serviceName, otelgin.WithTracerProvider(instruments.TracerProvider)))
	router := marketplaceserver.NewRouterWithGinEngine(engine, handlers)
	addr := ":" + cfg.Port
	logger.Info("agrovet API listening", slog.String("addr", addr), slog.String("backend", rt.Backend))
	if err := router.Run(addr); err != nil {
		logger.Error("agrovet API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// ConnectTemporalClient dials Temporal with the tracing interceptor and the process logger.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
