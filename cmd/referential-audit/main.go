package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Apurer/agrovet-registry/internal/app/api"
	platformobservability "github.com/Apurer/agrovet-registry/internal/platform/observability"
)

const (
	serviceName          = "agrovet-referential-audit"
	danglingCounterName  = "agrovet.audit.dangling_references"
	completedCounterName = "agrovet.audit.runs"
)

// referential-audit scans every stored reference and reports links whose
// target agrovet or product is missing. It exits 2 when any are found.
func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Printf("invalid configuration: %v", err)
		return 1
	}
	if cfg.StorageBackend == api.BackendMemory {
		log.Print("STORAGE_BACKEND is memory; nothing durable to audit")
		return 1
	}

	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Printf("failed to initialize observability: %v", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	meter := instruments.Meter(serviceName)
	dangling, _ := meter.Int64Counter(danglingCounterName)
	runs, _ := meter.Int64Counter(completedCounterName)

	rt, err := api.Bootstrap(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open state", slog.String("error", err.Error()))
		return 1
	}
	defer rt.Close()

	links, err := rt.State.Audit(ctx)
	if err != nil {
		logger.Error("audit failed", slog.String("error", err.Error()))
		return 1
	}
	for _, link := range links {
		logger.Warn("dangling reference",
			slog.String("kind", link.Kind),
			slog.Uint64("id", link.ID),
			slog.String("target", string(link.Target)),
			slog.Uint64("targetId", link.TargetID),
		)
		dangling.Add(ctx, 1, metric.WithAttributes(attribute.String("target", string(link.Target))))
	}
	runs.Add(ctx, 1)

	totals, err := instruments.CounterTotals(ctx)
	if err != nil {
		logger.Warn("failed to collect audit metrics", slog.String("error", err.Error()))
	}
	logger.Info("referential audit completed",
		slog.Int("dangling", len(links)),
		slog.String("backend", rt.Backend),
		slog.Any("metrics", totals),
	)
	if len(links) > 0 {
		return 2
	}
	return 0
}
