package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/catalog-api/internal/app/service"
	"github.com/mrops-br/catalog-api/internal/domain"
	"github.com/mrops-br/catalog-api/internal/infrastructure/config"
	"github.com/mrops-br/catalog-api/internal/infrastructure/http"
	"github.com/mrops-br/catalog-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/catalog-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/catalog-api/internal/infrastructure/repository/mongodb"
	"github.com/mrops-br/catalog-api/internal/infrastructure/telemetry"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telem, err := newTelemetry(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	if err := run(ctx, cfg, telem); err != nil {
		telem.Logger.Error("Service stopped with error", slog.String("error", err.Error()))
		shutdownTelemetry(cfg, telem)
		os.Exit(1)
	}

	shutdownTelemetry(cfg, telem)
}

func run(ctx context.Context, cfg *config.Config, telem *telemetry.Telemetry) error {
	tracer := telem.TracerProvider.Tracer("products-api")
	meter := telem.MeterProvider.Meter("products-api")
	logger := telem.Logger

	logger.Info("Starting Products API", slog.String("storage", cfg.Storage.Driver))

	repo, closeRepo, err := newRepository(ctx, &cfg.Storage, tracer, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	productService := service.NewProductService(repo, tracer, meter, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	server := http.NewServer(&cfg.Server, productHandler, telem)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server stopped")
	return nil
}

// newRepository selects the storage adapter. The returned func releases it.
func newRepository(
	ctx context.Context,
	cfg *config.StorageConfig,
	tracer trace.Tracer,
	logger *slog.Logger,
) (domain.ProductRepository, func(), error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("Using in-memory storage; products are lost on restart")
		return memory.NewProductRepository(tracer, logger), func() {}, nil
	}

	client, err := mongodb.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error("Failed to disconnect MongoDB", slog.String("error", err.Error()))
		}
	}

	repo := mongodb.NewProductRepository(client.Collection(), tracer, logger)
	if err := repo.EnsureIndexes(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}

	return repo, closeFn, nil
}

func newTelemetry(ctx context.Context, cfg *config.Config) (*telemetry.Telemetry, error) {
	if cfg.OTLP.Enabled {
		return telemetry.NewTelemetry(ctx, &cfg.OTLP)
	}
	return telemetry.NewNoOpTelemetry(&cfg.OTLP)
}

func shutdownTelemetry(cfg *config.Config, telem *telemetry.Telemetry) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := telem.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}
}
