package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/Fedi-Riahi/mar/internal/domains/catalog/adapters/memory"
	ordersfulfillment "github.com/Fedi-Riahi/mar/internal/domains/orders/adapters/external/fulfillment"
	ordersmemory "github.com/Fedi-Riahi/mar/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Fedi-Riahi/mar/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Fedi-Riahi/mar/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Fedi-Riahi/mar/internal/domains/orders/application"
	ordersports "github.com/Fedi-Riahi/mar/internal/domains/orders/ports"

	fulfillmentclient "github.com/Fedi-Riahi/mar/internal/clients/http/fulfillment"
	platformobservability "github.com/Fedi-Riahi/mar/internal/platform/observability"
	platformpostgres "github.com/Fedi-Riahi/mar/internal/platform/postgres"
	orderactivities "github.com/Fedi-Riahi/mar/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Fedi-Riahi/mar/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "marketplace-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderRepo, cleanupRepo := buildOrderRepository(ctx, logger)
	defer cleanupRepo()
	orderService := ordersobs.New(
		ordersapp.NewService(orderRepo),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	orderActivities := orderactivities.NewActivities(orderService, orderRepo, buildFulfillmentNotifier(logger))

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})
	w.RegisterActivityWithOptions(orderActivities.NotifyFulfillment, activity.RegisterOptions{Name: orderactivities.NotifyFulfillmentActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderRepository(ctx context.Context, logger *slog.Logger) (ordersports.Repository, func()) {
	dsn := os.Getenv("POSTGRES_DSN")
	if strings.TrimSpace(dsn) == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory order repository")
		return ordersmemory.NewRepository(catalogmemory.NewRepository()), func() {}
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		logger.Warn("worker failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(catalogmemory.NewRepository()), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("worker failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return ordersmemory.NewRepository(catalogmemory.NewRepository()), func() {}
	}
	logger.Info("worker order repository configured with postgres")
	return orderspostgres.NewRepository(db), func() { _ = sqlDB.Close() }
}

func buildFulfillmentNotifier(logger *slog.Logger) ordersports.FulfillmentNotifier {
	baseURL := strings.TrimSpace(os.Getenv("FULFILLMENT_BASE_URL"))
	if baseURL == "" {
		logger.Warn("FULFILLMENT_BASE_URL not set, fulfillment notifications disabled")
		return nil
	}
	client, err := fulfillmentclient.NewClient(baseURL, fulfillmentTimeout())
	if err != nil {
		logger.Warn("failed to configure fulfillment client, notifications disabled", slog.String("error", err.Error()))
		return nil
	}
	logger.Info("fulfillment notifications enabled", slog.String("baseUrl", baseURL))
	return ordersfulfillment.NewNotifier(client)
}

func fulfillmentTimeout() time.Duration {
	raw := strings.TrimSpace(os.Getenv("FULFILLMENT_TIMEOUT_SECONDS"))
	if raw == "" {
		return 10 * time.Second
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(seconds) * time.Second
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
