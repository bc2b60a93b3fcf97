package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	marserver "github.com/Fedi-Riahi/mar/go"

	catalogmemory "github.com/Fedi-Riahi/mar/internal/domains/catalog/adapters/memory"
	catalogobjectstore "github.com/Fedi-Riahi/mar/internal/domains/catalog/adapters/objectstore"
	catalogobs "github.com/Fedi-Riahi/mar/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Fedi-Riahi/mar/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Fedi-Riahi/mar/internal/domains/catalog/application"
	catalogports "github.com/Fedi-Riahi/mar/internal/domains/catalog/ports"

	ordersmemory "github.com/Fedi-Riahi/mar/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Fedi-Riahi/mar/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Fedi-Riahi/mar/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/Fedi-Riahi/mar/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Fedi-Riahi/mar/internal/domains/orders/application"
	ordersports "github.com/Fedi-Riahi/mar/internal/domains/orders/ports"

	usermemory "github.com/Fedi-Riahi/mar/internal/domains/users/adapters/memory"
	userobs "github.com/Fedi-Riahi/mar/internal/domains/users/adapters/observability"
	userpostgres "github.com/Fedi-Riahi/mar/internal/domains/users/adapters/persistence/postgres"
	userredis "github.com/Fedi-Riahi/mar/internal/domains/users/adapters/redis"
	userapp "github.com/Fedi-Riahi/mar/internal/domains/users/application"
	userports "github.com/Fedi-Riahi/mar/internal/domains/users/ports"

	"github.com/Fedi-Riahi/mar/internal/platform/migrations"
	platformobservability "github.com/Fedi-Riahi/mar/internal/platform/observability"
	platformpostgres "github.com/Fedi-Riahi/mar/internal/platform/postgres"
	platformredis "github.com/Fedi-Riahi/mar/internal/platform/redis"
)

// Run boots the marketplace HTTP API with observability, repositories, and
// workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "marketplace-api"
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

	cfg, err := LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		return err
	}

	repos, cleanupRepos := buildRepositories(ctx, cfg, logger)
	defer cleanupRepos()

	catalogService := catalogobs.New(
		catalogapp.NewService(repos.catalog, catalogapp.WithMediaStore(buildMediaStore(cfg, logger))),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	orderService := ordersobs.New(
		ordersapp.NewService(repos.orders),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	tokens, err := userapp.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("invalid token issuer configuration", slog.String("error", err.Error()))
		return err
	}
	userService := userobs.New(
		userapp.NewService(repos.users, repos.sessions, tokens),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline order placement", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := marserver.ApiHandleFunctions{
		ProductAPI: marserver.NewProductAPI(catalogService),
		OrderAPI:   marserver.NewOrderAPI(orderService, orderWorkflows),
		UserAPI:    marserver.NewUserAPI(userService),
	}

	// Middleware must be installed before routes register; gin snapshots each
	// route's handler chain at registration time.
	router := marserver.NewRouter(handlers,
		otelgin.Middleware(serviceName),
		cors.New(corsConfig(cfg)),
		marserver.AuthGuard(userService),
	)
	addr := ":" + cfg.Port
	logger.Info("marketplace API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("marketplace API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// repositories groups the persistence adapters of every bounded context so
// they share one backing store.
type repositories struct {
	catalog  catalogports.Repository
	orders   ordersports.Repository
	users    userports.Repository
	sessions userports.SessionStore
}

func buildRepositories(ctx context.Context, cfg Config, logger *slog.Logger) (repositories, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return memoryRepositories(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return memoryRepositories(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return memoryRepositories(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("schema migration failed", slog.String("error", err.Error()))
	}
	logger.Info("repositories configured with postgres")
	return repositories{
		catalog:  catalogpostgres.NewRepository(db),
		orders:   orderspostgres.NewRepository(db),
		users:    userpostgres.NewRepository(db),
		sessions: buildSessionStore(ctx, cfg, db, logger),
	}, func() { _ = sqlDB.Close() }
}

func memoryRepositories() repositories {
	catalogRepo := catalogmemory.NewRepository()
	return repositories{
		catalog:  catalogRepo,
		orders:   ordersmemory.NewRepository(catalogRepo),
		users:    usermemory.NewRepository(),
		sessions: usermemory.NewSessionStore(),
	}
}

func buildSessionStore(ctx context.Context, cfg Config, db *gorm.DB, logger *slog.Logger) userports.SessionStore {
	if cfg.RedisAddr != "" {
		redisClient, err := platformredis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("failed to connect to redis, falling back to postgres sessions", slog.String("error", err.Error()))
		} else {
			logger.Info("session store configured with redis")
			return userredis.NewSessionStore(redisClient, cfg.TokenTTL)
		}
	}
	return userpostgres.NewSessionStore(db, cfg.TokenTTL)
}

func buildMediaStore(cfg Config, logger *slog.Logger) catalogports.MediaStore {
	if cfg.MinioEndpoint == "" {
		logger.Warn("MINIO_ENDPOINT not set, product image upload disabled")
		return nil
	}
	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		logger.Warn("failed to configure object storage, product image upload disabled", slog.String("error", err.Error()))
		return nil
	}
	publicURL := cfg.MediaBaseURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.MinioEndpoint)
	}
	logger.Info("media store configured with object storage", slog.String("bucket", cfg.MinioBucket))
	return catalogobjectstore.NewMediaStore(minioClient, cfg.MinioBucket, publicURL)
}

func corsConfig(cfg Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.CORSAllowOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	return corsCfg
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
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
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
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
