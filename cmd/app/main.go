package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/waste3d/pianoplatform-api/config"
	"github.com/waste3d/pianoplatform-api/internal/application/usecase"
	"github.com/waste3d/pianoplatform-api/internal/domain"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/events"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/logger"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/repository"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/scheduler"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/security"
	"github.com/waste3d/pianoplatform-api/internal/infrastructure/storage"
	"github.com/waste3d/pianoplatform-api/internal/middleware"
	grpc_server "github.com/waste3d/pianoplatform-api/internal/transport/grpc"
	handlers "github.com/waste3d/pianoplatform-api/internal/transport/http"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	// run's deferred cleanup has finished by the time os.Exit runs.
	err = run(cfg, appLog)
	if err != nil {
		appLog.Error("Server stopped with error", "error", err)
	}
	appLog.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config, appLog *logger.Logger) error {
	if cfg.LogMode == "production" || cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			_ = rdb.Close()
			return fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		appLog.Info("Connected to Redis", "addr", cfg.RedisAddr)
	}

	store, err := openStore(cfg, rdb)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}
	defer store.Close()
	if rdb != nil && cfg.StorageDriver != "redis" {
		defer rdb.Close()
	}
	appLog.Info("Storage ready", "driver", cfg.StorageDriver)

	publisher, err := events.NewPublisher(events.Config{
		Enabled: cfg.KafkaEnabled,
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	}, appLog)
	if err != nil {
		return fmt.Errorf("create event publisher: %w", err)
	}
	defer publisher.Close()

	reviews := usecase.NewReviewAggregator(repository.NewReviewRepository(store), publisher, cfg.CourseLabel, appLog)
	manager := usecase.NewManager(usecase.SessionDeps{
		Entitlements: usecase.NewEntitlementChecker(repository.NewEntitlementRepository(store), cfg.CourseID, appLog),
		Ledger:       usecase.NewProgressLedger(repository.NewProgressRepository(store), appLog),
		Reviews:      reviews,
		Publisher:    publisher,
		Scheduler:    scheduler.New(),
		Log:          appLog,
	}, cfg.SessionIdleTimeout)

	var counter middleware.Counter
	if rdb != nil {
		counter = middleware.NewRedisCounter(rdb)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Tokens:         security.NewTokenManager(cfg.AccessSecret),
		AdminKeys:      security.NewAdminKeyVerifier(cfg.AdminKeyHash),
		Limiter:        middleware.NewRateLimiter(counter),
		Store:          store,
	}, handlers.NewSessionHandler(manager, reviews, appLog), handlers.NewCatalogHandler(domain.NewCatalog()))

	httpSrv := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	health := grpc_server.NewHealthServer(store, appLog)
	grpcSrv := grpc_server.NewServer(health)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLog.Info("HTTP server running", "addr", cfg.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GRPCPort)
		if err != nil {
			return err
		}
		appLog.Info("gRPC health server running", "addr", cfg.GRPCPort)
		return grpcSrv.Serve(lis)
	})

	g.Go(func() error { return health.Watch(gctx, cfg.HealthInterval) })
	g.Go(func() error { return manager.Run(gctx, cfg.SweepInterval) })

	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		grpcSrv.GracefulStop()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(cfg config.Config, rdb *redis.Client) (storage.Store, error) {
	switch cfg.StorageDriver {
	case "postgres":
		return storage.OpenPostgres(cfg.PostgresDSN())
	case "redis":
		if rdb == nil {
			return nil, errors.New("redis driver needs REDIS_ADDR")
		}
		return storage.NewRedisStore(rdb), nil
	default:
		return storage.OpenSQLite(cfg.SQLitePath)
	}
}
