package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LendPeak/LendPeak2-sub000/internal/application/usecase"
	"github.com/LendPeak/LendPeak2-sub000/internal/domain/service"
	"github.com/LendPeak/LendPeak2-sub000/internal/infrastructure/cache"
	"github.com/LendPeak/LendPeak2-sub000/internal/infrastructure/config"
	"github.com/LendPeak/LendPeak2-sub000/internal/infrastructure/messaging"
	pgRepo "github.com/LendPeak/LendPeak2-sub000/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/LendPeak/LendPeak2-sub000/internal/presentation/grpc"
	"github.com/LendPeak/LendPeak2-sub000/internal/presentation/rest"
	"github.com/LendPeak/LendPeak2-sub000/pkg/auth"
	pkgkafka "github.com/LendPeak/LendPeak2-sub000/pkg/kafka"
	"github.com/LendPeak/LendPeak2-sub000/pkg/observability"
	pkgpostgres "github.com/LendPeak/LendPeak2-sub000/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	cfg.Validate()

	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	logger.Info("starting loan-calc-service",
		"grpc_port", cfg.GRPCPort,
		"http_port", cfg.HTTPPort,
		"metrics_port", cfg.MetricsPort,
	)

	// Metrics.
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
		Port:        cfg.MetricsPort,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pgCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if migErr := pkgpostgres.RunMigrations(pgCfg.DSN(), "file://internal/infrastructure/persistence/postgres/migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Redis.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Infrastructure adapters.
	termsRepo := pgRepo.NewLoanTermsRepo(pool)
	scheduleRepo := pgRepo.NewScheduleRepo(pool)
	outboxRepo := pgRepo.NewOutboxRepo(pool)
	scheduleCache := cache.NewScheduleCache(rdb)

	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer kafkaProducer.Close()
	publisher := messaging.NewKafkaEventPublisher(kafkaProducer, outboxRepo, cfg.Kafka.Topic, logger)

	relay := messaging.NewOutboxRelay(outboxRepo, kafkaProducer, cfg.Kafka.Topic, logger)
	go relay.Run(ctx)

	// Domain services.
	validator := service.NewValidator()
	paymentCalc := service.NewPaymentCalculator()
	interestCalc := service.NewInterestCalculator()
	generator := service.NewScheduleGenerator(paymentCalc, interestCalc)
	detector := service.NewBalloonDetector()
	strategyEngine := service.NewBalloonStrategyEngine(generator)

	// Use cases.
	calcPaymentUC := usecase.NewCalculatePaymentUseCase(validator, paymentCalc)
	generateUC := usecase.NewGenerateScheduleUseCase(validator, generator, detector, termsRepo, scheduleRepo, scheduleCache, publisher)
	getScheduleUC := usecase.NewGetScheduleUseCase(scheduleRepo, scheduleCache, logger)
	prepaymentUC := usecase.NewApplyPrepaymentUseCase(validator, generator, scheduleRepo, scheduleCache, publisher)
	detectUC := usecase.NewDetectBalloonsUseCase(detector, service.DefaultComplianceRules(), scheduleRepo, publisher)
	strategyUC := usecase.NewApplyBalloonStrategyUseCase(detector, strategyEngine, termsRepo, scheduleRepo, scheduleCache, publisher)

	// JWT validation, optional.
	var jwtSvc *auth.JWTService
	if cfg.Auth.Enabled {
		jwtSvc, err = auth.NewJWTService(auth.JWTConfig{
			Secret: cfg.Auth.Secret,
			Issuer: cfg.Auth.Issuer,
		})
		if err != nil {
			logger.Error("failed to initialize JWT service", "error", err)
			os.Exit(1)
		}
	}

	// gRPC server.
	handler := grpcPresentation.NewCalcHandler(calcPaymentUC, generateUC, getScheduleUC, prepaymentUC, detectUC, strategyUC)
	grpcServer := grpcPresentation.NewServer(handler, logger, jwtSvc)

	// HTTP server (health checks).
	mux := http.NewServeMux()
	healthHandler := rest.NewHealthHandler(logger, pool, rdb)
	healthHandler.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server.
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metricsHandler)
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", "error", err)
	}

	logger.Info("loan-calc-service stopped")
}
