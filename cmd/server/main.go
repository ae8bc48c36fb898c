package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/ins72/meway-revenue/internal/adapter/http"
	"github.com/ins72/meway-revenue/internal/adapter/http/handler"
	"github.com/ins72/meway-revenue/internal/adapter/http/middleware"
	postgresRepo "github.com/ins72/meway-revenue/internal/adapter/repository/postgres"
	redisRepo "github.com/ins72/meway-revenue/internal/adapter/repository/redis"
	"github.com/ins72/meway-revenue/internal/domain"
	"github.com/ins72/meway-revenue/internal/infrastructure/auth"
	"github.com/ins72/meway-revenue/internal/infrastructure/config"
	"github.com/ins72/meway-revenue/internal/infrastructure/eventpublisher"
	"github.com/ins72/meway-revenue/internal/infrastructure/logger"
	"github.com/ins72/meway-revenue/internal/infrastructure/metrics"
	"github.com/ins72/meway-revenue/internal/infrastructure/postgres"
	"github.com/ins72/meway-revenue/internal/infrastructure/redis"
	"github.com/ins72/meway-revenue/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	commissionRate, err := decimal.NewFromString(cfg.CommissionRate)
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.CommissionRate).Msg("invalid commission rate")
	}

	policy, err := domain.NewCommissionPolicy(commissionRate)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid commission policy")
	}

	minimumPayout, err := decimal.NewFromString(cfg.MinimumPayout)
	if err != nil {
		log.Fatal().Err(err).Str("minimum", cfg.MinimumPayout).Msg("invalid minimum payout")
	}

	ctx := context.Background()

	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	saleRepo := postgresRepo.NewSaleRepository(pool)
	balanceRepo := postgresRepo.NewBalanceRepository(pool)
	payoutRepo := postgresRepo.NewPayoutRepository(pool)
	analyticsRepo := postgresRepo.NewAnalyticsRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	m := metrics.New()

	// Initialize use cases
	saleUC := usecase.NewSaleUseCase(txManager, saleRepo, balanceRepo, outboxRepo, auditRepo, cache, idGen, m, appLogger, policy, minimumPayout)
	balanceUC := usecase.NewBalanceUseCase(balanceRepo, cache)
	payoutUC := usecase.NewPayoutUseCase(txManager, payoutRepo, balanceRepo, outboxRepo, auditRepo, cache, idGen, m, appLogger, minimumPayout)
	analyticsUC := usecase.NewAnalyticsUseCase(analyticsRepo)
	reconciliationUC := usecase.NewReconciliationUseCase(balanceRepo, analyticsRepo)

	// Initialize handlers
	saleHandler := handler.NewSaleHandler(saleUC)
	balanceHandler := handler.NewBalanceHandler(balanceUC)
	payoutHandler := handler.NewPayoutHandler(payoutUC)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsUC)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var jwtManager *auth.JWTManager
	if cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		SaleHandler:           saleHandler,
		BalanceHandler:        balanceHandler,
		PayoutHandler:         payoutHandler,
		AnalyticsHandler:      analyticsHandler,
		ReconciliationHandler: reconciliationHandler,
		HealthHandler:         healthHandler,
		IdempotencyStore:      idempotencyStore,
		RateLimiter:           middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		JWTManager:            jwtManager,
		AuthEnabled:           cfg.AuthEnabled && jwtManager != nil,
	})

	// Start the outbox drainer
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	var publisher eventpublisher.Publisher = eventpublisher.NewLogPublisher(slog.Default())
	if cfg.KafkaBrokers != "" {
		kafkaPublisher, err := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create kafka publisher")
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info().Str("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing events to kafka")
	}

	eventPublisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		BatchSize:  cfg.PublisherBatchSize,
		Interval:   cfg.PublisherInterval,
	})
	go func() {
		if err := eventPublisher.Start(publisherCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
