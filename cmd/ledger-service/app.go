package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/lib/pq" // PostgreSQL driver

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tally/internal/archive"
	"tally/internal/broker"
	"tally/internal/config"
	"tally/internal/constants"
	"tally/internal/dedup"
	"tally/internal/ledger"
	"tally/internal/logger"
	"tally/internal/rates"
	"tally/internal/rules"
	"tally/pkg/bootstrap"
	"tally/pkg/health"
	"tally/pkg/metrics"
	"tally/pkg/middleware"
	"tally/pkg/migrations"
	"tally/pkg/ratelimit"
	"tally/pkg/tracing"
)

type App struct {
	config         *config.Config
	logger         logger.Logger
	dbConnector    *bootstrap.DatabaseConnector
	db             *sql.DB
	redisClient    *redis.Client
	mongoClient    *mongo.Client
	dedupService   *dedup.Service
	server         *http.Server
	router         *gin.Engine
	tracerProvider *tracing.TracerProvider
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName(constants.ServiceLedger)
	}
	return &App{
		config:      cfg,
		logger:      log,
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := a.initRouter(ctx); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	if err := a.initServer(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	tp, err := tracing.Init(ctx, a.config.Tracing, constants.ServiceLedger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	return nil
}

func (a *App) initDatabase(ctx context.Context) error {
	db, err := a.dbConnector.InitPostgreSQL(ctx)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("postgres configuration is required")
	}
	a.db = db

	if a.config.Database.RunMigrations {
		if err := migrations.RunPostgres(a.db, constants.DefaultMigrationsPath); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return nil
}

func (a *App) initRouter(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(constants.ServiceLedger))
	}

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(a.logger))
	router.Use(middleware.LoggerMiddleware(a.logger))

	if a.config.Server.RateLimit.Enabled {
		rateLimitConfig := ratelimit.RateLimitConfig{
			RPS:             a.config.Server.RateLimit.RPS,
			Burst:           a.config.Server.RateLimit.Burst,
			CleanupInterval: time.Duration(a.config.Server.RateLimit.CleanupInterval) * time.Second,
			MaxAge:          time.Duration(a.config.Server.RateLimit.MaxAge) * time.Second,
		}
		router.Use(ratelimit.RateLimitMiddleware(ctx, rateLimitConfig))
		a.logger.InfowCtx(ctx, "Rate limiting enabled", "rps", rateLimitConfig.RPS, "burst", rateLimitConfig.Burst)
	}

	if a.config.Database.Redis.Host != "" {
		initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		redisClient, err := a.dbConnector.InitRedis(initCtx)
		if err != nil {
			a.logger.WarnwCtx(initCtx, "Redis connection failed, rate cache and dedup stats disabled", "error", err)
		} else {
			a.redisClient = redisClient
			a.dedupService = dedup.NewService(dedup.NewRepository(redisClient), a.config.Dedup, a.logger)
		}
	}

	ratesProvider := rates.NewChain(a.config.Rates, a.config.CircuitBreaker, a.redisClient, a.logger)

	ledgerRepo := ledger.NewRepository(a.db)
	ledgerService := ledger.NewService(ledgerRepo, ratesProvider, a.config.Ledger, a.logger)
	ledgerHandler := ledger.NewHandler(ledgerService, ratesProvider, a.logger)
	ledgerHandler.RegisterRoutes(router)

	var ruleEventProducer *rules.RuleEventProducer
	if a.config.Broker.Type == "kafka" && a.config.Broker.Kafka.RuleUpdateTopic != "" {
		producer, err := broker.NewProducer(a.config.Broker, a.logger)
		if err != nil {
			a.logger.WarnwCtx(context.Background(), "Failed to create rule event producer, rule events will be disabled", "error", err)
		} else {
			ruleEventProducer = rules.NewRuleEventProducer(producer, a.config.Broker.Kafka.RuleUpdateTopic)
			a.logger.InfowCtx(context.Background(), "Rule event producer initialized")
		}
	}

	opts := []rules.ServiceOption{
		rules.WithVersioning(rules.NewVersioningRepository(a.db)),
	}
	if ruleEventProducer != nil {
		opts = append(opts, rules.WithRuleEvents(ruleEventProducer))
	}

	rulesService := rules.NewService(rules.NewRepository(a.db), opts...)
	rulesHandler := rules.NewHandler(rulesService, a.logger)
	rulesHandler.RegisterRoutes(router)

	if a.config.Database.MongoDB.URI != "" {
		initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		mongoClient, err := a.dbConnector.InitMongoDB(initCtx)
		if err != nil {
			a.logger.WarnwCtx(initCtx, "MongoDB connection failed, rejection archive disabled", "error", err)
		} else if mongoClient != nil {
			a.mongoClient = mongoClient
			dbName := a.config.Database.MongoDB.Database
			if dbName == "" {
				dbName = constants.DefaultMongoDBName
			}

			archiveService := archive.NewService(archive.NewRepository(mongoClient.Database(dbName)))
			archiveHandler := archive.NewHandler(archiveService, a.logger)
			archiveHandler.RegisterRoutes(router)
		}
	}

	if a.dedupService != nil {
		statsHandler := dedup.NewStatsHandler(a.dedupService, a.logger)
		statsHandler.RegisterRoutes(router)
	}

	metrics.RegisterLedgerMetrics()
	if a.config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewPostgreSQLChecker(a.db))
	// Redis backs the rate cache and dedup stats, Mongo the rejection
	// archive; losing either degrades the API without taking it down
	if a.redisClient != nil {
		healthRegistry.RegisterOptional(health.NewRedisChecker(a.redisClient))
	}
	if a.mongoClient != nil {
		healthRegistry.RegisterOptional(health.NewMongoDBChecker(a.mongoClient))
	}

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		} else if h.Status == health.StatusDegraded {
			statusCode = http.StatusOK
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	a.router = router
	return nil
}

func (a *App) initServer() error {
	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Server.Port),
		Handler: a.router,
	}
	return nil
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.InfowCtx(ctx, "Server listening", "port", a.config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return a.Shutdown(ctx)
	case err := <-errChan:
		return err
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.InfowCtx(ctx, "Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
		}
	}

	if a.dedupService != nil {
		a.dedupService.StopCacheMetricsUpdater()
	}

	dbErrs := a.dbConnector.ShutdownDatabases(ctx, a.redisClient, a.db, a.mongoClient)
	errs = append(errs, dbErrs...)

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	a.logger.InfowCtx(ctx, "Server exited successfully")
	return nil
}
