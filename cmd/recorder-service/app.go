package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"tally/internal/archive"
	"tally/internal/broker"
	"tally/internal/config"
	"tally/internal/constants"
	"tally/internal/dedup"
	"tally/internal/ledger"
	"tally/internal/logger"
	"tally/internal/parser"
	"tally/internal/recorder"
	"tally/internal/rulewatch"
	"tally/internal/screening"
	"tally/pkg/bootstrap"
	"tally/pkg/health"
	"tally/pkg/logging"
	"tally/pkg/metrics"
	"tally/pkg/migrations"
	"tally/pkg/models"
	"tally/pkg/tracing"
)

type App struct {
	*bootstrap.Base
	dbConnector *bootstrap.DatabaseConnector
	db          *sql.DB
	redisClient *redis.Client
	mongoClient *mongo.Client

	dedupService     *dedup.Service
	screeningService *screening.Service
	recorderService  *recorder.Service

	tracerProvider *tracing.TracerProvider
	server         *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName(constants.ServiceRecorder)
	}
	return &App{
		Base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initDatabases(ctx); err != nil {
		return fmt.Errorf("failed to initialize databases: %w", err)
	}

	if err := a.InitBroker(constants.ServiceRecorder); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	if err := a.initServices(ctx); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	tp, err := tracing.Init(ctx, a.Config.Tracing, constants.ServiceRecorder)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracerProvider = tp

	metrics.RegisterRecorderMetrics()
	metrics.RegisterBrokerMetrics()
	if a.Config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	if err := a.initHTTPServer(ctx); err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	return nil
}

func (a *App) initDatabases(ctx context.Context) error {
	db, err := a.dbConnector.InitPostgreSQL(ctx)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("postgres configuration is required")
	}
	a.db = db

	if a.Config.Database.RunMigrations {
		if err := migrations.RunPostgres(a.db, constants.DefaultMigrationsPath); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	rdb, err := a.dbConnector.InitRedis(ctx)
	if err != nil {
		return err
	}
	a.redisClient = rdb

	if a.Config.Database.MongoDB.URI != "" {
		mongoClient, err := a.dbConnector.InitMongoDB(ctx)
		if err != nil {
			initCtx := logging.WithServiceName(ctx, constants.ServiceRecorder)
			a.Logger.WarnwCtx(initCtx, "MongoDB connection failed, rejected messages will not be archived",
				"error", err,
			)
		} else {
			a.mongoClient = mongoClient

			if a.Config.Database.RunMigrations && mongoClient != nil {
				if err := migrations.EnsureMongoCollection(ctx, mongoClient.Database(a.mongoDBName())); err != nil {
					initCtx := logging.WithServiceName(ctx, constants.ServiceRecorder)
					a.Logger.WarnwCtx(initCtx, "Failed to ensure archive collection indexes",
						"error", err,
					)
				}
			}
		}
	}

	return nil
}

func (a *App) mongoDBName() string {
	if a.Config.Database.MongoDB.Database != "" {
		return a.Config.Database.MongoDB.Database
	}
	return constants.DefaultMongoDBName
}

func (a *App) initServices(ctx context.Context) error {
	screeningSvc, err := screening.NewService(screening.NewRepository(a.db), a.Config.Screening, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create screening service: %w", err)
	}

	if err := screeningSvc.ReloadRules(ctx); err != nil {
		initCtx := logging.WithServiceName(ctx, constants.ServiceRecorder)
		a.Logger.WarnwCtx(initCtx, "Failed to load initial screening rules",
			"error", err,
		)
	}
	a.screeningService = screeningSvc

	baseRepo := dedup.NewRepository(a.redisClient)
	var dedupRepo dedup.Repository
	if a.Config.CircuitBreaker.Enabled {
		dedupRepo = dedup.NewCircuitBreakerRepository(baseRepo, a.Config.CircuitBreaker)
		initCtx := logging.WithServiceName(ctx, constants.ServiceRecorder)
		a.Logger.InfowCtx(initCtx, "Circuit breaker enabled for dedup repository")
	} else {
		dedupRepo = baseRepo
	}
	a.dedupService = dedup.NewService(dedupRepo, a.Config.Dedup, a.Logger)

	opts := []recorder.ServiceOption{}
	if a.mongoClient != nil {
		opts = append(opts, recorder.WithArchive(archive.NewRepository(a.mongoClient.Database(a.mongoDBName()))))
	}

	recordedTopic := a.Config.Broker.Kafka.RecordedTopic
	if recordedTopic == "" {
		recordedTopic = constants.DefaultRecordedTopic
	}
	opts = append(opts, recorder.WithRecordedEvents(a.Producer, recordedTopic))

	a.recorderService = recorder.NewService(
		parser.New(),
		screeningSvc,
		a.dedupService,
		ledger.NewRepository(a.db),
		a.Logger,
		opts...,
	)
	return nil
}

func (a *App) initHTTPServer(ctx context.Context) error {
	mux := http.NewServeMux()

	healthRegistry := health.NewCheckerRegistry()
	if a.db != nil {
		healthRegistry.Register(health.NewPostgreSQLChecker(a.db))
	}
	if a.redisClient != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redisClient))
	}
	if a.Config.Broker.Type == "kafka" {
		healthRegistry.Register(health.NewKafkaChecker(a.Config.Broker.Kafka.Brokers))
	}
	// Archiving is best effort, so a dead archive degrades instead of failing
	if a.mongoClient != nil {
		healthRegistry.RegisterOptional(health.NewMongoDBChecker(a.mongoClient))
	}

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		h := healthRegistry.Check(r.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprintf(w, `{"status":"%s","timestamp":"%s"}`, h.Status, h.Timestamp.Format(time.RFC3339))
	})

	mux.Handle("/metrics", promhttp.Handler())

	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler: mux,
	}

	return nil
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	if a.server != nil {
		g.Go(func() error {
			a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
			if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	}

	if a.Config.Broker.Type == "kafka" && a.Config.Broker.Kafka.RuleUpdateTopic != "" {
		ruleConsumer, err := broker.NewConsumer(a.Config.Broker, a.Logger)
		if err != nil {
			ruleCtx := logging.WithServiceName(ctx, constants.ServiceRecorder)
			a.Logger.WarnwCtx(ruleCtx, "Failed to create rule update consumer, event-driven reload disabled",
				"error", err,
			)
		} else {
			ruleConsumer.SetServiceName(constants.ServiceRecorder)
			defer ruleConsumer.Close()
			ruleHandler := rulewatch.NewHandler(models.EventTypeScreeningRuleUpdated, a.screeningService, a.Logger)

			g.Go(func() error {
				ruleCtx := logging.WithServiceName(gCtx, constants.ServiceRecorder)
				a.Logger.InfowCtx(ruleCtx, "Starting rule update event consumer",
					"topic", a.Config.Broker.Kafka.RuleUpdateTopic,
				)
				return ruleConsumer.Consume(gCtx, a.Config.Broker.Kafka.RuleUpdateTopic, func(cCtx context.Context, msg models.ChatMessage) error {
					return ruleHandler.HandleRuleUpdateEvent(cCtx, msg)
				})
			})
		}
	}

	g.Go(func() error {
		return a.screeningService.StartReloader(gCtx)
	})

	messagesTopic := a.Config.Broker.Kafka.MessagesTopic
	if messagesTopic == "" {
		messagesTopic = constants.DefaultMessagesTopic
	}
	g.Go(func() error {
		return a.Consumer.Consume(gCtx, messagesTopic, a.recorderService.Process)
	})

	err := g.Wait()

	if shutdownErr := a.Shutdown(context.Background()); shutdownErr != nil {
		a.Logger.Errorw("Shutdown finished with errors", "error", shutdownErr)
	}

	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx := logging.WithServiceName(ctx, constants.ServiceRecorder)
	a.Logger.InfowCtx(shutdownCtx, "Shutting down recorder service")

	additionalShutdown := func(ctx context.Context) []error {
		var errs []error

		if a.server != nil {
			serverCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := a.server.Shutdown(serverCtx); err != nil {
				errs = append(errs, fmt.Errorf("HTTP server shutdown error: %w", err))
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

		errs = append(errs, a.dbConnector.ShutdownDatabases(ctx, a.redisClient, a.db, a.mongoClient)...)

		return errs
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}
