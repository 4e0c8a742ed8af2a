package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/composable-projections-go/example/features/auditlog"
	"github.com/AntonStoeckl/composable-projections-go/example/features/dailyrevenue"
	"github.com/AntonStoeckl/composable-projections-go/example/features/openorders"
	"github.com/AntonStoeckl/composable-projections-go/example/shared/shell"
	"github.com/AntonStoeckl/composable-projections-go/example/shared/shell/config"
	"github.com/AntonStoeckl/composable-projections-go/projection"
	"github.com/AntonStoeckl/composable-projections-go/projection/delivery"
	"github.com/AntonStoeckl/composable-projections-go/projection/delivery/natsadapter"
	"github.com/AntonStoeckl/composable-projections-go/projection/delivery/postgresengine"
	"github.com/AntonStoeckl/composable-projections-go/projection/delivery/redisengine"
	"github.com/AntonStoeckl/composable-projections-go/projection/oteladapters"
)

const projectionName = "order-fulfillment"

const (
	defaultBatchSize    = 100
	defaultPollInterval = 250 * time.Millisecond
)

type Config struct {
	ObservabilityEnabled bool
	RedisURL             string
	NATSURL              string
	BatchSize            int
	PollInterval         time.Duration
}

func main() {
	cfg := parseFlags()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger := slog.Default()

	// Initialize the events database connection (the feed side)
	pgxPool, err := pgxpool.NewWithConfig(ctx, config.PostgresPGXPoolEventsConfig())
	if err != nil {
		log.Fatalf("Failed to create pgx pool: %v", err)
	}
	defer pgxPool.Close()

	if err := pgxPool.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to events database: %v", err)
	}

	// Initialize the read models database connection (the projection side)
	readModelsDB := config.PostgresSQLXReadModelsConfig()
	defer func() { _ = readModelsDB.Close() }()

	feed, err := postgresengine.NewEventFeedFromPGXPool(pgxPool, postgresengine.WithFeedLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create event feed: %v", err)
	}

	checkpoints, err := buildCheckpointStore(cfg, pgxPool, logger)
	if err != nil {
		log.Fatalf("Failed to create checkpoint store: %v", err)
	}

	// Compose the root projection: the business projections run first,
	// the audit log records afterwards whatever was delivered successfully.
	tracker := dailyrevenue.NewTracker()
	root := projection.AndThen(
		openorders.BuildProjection(openorders.NewPostgresStore(readModelsDB)),
		projection.AsUntyped(dailyrevenue.BuildProjection(tracker)),
		auditlog.BuildProjection(auditlog.NewLoggerRecorder(logger)),
	)

	processorOptions := []delivery.Option{
		delivery.WithBatchSize(cfg.BatchSize),
		delivery.WithPollInterval(cfg.PollInterval),
		delivery.WithLogger(logger),
	}

	if cfg.NATSURL != "" {
		client, cleanup, connectErr := natsadapter.Connect(natsadapter.Config{
			URL:           cfg.NATSURL,
			Name:          "run-projections",
			ConnTimeout:   5 * time.Second,
			MaxReconnects: 10,
		})
		if connectErr != nil {
			log.Fatalf("Failed to connect to NATS: %v", connectErr)
		}
		defer cleanup()

		publisher, publisherErr := natsadapter.NewProgressPublisher(client, natsadapter.WithLogger(logger))
		if publisherErr != nil {
			log.Fatalf("Failed to create progress publisher: %v", publisherErr)
		}

		processorOptions = append(processorOptions, delivery.WithProgressListener(publisher))
	}

	if cfg.ObservabilityEnabled {
		providers, obsErr := config.NewDemoObservabilityConfig()
		if obsErr != nil {
			log.Fatalf("Failed to create observability providers: %v", obsErr)
		}
		defer func() { _ = providers.Shutdown() }()

		processorOptions = append(processorOptions,
			delivery.WithContextualLogger(oteladapters.NewSlogBridgeLogger("projection-demo")),
			delivery.WithMetrics(oteladapters.NewMetricsCollector(otel.Meter("projection-demo"))),
			delivery.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("projection-demo"))),
		)
	}

	processor, err := delivery.NewProcessor(feed, checkpoints, shell.DomainEventFrom, projectionName, root, processorOptions...)
	if err != nil {
		log.Fatalf("Failed to create processor: %v", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- processor.Run(ctx)
	}()

	log.Printf("Projection processor started: projection=%s, batch_size=%d, poll_interval=%s",
		projectionName, cfg.BatchSize, cfg.PollInterval)
	log.Printf("Press Ctrl+C to stop...")

	// Wait for shutdown signal or processor error
	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()
		<-errChan
	case runErr := <-errChan:
		if runErr != nil {
			log.Printf("Processor stopped with error: %v", runErr)
		}
	}

	log.Printf("Projection processor stopped")
}

func parseFlags() Config {
	var (
		observability = flag.Bool("observability-enabled", false, "Enable OpenTelemetry observability")
		redisURL      = flag.String("redis-url", "", "Redis URL for checkpoints (empty: checkpoints live in Postgres)")
		natsURL       = flag.String("nats-url", "", "NATS URL for progress notifications (empty: no publishing)")
		batchSize     = flag.Int("batch-size", defaultBatchSize, "Events fetched per processor run")
		pollInterval  = flag.Duration("poll-interval", defaultPollInterval, "Wait between idle runs")
	)

	flag.Parse()

	return Config{
		ObservabilityEnabled: *observability,
		RedisURL:             *redisURL,
		NATSURL:              *natsURL,
		BatchSize:            *batchSize,
		PollInterval:         *pollInterval,
	}
}

func buildCheckpointStore(cfg Config, pool *pgxpool.Pool, logger *slog.Logger) (delivery.CheckpointStore, error) {
	if cfg.RedisURL != "" {
		client, err := redisengine.Connect(cfg.RedisURL)
		if err != nil {
			return nil, err
		}

		return redisengine.NewCheckpointStore(client, redisengine.WithLogger(logger))
	}

	return postgresengine.NewCheckpointStoreFromPGXPool(pool, postgresengine.WithStoreLogger(logger))
}
