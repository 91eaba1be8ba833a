package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fdogov/ordersync/internal/app/kafka"
	"github.com/fdogov/ordersync/internal/config"
	"github.com/fdogov/ordersync/internal/domain/ingest"
	"github.com/fdogov/ordersync/internal/metrics"
	"github.com/fdogov/ordersync/internal/producers"
	"github.com/fdogov/ordersync/internal/store"
)

// App represents the order reconciliation application
type App struct {
	cfg            config.Config
	feed           *kafka.Feed
	kafkaProducer  *kafka.Producer
	scheduler      *ingest.Scheduler
	watermarkStore store.WatermarkStore
	metricsServer  *http.Server
	cancel         context.CancelFunc
	done           chan struct{}
	stopOnce       sync.Once
	logger         *zap.Logger
}

// NewApp creates a new App instance
func NewApp(
	cfg config.Config,
	orderStore store.OrderStore,
	eventStore store.EventStore,
	watermarkStore store.WatermarkStore,
	transactor store.DBTransactor,
	logger *zap.Logger,
) (*App, error) {
	// Create Kafka producer for the dead-letter and conflict sinks
	kafkaProducer, err := kafka.NewProducer(cfg.Kafka.Brokers, logger.Named("kafka-producer"))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	deadLetterProducer := producers.NewDeadLetterProducer(kafkaProducer, cfg.Kafka.DeadLetterTopic)
	conflictProducer := producers.NewConflictProducer(kafkaProducer, cfg.Kafka.ConflictTopic)

	// Create the feed reader
	feed := kafka.NewFeed(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.OrderEventTopic)
	feed.SetLogger(logger.Named("kafka-feed"))

	// Create the ingestion pipeline
	engine := ingest.NewEngine(orderStore, eventStore, transactor, ingest.NewResolver(), ingest.SystemClock{})
	scheduler := ingest.NewScheduler(
		feed,
		ingest.NewNormalizer(),
		engine,
		watermarkStore,
		deadLetterProducer,
		conflictProducer,
		ingest.SchedulerConfig{
			FeedID:         cfg.Scheduler.FeedID,
			Workers:        cfg.Scheduler.Workers,
			BatchSize:      cfg.Scheduler.BatchSize,
			MaxAttempts:    cfg.Scheduler.MaxAttempts,
			InitialBackoff: cfg.Scheduler.InitialBackoff,
			MaxBackoff:     cfg.Scheduler.MaxBackoff,
			PollRetryDelay: cfg.Scheduler.PollRetryDelay,
		},
	)

	metrics.Register()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:         ":" + cfg.Metrics.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		feed:           feed,
		kafkaProducer:  kafkaProducer,
		scheduler:      scheduler,
		watermarkStore: watermarkStore,
		metricsServer:  metricsServer,
		done:           make(chan struct{}),
		logger:         logger,
	}, nil
}

// Start starts the application and blocks until the scheduler stops
func (a *App) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)
	defer close(a.done)

	watermark, err := a.watermarkStore.Get(ctx, a.cfg.Scheduler.FeedID)
	if err != nil {
		return fmt.Errorf("failed to read watermark: %w", err)
	}

	if err := a.feed.Start(ctx, watermark); err != nil {
		return fmt.Errorf("failed to start Kafka feed: %w", err)
	}

	go func() {
		a.logger.Info("Starting metrics server", zap.String("port", a.cfg.Metrics.Port))
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	return a.scheduler.Run(ctx)
}

// Stop stops the application
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}

		// Wait for the in-flight batch to finish
		<-a.done

		if err := a.feed.Close(); err != nil {
			a.logger.Error("Error closing Kafka feed", zap.Error(err))
		}
		if err := a.kafkaProducer.Close(); err != nil {
			a.logger.Error("Error closing Kafka producer", zap.Error(err))
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Error shutting down metrics server", zap.Error(err))
		}

		a.logger.Info("Application stopped")
	})
}
