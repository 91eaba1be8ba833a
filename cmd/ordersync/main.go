package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fdogov/ordersync/internal/app"
	"github.com/fdogov/ordersync/internal/config"
	"github.com/fdogov/ordersync/internal/logger"
	"github.com/fdogov/ordersync/internal/store/postgres"
)

func main() {
	ctx := context.Background()

	// Сквозной trace ID на весь жизненный цикл процесса
	appTraceID := uuid.New().String()
	ctx = logger.ContextWithTraceID(ctx, appTraceID)

	cfg := config.LoadConfig()

	log, err := logger.InitLogger(cfg.Logger)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log = log.With(zap.String("app_trace_id", appTraceID))
	log.Info("Starting application")

	// Недоступное хранилище на старте — фатальная ошибка конфигурации
	store, err := postgres.NewStore(cfg.Database)
	if err != nil {
		log.Fatal("Failed to create store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close store", zap.Error(err))
		}
	}()

	application, err := app.NewApp(
		cfg,
		store.OrderStore(),
		store.EventStore(),
		store.WatermarkStore(),
		store.DBTransactor(),
		log,
	)
	if err != nil {
		log.Fatal("Failed to create application", zap.Error(err))
	}

	go handleSignals(application, log)

	if err := application.Start(ctx); err != nil {
		log.Fatal("Failed to start application", zap.Error(err))
	}
}

// handleSignals обрабатывает сигналы остановки приложения
func handleSignals(application *app.App, log *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	application.Stop()
}
