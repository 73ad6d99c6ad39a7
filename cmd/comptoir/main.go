package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"comptoir/internal/config"
	"comptoir/internal/database"
	"comptoir/internal/events"
	"comptoir/internal/fixtures"
	"comptoir/internal/logging"
	"comptoir/internal/metrics"
	"comptoir/internal/reports"
	"comptoir/internal/service"
	"comptoir/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	seed := flag.Bool("seed", false, "load demo fixtures on startup")
	flag.Parse()

	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := initDatabase(cfg, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	metrics.Register()

	eventBus := events.NewEventBus()
	subscribeAuditLog(eventBus, &logger)

	seedServices := fixtures.Services{
		Customers:    service.NewCustomerService(db, eventBus, &logger),
		Resources:    service.NewResourceService(db, eventBus, &logger),
		Sales:        service.NewSalesService(db, eventBus, &logger),
		Reservations: service.NewReservationService(db, eventBus, &logger),
	}
	if *seed {
		if err := fixtures.Load(ctx, db, seedServices, &logger); err != nil {
			return err
		}
	}

	engine := reports.NewEngine(db, cfg.Reporting.HoursPerDay, cfg.Reporting.BusinessDays, &logger)
	exporter := reports.NewExporter(engine, cfg.Exports.Path, &logger)

	exportWorker := worker.NewExportWorker(
		exporter,
		time.Duration(cfg.Exports.IntervalSeconds)*time.Second,
		worker.RetryPolicy{},
		&logger,
	)
	go exportWorker.Start(ctx)

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	logger.Info().Msg("comptoir started")
	<-ctx.Done()
	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := logging.Component(baseLogger, "main")

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Failed to create database directory")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Failed to create export directory")
		return err
	}
	return nil
}

func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize database")
		return nil, err
	}
	return db, nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info().Int("port", port).Msg("Metrics server started")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("Metrics server error")
	}
}

// subscribeAuditLog mirrors every domain event into the structured log.
func subscribeAuditLog(bus *events.EventBus, logger *zerolog.Logger) {
	handler := func(ev *events.Event) error {
		logger.Info().Str("event", ev.Type).RawJSON("payload", ev.Payload).Msg("domain event")
		return nil
	}

	for _, eventType := range []string{
		events.EventSaleRecorded,
		events.EventReservationCreated,
		events.EventReservationConfirmed,
		events.EventReservationHeld,
		events.EventReservationCancelled,
		events.EventReservationCompleted,
		events.EventCustomerCreated,
		events.EventStockAdjusted,
	} {
		bus.Subscribe(eventType, handler)
	}
}
