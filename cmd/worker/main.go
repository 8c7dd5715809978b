package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/medibook/booking-api/internal/config"
	"github.com/medibook/booking-api/internal/repository/postgres"
	ledgerService "github.com/medibook/booking-api/internal/service/ledger"
	"github.com/medibook/booking-api/pkg/logger"
	"github.com/medibook/booking-api/pkg/metrics"
	"github.com/medibook/booking-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("booking_worker")
	ledgerSvc := ledgerService.NewService(postgres.NewSlotRepository(db), m)

	reconciler := worker.NewReconciler(ledgerSvc, worker.ReconcilerConfig{
		Interval: cfg.Worker.SweepInterval,
		Grace:    cfg.Worker.OrphanGrace,
	}, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	go reconciler.Start(ctx)
	log.Info().
		Dur("interval", cfg.Worker.SweepInterval).
		Dur("grace", cfg.Worker.OrphanGrace).
		Msg("reconciler started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker...")
	cancel()
}
