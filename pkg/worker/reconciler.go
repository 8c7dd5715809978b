package worker

import (
	"context"
	"time"

	"github.com/medibook/booking-api/internal/service/ledger"
	"github.com/medibook/booking-api/pkg/logger"
)

// ReconcilerConfig controls the orphan sweep cadence. Grace is how long a
// reservation may sit unconfirmed before it is reclaimed; it must be
// comfortably longer than a booking request's lifetime.
type ReconcilerConfig struct {
	Interval time.Duration
	Grace    time.Duration
}

// Reconciler periodically reclaims slot reservations whose booking never
// completed, so crashed bookings cannot block a slot forever.
type Reconciler struct {
	ledger *ledger.Service
	config ReconcilerConfig
	logger *logger.Logger
}

func NewReconciler(ledgerSvc *ledger.Service, config ReconcilerConfig, log *logger.Logger) *Reconciler {
	if config.Interval <= 0 {
		config.Interval = 5 * time.Minute
	}
	if config.Grace <= 0 {
		config.Grace = 15 * time.Minute
	}
	return &Reconciler{
		ledger: ledgerSvc,
		config: config,
		logger: log,
	}
}

func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reconciler) sweep(ctx context.Context) {
	released, err := r.ledger.ReleaseOrphans(ctx, r.config.Grace)
	if err != nil {
		r.logger.Error(err, "orphan sweep failed")
		return
	}
	if released > 0 {
		r.logger.Info("reclaimed orphaned slot reservations", "count", released)
	}
}
