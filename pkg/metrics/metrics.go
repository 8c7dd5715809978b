package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Booking workflow metrics
	BookingsTotal      prometheus.Counter
	BookingConflicts   prometheus.Counter
	CancellationsTotal *prometheus.CounterVec
	CompletionsTotal   prometheus.Counter
	BookingLatency     prometheus.Histogram

	// Slot ledger metrics
	SlotsReserved   prometheus.Counter
	SlotsReleased   prometheus.Counter
	OrphansReleased prometheus.Counter

	// Payment metrics
	PaymentOrders   *prometheus.CounterVec
	PaymentVerified *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		BookingsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Total number of successful appointment bookings",
		}),
		BookingConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Total number of bookings rejected because the slot was taken",
		}),
		CancellationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "Total number of appointment cancellations",
		}, []string{"actor"}),
		CompletionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Total number of appointments marked completed",
		}),
		BookingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "booking_duration_seconds",
			Help:      "Time spent booking an appointment",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		SlotsReserved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slots_reserved_total",
			Help:      "Total number of slot reservations",
		}),
		SlotsReleased: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slots_released_total",
			Help:      "Total number of slot releases",
		}),
		OrphansReleased: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphan_slots_released_total",
			Help:      "Total number of orphaned reservations reclaimed by the sweep",
		}),
		PaymentOrders: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_orders_total",
			Help:      "Total number of payment orders created",
		}, []string{"provider", "status"}),
		PaymentVerified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_verified_total",
			Help:      "Total number of payment verifications",
		}, []string{"provider", "status"}),
	}
}
