package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the checkout module.
type Metrics struct {
	// Status transitions after an evaluation: blocked, action_required, ready.
	Evaluations *prometheus.CounterVec

	// Orders placed.
	Placed prometheus.Counter

	// Finalize attempts rejected, by reason: not_evaluated, non_compliant,
	// pending_acks, age_unverified.
	FinalizeRejections *prometheus.CounterVec
}

// New creates a Metrics instance with all checkout metrics registered.
func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "botilleria_checkout_evaluations_total",
			Help: "Total checkout evaluations by resulting status",
		}, []string{"status"}),

		Placed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "botilleria_checkout_orders_placed_total",
			Help: "Total orders placed",
		}),

		FinalizeRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "botilleria_checkout_finalize_rejections_total",
			Help: "Total rejected finalize attempts by reason",
		}, []string{"reason"}),
	}
}

// IncrementEvaluation records an evaluation's resulting status.
func (m *Metrics) IncrementEvaluation(status string) {
	if m != nil {
		m.Evaluations.WithLabelValues(status).Inc()
	}
}

// IncrementPlaced records a placed order.
func (m *Metrics) IncrementPlaced() {
	if m != nil {
		m.Placed.Inc()
	}
}

// IncrementFinalizeRejection records a rejected finalize attempt.
func (m *Metrics) IncrementFinalizeRejection(reason string) {
	if m != nil {
		m.FinalizeRejections.WithLabelValues(reason).Inc()
	}
}
