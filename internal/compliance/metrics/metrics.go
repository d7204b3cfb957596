package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance module.
type Metrics struct {
	// Evaluations by outcome: compliant, non_compliant.
	Evaluations *prometheus.CounterVec

	// Restrictions raised, by type: region, time, quantity, age, signature.
	Restrictions *prometheus.CounterVec

	// Cart lines referencing a product the catalog does not know.
	UnknownProducts prometheus.Counter
}

// New creates a Metrics instance with all compliance metrics registered.
func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "botilleria_compliance_evaluations_total",
			Help: "Total compliance evaluations by outcome",
		}, []string{"outcome"}),

		Restrictions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "botilleria_compliance_restrictions_total",
			Help: "Total delivery restrictions raised by type",
		}, []string{"type"}),

		UnknownProducts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "botilleria_compliance_unknown_products_total",
			Help: "Total cart lines skipped because the product is unknown",
		}),
	}
}

// IncrementEvaluation records an evaluation outcome.
func (m *Metrics) IncrementEvaluation(outcome string) {
	if m != nil {
		m.Evaluations.WithLabelValues(outcome).Inc()
	}
}

// IncrementRestriction records one raised restriction.
func (m *Metrics) IncrementRestriction(restrictionType string) {
	if m != nil {
		m.Restrictions.WithLabelValues(restrictionType).Inc()
	}
}

// IncrementUnknownProduct records a skipped cart line.
func (m *Metrics) IncrementUnknownProduct() {
	if m != nil {
		m.UnknownProducts.Inc()
	}
}
