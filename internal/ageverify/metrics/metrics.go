package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the age-verification module.
type Metrics struct {
	// Attempts by outcome: success, underage, invalid_input, missing_input, declined.
	Attempts *prometheus.CounterVec

	// Gate reads by resolved state: verified, unverified, expired, declined, replayed.
	GateReads *prometheus.CounterVec
}

// New creates a Metrics instance with all age-verification metrics registered.
func New() *Metrics {
	return &Metrics{
		Attempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "botilleria_age_verification_attempts_total",
			Help: "Total age verification attempts by outcome",
		}, []string{"outcome"}),

		GateReads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "botilleria_age_gate_reads_total",
			Help: "Total age gate status reads by resolved state",
		}, []string{"state"}),
	}
}

// IncrementAttempt records a verification attempt outcome.
func (m *Metrics) IncrementAttempt(outcome string) {
	if m != nil {
		m.Attempts.WithLabelValues(outcome).Inc()
	}
}

// IncrementGateRead records a gate status read.
func (m *Metrics) IncrementGateRead(state string) {
	if m != nil {
		m.GateReads.WithLabelValues(state).Inc()
	}
}
