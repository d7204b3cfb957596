package publisher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks audit pipeline health.
type Metrics struct {
	emitted         prometheus.Counter
	dropped         prometheus.Counter
	persistFailures prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		emitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "botilleria_audit_events_emitted_total",
			Help: "Total audit events accepted into the publisher inbox",
		}),
		dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "botilleria_audit_events_dropped_total",
			Help: "Total audit events dropped because the inbox was full",
		}),
		persistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "botilleria_audit_persist_failures_total",
			Help: "Total audit events that failed to persist",
		}),
	}
}

func (m *Metrics) IncEmitted()         { m.emitted.Inc() }
func (m *Metrics) IncDropped()         { m.dropped.Inc() }
func (m *Metrics) IncPersistFailures() { m.persistFailures.Inc() }
