// Package publisher emits audit events with fire-and-forget semantics.
//
// The age-verification state transition must complete regardless of the audit
// trail's fate, so Emit never blocks and never returns an error: events are
// queued to a buffered inbox and persisted by a background worker. A full
// inbox drops the event and counts the drop; losing an audit line is
// preferable to failing a legally-mandated verification flow.
package publisher

import (
	"context"
	"log/slog"
	"time"

	audit "botilleria/pkg/platform/audit"
)

const defaultInboxSize = 1024

// Publisher queues events for asynchronous persistence.
type Publisher struct {
	store   audit.Store
	inbox   chan audit.Event
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithInboxSize overrides the default inbox capacity.
func WithInboxSize(n int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, n)
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// New creates a publisher writing to store.
func New(store audit.Store, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		inbox:  make(chan audit.Event, defaultInboxSize),
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit queues an event without blocking. A zero timestamp is stamped here so
// callers don't have to care.
func (p *Publisher) Emit(_ context.Context, event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
		if p.metrics != nil {
			p.metrics.IncEmitted()
		}
	default:
		if p.metrics != nil {
			p.metrics.IncDropped()
		}
		p.logger.Warn("audit inbox full, event dropped",
			"action", event.Action,
			"session_id", event.SessionID,
		)
	}
}

// Run drains the inbox until ctx is cancelled, then flushes what remains.
// Persistence failures are logged and the event is discarded; the worker
// never stops over a bad write.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.drain()
			return
		case event := <-p.inbox:
			p.persist(event)
		}
	}
}

func (p *Publisher) drain() {
	for {
		select {
		case event := <-p.inbox:
			p.persist(event)
		default:
			return
		}
	}
}

func (p *Publisher) persist(event audit.Event) {
	// Fresh context: the request that emitted this event may be long gone.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := p.store.Append(ctx, event); err != nil {
		if p.metrics != nil {
			p.metrics.IncPersistFailures()
		}
		p.logger.Warn("audit event persistence failed",
			"action", event.Action,
			"session_id", event.SessionID,
			"error", err,
		)
	}
}
