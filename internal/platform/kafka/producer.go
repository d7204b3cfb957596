// Package kafka wraps the franz-go client for the compliance audit stream.
// The stream is the durable copy of every age-verification attempt; local
// stores are a fallback when Kafka is not configured.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"botilleria/internal/platform/config"
)

// Producer publishes records to the audit topic.
type Producer struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewProducer connects to the configured brokers.
// Returns nil if no brokers are configured.
func NewProducer(cfg config.KafkaConfig, logger *slog.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.AuditTopic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	return &Producer{client: client, topic: cfg.AuditTopic, logger: logger}, nil
}

// ProduceAsync publishes a record without blocking the caller. Delivery
// failures are logged and dropped; the audit trail is best effort and must
// never fail the verification flow.
func (p *Producer) ProduceAsync(ctx context.Context, key, value []byte) {
	record := &kgo.Record{Topic: p.topic, Key: key, Value: value}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("audit record delivery failed",
				"topic", p.topic,
				"error", err,
			)
		}
	})
}

// Flush drains in-flight records, bounded by ctx. Called on shutdown.
func (p *Producer) Flush(ctx context.Context) error {
	return p.client.Flush(ctx)
}

// Close flushes and releases the client.
func (p *Producer) Close() {
	p.client.Close()
}

// Client exposes the underlying kgo client for admin operations.
func (p *Producer) Client() *kgo.Client { return p.client }
