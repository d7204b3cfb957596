package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"botilleria/internal/platform/config"
)

// Message is one record from the audit topic, decoupled from the client
// library so handlers stay testable.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
}

// Handler processes a single message. Returning an error leaves the offset
// uncommitted so the record is redelivered; return nil to commit past
// messages that should not block the partition.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// Consumer reads the audit topic within a consumer group and hands each
// record to a Handler. Offsets are committed only after the handler succeeds.
type Consumer struct {
	client *kgo.Client
	logger *slog.Logger
}

// NewConsumer joins the configured consumer group on the audit topic.
func NewConsumer(cfg config.KafkaConfig, logger *slog.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka consumer: no brokers configured")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.ConsumerGroup),
		kgo.ConsumeTopics(cfg.AuditTopic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer client: %w", err)
	}

	return &Consumer{client: client, logger: logger}, nil
}

// Run polls until ctx is canceled. Records are processed in fetch order;
// a handler error stops the current batch so the failed record and everything
// after it are redelivered on the next poll.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error("fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		var processed []*kgo.Record
		var handleErr error
		fetches.EachRecord(func(rec *kgo.Record) {
			if handleErr != nil {
				return
			}
			msg := &Message{
				Topic:     rec.Topic,
				Partition: rec.Partition,
				Offset:    rec.Offset,
				Key:       rec.Key,
				Value:     rec.Value,
				Timestamp: rec.Timestamp,
			}
			if err := handler.Handle(ctx, msg); err != nil {
				handleErr = err
			} else {
				processed = append(processed, rec)
			}
		})

		if len(processed) > 0 {
			if err := c.client.CommitRecords(ctx, processed...); err != nil {
				c.logger.Error("commit failed", "error", err)
			}
		}
		if handleErr != nil {
			c.logger.Warn("handler failed, will retry uncommitted records",
				"error", handleErr,
			)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
	}
}

// Close leaves the group and releases the client.
func (c *Consumer) Close() {
	c.client.Close()
}
