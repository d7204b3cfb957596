package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
)

// EnsureTopic creates the audit topic if it does not already exist. Called
// once at startup so first-boot environments don't silently drop audit
// records while auto-creation is disabled.
func (p *Producer) EnsureTopic(ctx context.Context, partitions int32) error {
	adm := kadm.NewClient(p.client)

	resp, err := adm.CreateTopics(ctx, partitions, 1, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, res := range resp {
		if res.Err != nil && !errors.Is(res.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", res.Topic, res.Err)
		}
	}
	return nil
}
