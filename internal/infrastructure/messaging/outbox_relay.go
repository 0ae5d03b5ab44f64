package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/LendPeak/LendPeak2-sub000/pkg/events"
	"github.com/LendPeak/LendPeak2-sub000/pkg/kafka"
)

const (
	relayInterval  = 5 * time.Second
	relayBatchSize = 100
)

// OutboxRelay periodically drains unpublished outbox entries to Kafka.
// It backstops KafkaEventPublisher: anything the direct send missed is
// retried here until the broker accepts it.
type OutboxRelay struct {
	outbox   events.OutboxRepository
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewOutboxRelay creates a relay over the given outbox and producer.
func NewOutboxRelay(outbox events.OutboxRepository, producer *kafka.Producer, topic string, logger *slog.Logger) *OutboxRelay {
	return &OutboxRelay{
		outbox:   outbox,
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Run drains the outbox on a fixed interval until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(relayInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.drain(ctx); err != nil {
				r.logger.WarnContext(ctx, "outbox drain failed",
					slog.String("error", err.Error()))
			}
		}
	}
}

func (r *OutboxRelay) drain(ctx context.Context) error {
	entries, err := r.outbox.FetchUnpublished(ctx, relayBatchSize)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(entries))
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		messages = append(messages, kafka.Message{
			Key:   []byte(entry.AggregateID),
			Value: entry.Payload,
			Headers: map[string]string{
				"event_type": entry.EventType,
				"event_id":   entry.ID,
			},
		})
		ids = append(ids, entry.ID)
	}

	if err := r.producer.Publish(ctx, r.topic, messages...); err != nil {
		return err
	}
	if err := r.outbox.MarkPublished(ctx, ids); err != nil {
		return err
	}

	r.logger.InfoContext(ctx, "relayed outbox events",
		slog.String("topic", r.topic),
		slog.Int("count", len(entries)))
	return nil
}
