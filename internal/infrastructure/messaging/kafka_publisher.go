package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LendPeak/LendPeak2-sub000/internal/domain/event"
	"github.com/LendPeak/LendPeak2-sub000/pkg/events"
	"github.com/LendPeak/LendPeak2-sub000/pkg/kafka"
)

// KafkaEventPublisher implements port.EventPublisher. Events are first
// written to the outbox, then handed to the broker; the relay retries
// anything the direct publish missed.
type KafkaEventPublisher struct {
	producer *kafka.Producer
	outbox   events.OutboxRepository
	topic    string
	logger   *slog.Logger
}

// NewKafkaEventPublisher creates a Kafka-backed event publisher.
func NewKafkaEventPublisher(producer *kafka.Producer, outbox events.OutboxRepository, topic string, logger *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		outbox:   outbox,
		topic:    topic,
		logger:   logger,
	}
}

// Publish stores the events in the outbox and attempts an immediate send.
// A broker failure is not an error here; the entries stay unpublished and
// the relay picks them up.
func (p *KafkaEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	entries := events.NewOutboxEntries(evts...)
	if err := p.outbox.Store(ctx, entries); err != nil {
		return fmt.Errorf("store events: %w", err)
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

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		p.logger.WarnContext(ctx, "direct event publish failed, relay will retry",
			slog.String("topic", p.topic),
			slog.Int("events", len(messages)),
			slog.String("error", err.Error()))
		return nil
	}

	if err := p.outbox.MarkPublished(ctx, ids); err != nil {
		p.logger.WarnContext(ctx, "failed to mark events published",
			slog.String("error", err.Error()))
	}
	return nil
}
