package events

import (
	"context"
	"fmt"

	"roombook/pkg/kafka"
	"roombook/pkg/middleware"
	"roombook/pkg/model"
)

const Source = "roombook"

// Publisher announces committed bucket changes.
type Publisher interface {
	Publish(ctx context.Context, event model.BookingEvent) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, model.BookingEvent) error { return nil }

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaPublisher writes events keyed by date so every change to one date
// lands on the same partition in order.
type KafkaPublisher struct {
	producer messagePublisher
}

func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event model.BookingEvent) error {
	msg := kafka.NewMessage().
		WithKey(event.Date).
		WithValue(event).
		WithEventID(event.ID).
		WithEventType(event.Type).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithSource(Source).
		WithTimestamp(event.OccurredAt).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event for %s: %w", event.Type, event.Date, err)
	}
	return nil
}
