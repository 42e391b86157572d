package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// WatermillPublisher publishes lifecycle events onto a watermill publisher
// (in-process gochannel by default, Kafka in production).
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
	source    string
	logger    *slog.Logger
}

// NewGoChannelPublisher creates an in-process publisher, used when no
// broker is configured.
func NewGoChannelPublisher(topic string, logger *slog.Logger) *WatermillPublisher {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))

	return &WatermillPublisher{
		publisher: pubSub,
		topic:     topic,
		source:    "assessment-service",
		logger:    logger,
	}
}

// NewWatermillPublisher wraps an existing watermill publisher (e.g. the
// Kafka publisher from NewKafkaPublisher).
func NewWatermillPublisher(publisher message.Publisher, topic string, logger *slog.Logger) *WatermillPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     topic,
		source:    "assessment-service",
		logger:    logger,
	}
}

func (p *WatermillPublisher) Publish(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Source == "" {
		event.Source = p.source
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	p.logger.Debug("Event published", "event_id", event.ID, "event_type", event.Type, "topic", p.topic)
	return nil
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
