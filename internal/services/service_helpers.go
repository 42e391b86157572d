package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/CareScope-Clinic/assessment-service/internal/events"
	"github.com/google/uuid"
)

// publishEvent sends a lifecycle event on a best-effort basis. Publishing
// failures are logged, never surfaced; the state transition that triggered
// the event has already been persisted.
func publishEvent(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, eventType string, data interface{}) {
	if publisher == nil {
		return
	}

	event := &events.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "assessment-service",
		Timestamp: time.Now(),
		Data:      data,
	}

	if err := publisher.Publish(ctx, event); err != nil {
		logger.Error("Failed to publish event", "event_type", eventType, "error", err)
	}
}
