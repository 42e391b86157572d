package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// MockEventPublisher records published events in memory for tests.
type MockEventPublisher struct {
	logger *slog.Logger

	mu     sync.Mutex
	events []*Event
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(_ context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Source == "" {
		event.Source = "assessment-service"
	}

	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	m.logger.Debug("Mock event published", "event_type", event.Type)
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns a snapshot of everything published so far.
func (m *MockEventPublisher) GetPublishedEvents() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Event, len(m.events))
	copy(out, m.events)
	return out
}

// ClearEvents discards previously recorded events.
func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	m.events = nil
	m.mu.Unlock()
}
