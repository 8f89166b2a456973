package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Topic carries every domain event; consumers filter on Event.Type.
const Topic = "academy.events"

// Event is the envelope for all published domain events.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Event types
const (
	EventCourseCreated   = "course.created"
	EventCourseUpdated   = "course.updated"
	EventCourseDeleted   = "course.deleted"
	EventChapterCreated  = "chapter.created"
	EventChapterUpdated  = "chapter.updated"
	EventChapterDeleted  = "chapter.deleted"
	EventUserRegistered  = "user.registered"
	EventUserDeleted     = "user.deleted"
	EventEnrollInitiated = "enrollment.initiated"
	EventPaymentRecorded = "payment.recorded"
)

// NewEvent builds an event envelope with a fresh ID and timestamp.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    "academy-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type watermillPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

// NewKafkaEventPublisher creates a publisher backed by Kafka.
func NewKafkaEventPublisher(brokers []string, logger *slog.Logger) (EventPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &watermillPublisher{publisher: publisher, logger: logger}, nil
}

// NewInProcessEventPublisher creates a publisher backed by an in-process
// channel. Used in development when no brokers are configured.
func NewInProcessEventPublisher(logger *slog.Logger) EventPublisher {
	publisher := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewSlogLogger(logger),
	)

	return &watermillPublisher{publisher: publisher, logger: logger}
}

func (p *watermillPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(Topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	p.logger.Debug("Event published", "event_id", event.ID, "event_type", event.Type)
	return nil
}

func (p *watermillPublisher) Close() error {
	return p.publisher.Close()
}
