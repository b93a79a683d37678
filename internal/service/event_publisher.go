package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bareloved/gigpack-sub000/internal/domain"
	"github.com/bareloved/gigpack-sub000/pkg/kafka"
	"github.com/google/uuid"
)

// EventPublisher defines the interface for publishing gig pack events
type EventPublisher interface {
	// PublishGigPackCreated publishes a gig pack created event
	PublishGigPackCreated(ctx context.Context, pack *domain.GigPack) error

	// PublishGigPackUpdated publishes a gig pack updated event
	PublishGigPackUpdated(ctx context.Context, pack *domain.GigPack) error

	// PublishGigPackDeleted publishes a gig pack deleted event
	PublishGigPackDeleted(ctx context.Context, pack *domain.GigPack) error

	// PublishScheduleImported publishes a schedule imported event
	PublishScheduleImported(ctx context.Context, pack *domain.GigPack, importedCount int) error

	// Close closes the event publisher
	Close() error
}

// messageProducer is the part of kafka.Producer the publisher needs
type messageProducer interface {
	Produce(ctx context.Context, msg *kafka.Message) error
	Close()
}

// KafkaEventPublisher implements EventPublisher using Kafka
type KafkaEventPublisher struct {
	producer    messageProducer
	topic       string
	serviceName string
}

// EventPublisherConfig contains configuration for the event publisher
type EventPublisherConfig struct {
	Brokers     []string
	Topic       string
	ServiceName string
	ClientID    string
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(ctx context.Context, cfg *EventPublisherConfig) (*KafkaEventPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("event publisher config is required")
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "gigpack-api-producer"
	}

	producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
		Brokers:       cfg.Brokers,
		ClientID:      clientID,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
		RecordRetries: 5,
		LingerMs:      10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return newKafkaEventPublisher(producer, cfg.Topic, cfg.ServiceName), nil
}

func newKafkaEventPublisher(producer messageProducer, topic, serviceName string) *KafkaEventPublisher {
	if topic == "" {
		topic = "gigpack-events"
	}
	if serviceName == "" {
		serviceName = "gigpack-api"
	}
	return &KafkaEventPublisher{
		producer:    producer,
		topic:       topic,
		serviceName: serviceName,
	}
}

// PublishGigPackCreated publishes a gig pack created event
func (p *KafkaEventPublisher) PublishGigPackCreated(ctx context.Context, pack *domain.GigPack) error {
	return p.publishEvent(ctx, domain.NewGigPackEvent(domain.GigPackEventCreated, pack, uuid.New().String()))
}

// PublishGigPackUpdated publishes a gig pack updated event
func (p *KafkaEventPublisher) PublishGigPackUpdated(ctx context.Context, pack *domain.GigPack) error {
	return p.publishEvent(ctx, domain.NewGigPackEvent(domain.GigPackEventUpdated, pack, uuid.New().String()))
}

// PublishGigPackDeleted publishes a gig pack deleted event
func (p *KafkaEventPublisher) PublishGigPackDeleted(ctx context.Context, pack *domain.GigPack) error {
	return p.publishEvent(ctx, domain.NewGigPackEvent(domain.GigPackEventDeleted, pack, uuid.New().String()))
}

// PublishScheduleImported publishes a schedule imported event
func (p *KafkaEventPublisher) PublishScheduleImported(ctx context.Context, pack *domain.GigPack, importedCount int) error {
	event := domain.NewGigPackEvent(domain.GigPackEventScheduleImported, pack, uuid.New().String())
	event.Data.ImportedCount = importedCount
	return p.publishEvent(ctx, event)
}

// Close closes the event publisher
func (p *KafkaEventPublisher) Close() error {
	if p.producer != nil {
		p.producer.Close()
	}
	return nil
}

// publishEvent publishes a gig pack event to Kafka
func (p *KafkaEventPublisher) publishEvent(ctx context.Context, event *domain.GigPackEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	headers := map[string]string{
		"event_type":   string(event.EventType),
		"event_id":     event.EventID,
		"source":       p.serviceName,
		"content_type": "application/json",
	}

	msg := &kafka.Message{
		Topic:     p.topic,
		Key:       []byte(event.Key()),
		Value:     value,
		Headers:   headers,
		Timestamp: event.OccurredAt,
	}

	if err := p.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.EventType, err)
	}

	return nil
}

// NoOpEventPublisher is used when Kafka is disabled and in tests
type NoOpEventPublisher struct{}

// NewNoOpEventPublisher creates a new no-op event publisher
func NewNoOpEventPublisher() *NoOpEventPublisher {
	return &NoOpEventPublisher{}
}

// PublishGigPackCreated is a no-op
func (p *NoOpEventPublisher) PublishGigPackCreated(ctx context.Context, pack *domain.GigPack) error {
	return nil
}

// PublishGigPackUpdated is a no-op
func (p *NoOpEventPublisher) PublishGigPackUpdated(ctx context.Context, pack *domain.GigPack) error {
	return nil
}

// PublishGigPackDeleted is a no-op
func (p *NoOpEventPublisher) PublishGigPackDeleted(ctx context.Context, pack *domain.GigPack) error {
	return nil
}

// PublishScheduleImported is a no-op
func (p *NoOpEventPublisher) PublishScheduleImported(ctx context.Context, pack *domain.GigPack, importedCount int) error {
	return nil
}

// Close is a no-op
func (p *NoOpEventPublisher) Close() error {
	return nil
}
