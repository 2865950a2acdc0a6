package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	drinkdomain "github.com/tair/alcohol-tracker/internal/drink/domain"
	"github.com/tair/alcohol-tracker/pkg/logger"
)

// Publisher wraps Kafka producer
type Publisher struct {
	producer   sarama.SyncProducer
	instanceID string
	now        func() time.Time
}

// NewPublisher creates a new Kafka publisher. instanceID tags every event so
// consumers can skip their own.
func NewPublisher(brokers []string, instanceID string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("instance_id", instanceID).
		Msg("Kafka publisher initialized")

	return newPublisher(producer, instanceID), nil
}

func newPublisher(producer sarama.SyncProducer, instanceID string) *Publisher {
	return &Publisher{producer: producer, instanceID: instanceID, now: time.Now}
}

// EntryLogged publishes a drink.entry.logged event
func (p *Publisher) EntryLogged(ctx context.Context, entry *drinkdomain.DrinkEntry) error {
	event := DrinkEntryLoggedEvent{
		EventID:       uuid.NewString(),
		EventType:     EventTypeDrinkEntryLogged,
		InstanceID:    p.instanceID,
		EntryID:       entry.ID,
		DrinkID:       entry.DrinkID,
		DrinkName:     entry.Drink.Name,
		StandardUnits: entry.Drink.StandardUnits,
		ConsumedAt:    entry.Timestamp,
		Timestamp:     p.now().UTC(),
	}

	return p.send(ctx, TopicDrinkEntryLogged, event.EventType, event.EventID,
		fmt.Sprintf("entry_%d", entry.ID), event,
		attribute.Int64("entry.id", int64(entry.ID)),
		attribute.Int64("drink.id", int64(entry.DrinkID)),
	)
}

// CatalogRefreshed publishes a catalog.refreshed event
func (p *Publisher) CatalogRefreshed(ctx context.Context, productCount int, fetchedAt time.Time) error {
	event := CatalogRefreshedEvent{
		EventID:      uuid.NewString(),
		EventType:    EventTypeCatalogRefreshed,
		InstanceID:   p.instanceID,
		ProductCount: productCount,
		FetchedAt:    fetchedAt.UTC(),
		Timestamp:    p.now().UTC(),
	}

	return p.send(ctx, TopicCatalogRefreshed, event.EventType, event.EventID,
		"catalog", event,
		attribute.Int("catalog.products", productCount),
	)
}

func (p *Publisher) send(ctx context.Context, topic, eventType, eventID, key string, event interface{}, attrs ...attribute.KeyValue) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", topic),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
		),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte(headerEventType), Value: []byte(eventType)},
		{Key: []byte(headerEventID), Value: []byte(eventID)},
	}
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Error(ctx).
			Err(err).
			Str("topic", topic).
			Str("event_id", eventID).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	logger.Info(ctx).
		Str("event_id", eventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
