package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/alcohol-tracker/pkg/logger"
)

// CatalogRefreshedHandler reacts to another instance refreshing the catalog
type CatalogRefreshedHandler func(ctx context.Context, event CatalogRefreshedEvent) error

// Consumer wraps Kafka consumer
type Consumer struct {
	consumer   sarama.ConsumerGroup
	groupID    string
	topics     []string
	instanceID string

	mu               sync.RWMutex
	catalogRefreshed CatalogRefreshedHandler
}

// NewConsumer creates a new Kafka consumer. Each instance should use its own
// groupID so that every replica sees every catalog event.
func NewConsumer(brokers []string, groupID, instanceID string) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	topics := []string{TopicCatalogRefreshed}
	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("group_id", groupID).
		Strs("topics", topics).
		Msg("Kafka consumer initialized")

	return &Consumer{
		consumer:   group,
		groupID:    groupID,
		topics:     topics,
		instanceID: instanceID,
	}, nil
}

// OnCatalogRefreshed registers the handler for catalog.refreshed events
func (c *Consumer) OnCatalogRefreshed(h CatalogRefreshedHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalogRefreshed = h
}

// Start consumes until ctx is cancelled
func (c *Consumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{consumer: c}

	go func() {
		for {
			if err := c.consumer.Consume(ctx, c.topics, handler); err != nil {
				logger.Logger.Error().Err(err).Msg("Error from consumer")
			}
			if ctx.Err() != nil {
				logger.Logger.Info().Msg("Consumer context cancelled, stopping...")
				return
			}
		}
	}()

	go func() {
		for err := range c.consumer.Errors() {
			logger.Logger.Error().Err(err).Msg("Consumer error")
		}
	}()

	logger.Logger.Info().
		Strs("topics", c.topics).
		Str("group_id", c.groupID).
		Msg("Kafka consumer started")
	return nil
}

// Close closes the Kafka consumer
func (c *Consumer) Close() error {
	if c.consumer != nil {
		return c.consumer.Close()
	}
	return nil
}

// consumerGroupHandler implements sarama.ConsumerGroupHandler
type consumerGroupHandler struct {
	consumer *Consumer
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		h.consumer.handleMessage(session.Context(), message)
		session.MarkMessage(message, "")
	}
	return nil
}

func header(message *sarama.ConsumerMessage, key string) string {
	for _, h := range message.Headers {
		if h != nil && string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

// handleMessage reports whether a handler ran successfully
func (c *Consumer) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) bool {
	carrier := propagation.MapCarrier{}
	for _, key := range []string{"traceparent", "tracestate"} {
		if v := header(message, key); v != "" {
			carrier[key] = v
		}
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	eventType := header(message, headerEventType)
	ctx, span := otel.Tracer("kafka-consumer").Start(ctx, "kafka.consume."+eventType,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.source", message.Topic),
			attribute.String("messaging.source_kind", "topic"),
			attribute.Int("messaging.kafka.partition", int(message.Partition)),
			attribute.Int64("messaging.kafka.offset", message.Offset),
			attribute.String("event.type", eventType),
			attribute.String("event.id", header(message, headerEventID)),
		),
	)
	defer span.End()

	switch eventType {
	case EventTypeCatalogRefreshed:
		var event CatalogRefreshedEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to unmarshal event")
			logger.Error(ctx).Err(err).Str("event_type", eventType).Msg("Failed to unmarshal event")
			return false
		}
		if event.InstanceID == c.instanceID {
			span.SetAttributes(attribute.Bool("event.own", true))
			return false
		}

		c.mu.RLock()
		handler := c.catalogRefreshed
		c.mu.RUnlock()
		if handler == nil {
			logger.Warn(ctx).Str("event_type", eventType).Msg("No handler registered for event type")
			return false
		}

		if err := handler(ctx, event); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to handle event")
			logger.Error(ctx).Err(err).Str("event_id", event.EventID).Msg("Failed to handle event")
			return false
		}

		span.SetStatus(codes.Ok, "Event handled successfully")
		logger.Info(ctx).
			Str("event_id", event.EventID).
			Str("from_instance", event.InstanceID).
			Int("products", event.ProductCount).
			Msg("Catalog refreshed elsewhere, reloaded")
		return true

	case "":
		span.SetStatus(codes.Error, "Message without event_type header")
		logger.Warn(ctx).Str("topic", message.Topic).Msg("Message without event_type header")
		return false

	default:
		span.SetStatus(codes.Error, "Unknown event type")
		logger.Warn(ctx).Str("event_type", eventType).Msg("Unknown event type")
		return false
	}
}
