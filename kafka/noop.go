package kafka

import (
	"context"
	"time"

	drinkdomain "github.com/tair/alcohol-tracker/internal/drink/domain"
	"github.com/tair/alcohol-tracker/pkg/logger"
)

// NoopPublisher stands in for Publisher when no brokers are configured
type NoopPublisher struct{}

func (NoopPublisher) EntryLogged(ctx context.Context, entry *drinkdomain.DrinkEntry) error {
	logger.Debug(ctx).Uint("entry_id", entry.ID).Msg("Kafka disabled, entry logged event dropped")
	return nil
}

func (NoopPublisher) CatalogRefreshed(ctx context.Context, productCount int, _ time.Time) error {
	logger.Debug(ctx).Int("products", productCount).Msg("Kafka disabled, catalog refreshed event dropped")
	return nil
}

func (NoopPublisher) Close() error { return nil }
