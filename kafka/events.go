package kafka

import "time"

// DrinkEntryLoggedEvent is published whenever a drink entry is created
type DrinkEntryLoggedEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	InstanceID    string    `json:"instance_id"`
	EntryID       uint      `json:"entry_id"`
	DrinkID       uint      `json:"drink_id"`
	DrinkName     string    `json:"drink_name"`
	StandardUnits float64   `json:"standard_units"`
	ConsumedAt    time.Time `json:"consumed_at"`
	Timestamp     time.Time `json:"timestamp"`
}

// CatalogRefreshedEvent is published after an instance downloaded a new
// catalog so that the others can reload it from the shared store
type CatalogRefreshedEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	InstanceID   string    `json:"instance_id"`
	ProductCount int       `json:"product_count"`
	FetchedAt    time.Time `json:"fetched_at"`
	Timestamp    time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeDrinkEntryLogged = "drink.entry.logged"
	EventTypeCatalogRefreshed = "catalog.refreshed"
)

// Kafka topics
const (
	TopicDrinkEntryLogged = "drink-entry-logged"
	TopicCatalogRefreshed = "catalog-refreshed"
)

// Record header keys
const (
	headerEventType = "event_type"
	headerEventID   = "event_id"
)
