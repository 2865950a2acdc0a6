package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/tair/alcohol-tracker/internal/catalog/domain"
	"github.com/tair/alcohol-tracker/internal/catalog/fetcher"
	"github.com/tair/alcohol-tracker/pkg/logger"
)

// Loader produces snapshots for the lookup service
type Loader interface {
	Fetch(ctx context.Context, force bool) (*domain.Snapshot, fetcher.Origin, error)
	Cached(ctx context.Context) (*domain.Snapshot, error)
}

// Lookup answers identifier and free-text queries against the freshest
// catalog it can get. Load failures are logged and the previous snapshot
// keeps serving.
type Lookup struct {
	loader   Loader
	notifier domain.RefreshNotifier
	ttl      time.Duration
	now      func() time.Time

	current atomic.Pointer[domain.Snapshot]
	group   singleflight.Group

	tracer       trace.Tracer
	log          zerolog.Logger
	productGauge prometheus.Gauge
	refreshTotal *prometheus.CounterVec
}

func NewLookup(loader Loader, notifier domain.RefreshNotifier, ttl time.Duration, reg prometheus.Registerer) *Lookup {
	productGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_products_loaded",
		Help: "Eligible products currently served by the lookup service",
	})
	refreshTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_total",
			Help: "Catalog refresh attempts by trigger and result",
		},
		[]string{"trigger", "result"},
	)
	if reg != nil {
		reg.MustRegister(productGauge, refreshTotal)
	}

	return &Lookup{
		loader:       loader,
		notifier:     notifier,
		ttl:          ttl,
		now:          time.Now,
		tracer:       otel.Tracer("catalog-lookup"),
		log:          logger.Component("catalog-lookup"),
		productGauge: productGauge,
		refreshTotal: refreshTotal,
	}
}

// FindByIdentifier returns the product whose number, short number or id
// equals id. A miss is reported with false, never as an error.
func (l *Lookup) FindByIdentifier(ctx context.Context, id string) (*domain.SearchResult, bool) {
	ctx, span := l.tracer.Start(ctx, "Lookup.FindByIdentifier")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.identifier", id))

	snap := l.ensureFresh(ctx)
	if snap == nil {
		return nil, false
	}

	p, ok := findByIdentifier(snap.Products, id)
	span.SetAttributes(attribute.Bool("catalog.found", ok))
	if !ok {
		return nil, false
	}
	return &domain.SearchResult{Product: p, Source: domain.Source, Confidence: 1.0}, true
}

// SearchByText ranks products against query. Queries shorter than two
// characters after trimming return an empty list without loading anything.
func (l *Lookup) SearchByText(ctx context.Context, query string, maxResults int) []domain.SearchResult {
	if queryTooShort(query) {
		return []domain.SearchResult{}
	}

	ctx, span := l.tracer.Start(ctx, "Lookup.SearchByText")
	defer span.End()

	snap := l.ensureFresh(ctx)
	if snap == nil {
		return []domain.SearchResult{}
	}

	results := rank(snap.Products, query, maxResults)
	span.SetAttributes(
		attribute.String("catalog.query", query),
		attribute.Int("catalog.results", len(results)),
	)
	return results
}

// Products returns a copy of every eligible product of the current snapshot
func (l *Lookup) Products(ctx context.Context) []domain.Product {
	snap := l.ensureFresh(ctx)
	if snap == nil {
		return []domain.Product{}
	}
	out := make([]domain.Product, len(snap.Products))
	for i, p := range snap.Products {
		out[i] = p.Clone()
	}
	return out
}

// Stats summarizes the current snapshot
func (l *Lookup) Stats(ctx context.Context) domain.Stats {
	return computeStats(l.ensureFresh(ctx))
}

// Refresh loads a new snapshot now. With force the store is bypassed and the
// remote feed is always contacted. On failure the current data is kept and
// the error is returned so administrative callers can report it.
func (l *Lookup) Refresh(ctx context.Context, force bool) (*domain.Snapshot, error) {
	return l.refresh(ctx, force, "manual")
}

// Reload replaces the in-memory snapshot from the store without contacting
// the remote feed. Older stored snapshots are ignored.
func (l *Lookup) Reload(ctx context.Context) error {
	snap, err := l.loader.Cached(ctx)
	if err != nil {
		l.refreshTotal.WithLabelValues("reload", "error").Inc()
		return fmt.Errorf("reload catalog snapshot: %w", err)
	}

	if cur := l.current.Load(); cur != nil && !snap.Timestamp.After(cur.Timestamp) {
		l.refreshTotal.WithLabelValues("reload", "skipped").Inc()
		return nil
	}

	l.publish(snap)
	l.refreshTotal.WithLabelValues("reload", "success").Inc()
	l.log.Info().
		Int("products", len(snap.Products)).
		Time("fetched_at", snap.Timestamp).
		Msg("Catalog reloaded from snapshot store")
	return nil
}

// Snapshot returns the snapshot currently served, or nil before the first load
func (l *Lookup) Snapshot() *domain.Snapshot {
	return l.current.Load()
}

// Fresh reports whether the current snapshot is within the TTL
func (l *Lookup) Fresh() bool {
	return l.current.Load().Fresh(l.now(), l.ttl)
}

// ensureFresh returns a snapshot to query, refreshing inline when the current
// one is missing, empty or older than the TTL. The result may still be stale
// or nil if the refresh failed.
func (l *Lookup) ensureFresh(ctx context.Context) *domain.Snapshot {
	snap := l.current.Load()
	if snap.Fresh(l.now(), l.ttl) {
		return snap
	}

	if _, err := l.refresh(ctx, false, "stale"); err != nil {
		event := l.log.Error()
		if errors.Is(err, domain.ErrEmptyCatalog) {
			event = l.log.Warn()
		}
		event.Err(err).
			Bool("has_previous", snap != nil).
			Msg("Catalog refresh failed, serving previous data")
	}
	return l.current.Load()
}

func (l *Lookup) refresh(ctx context.Context, force bool, trigger string) (*domain.Snapshot, error) {
	key := "refresh"
	if force {
		key = "refresh-force"
	}

	// the shared load must outlive any single caller's cancellation
	shared := context.WithoutCancel(ctx)
	v, err, _ := l.group.Do(key, func() (interface{}, error) {
		snap, origin, err := l.loader.Fetch(shared, force)
		if err != nil {
			l.refreshTotal.WithLabelValues(trigger, "error").Inc()
			return nil, err
		}

		l.publish(snap)
		l.refreshTotal.WithLabelValues(trigger, "success").Inc()

		if origin == fetcher.OriginRemote && l.notifier != nil {
			if err := l.notifier.CatalogRefreshed(shared, len(snap.Products), snap.Timestamp); err != nil {
				l.log.Warn().Err(err).Msg("Failed to announce catalog refresh")
			}
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Snapshot), nil
}

func (l *Lookup) publish(snap *domain.Snapshot) {
	l.current.Store(snap)
	l.productGauge.Set(float64(len(snap.Products)))
}
