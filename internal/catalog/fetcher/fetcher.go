package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/alcohol-tracker/internal/catalog/domain"
	"github.com/tair/alcohol-tracker/pkg/logger"
)

// Origin tells where a loaded snapshot came from
type Origin string

const (
	OriginStore  Origin = "store"
	OriginRemote Origin = "remote"
)

// Config for the remote assortment feed
type Config struct {
	URL     string
	Timeout time.Duration

	// consecutive failures before the breaker opens, and how long it stays open.
	// While open, stale snapshots are served without a network attempt.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

func DefaultConfig(url string) Config {
	return Config{
		URL:             url,
		Timeout:         60 * time.Second,
		BreakerFailures: 3,
		BreakerTimeout:  30 * time.Second,
	}
}

// Fetcher loads the catalog from the snapshot store or the remote feed
type Fetcher struct {
	url     string
	client  *http.Client
	store   domain.SnapshotStore
	breaker *gobreaker.CircuitBreaker[[]domain.Product]
	tracer  trace.Tracer
	metrics *metrics
	now     func() time.Time
}

func New(cfg Config, store domain.SnapshotStore, reg prometheus.Registerer) *Fetcher {
	m := newMetrics(reg)
	log := logger.Component("catalog-fetcher")

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 3
	}
	breaker := gobreaker.NewCircuitBreaker[[]domain.Product](gobreaker.Settings{
		Name:        "catalog-remote",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state change")
			m.breakerState.Set(stateToFloat(to))
		},
	})

	return &Fetcher{
		url: cfg.URL,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		store:   store,
		breaker: breaker,
		tracer:  otel.Tracer("catalog-fetcher"),
		metrics: m,
		now:     time.Now,
	}
}

// Cached reads the store only
func (f *Fetcher) Cached(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := f.store.Read(ctx)
	if err != nil {
		outcome := "miss"
		if !errors.Is(err, domain.ErrSnapshotAbsent) {
			outcome = "error"
		}
		f.metrics.fetchTotal.WithLabelValues(string(OriginStore), outcome).Inc()
		return nil, err
	}
	f.metrics.fetchTotal.WithLabelValues(string(OriginStore), "hit").Inc()
	return snap, nil
}

// Fetch returns a fresh snapshot. Unless force is set a fresh stored snapshot
// is returned without touching the network. A remote result is filtered to
// eligible products and persisted; persistence failures are logged only.
func (f *Fetcher) Fetch(ctx context.Context, force bool) (*domain.Snapshot, Origin, error) {
	ctx, span := f.tracer.Start(ctx, "Fetcher.Fetch")
	defer span.End()
	span.SetAttributes(attribute.Bool("catalog.force", force))

	if !force {
		snap, err := f.Cached(ctx)
		if err == nil {
			span.SetAttributes(attribute.String("catalog.origin", string(OriginStore)))
			logger.Info(ctx).
				Int("products", len(snap.Products)).
				Time("fetched_at", snap.Timestamp).
				Msg("Loaded catalog from snapshot store")
			return snap, OriginStore, nil
		}
		if !errors.Is(err, domain.ErrSnapshotAbsent) {
			logger.Warn(ctx).Err(err).Msg("Failed to read catalog snapshot, falling back to remote")
		}
	}

	start := time.Now()
	all, err := f.breaker.Execute(func() ([]domain.Product, error) {
		return f.download(ctx)
	})
	duration := time.Since(start)

	if err != nil {
		f.metrics.fetchTotal.WithLabelValues(string(OriginRemote), "error").Inc()
		f.metrics.fetchDuration.WithLabelValues("error").Observe(duration.Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, OriginRemote, fmt.Errorf("fetch catalog: %w", err)
	}

	eligible := domain.FilterEligible(all)
	if len(eligible) == 0 {
		f.metrics.fetchTotal.WithLabelValues(string(OriginRemote), "empty").Inc()
		f.metrics.fetchDuration.WithLabelValues("empty").Observe(duration.Seconds())
		span.SetStatus(codes.Error, domain.ErrEmptyCatalog.Error())
		return nil, OriginRemote, domain.ErrEmptyCatalog
	}

	snap := domain.NewSnapshot(eligible, f.now())
	if err := f.store.Write(ctx, snap); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to persist catalog snapshot")
	}

	f.metrics.fetchTotal.WithLabelValues(string(OriginRemote), "success").Inc()
	f.metrics.fetchDuration.WithLabelValues("success").Observe(duration.Seconds())
	f.metrics.lastProducts.Set(float64(len(eligible)))
	span.SetAttributes(
		attribute.String("catalog.origin", string(OriginRemote)),
		attribute.Int("catalog.products.total", len(all)),
		attribute.Int("catalog.products.eligible", len(eligible)),
	)

	logger.Info(ctx).
		Int("total", len(all)).
		Int("eligible", len(eligible)).
		Dur("duration", duration).
		Msg("Fetched catalog from remote feed")

	return snap, OriginRemote, nil
}

// BreakerState exposes the remote breaker state for health reporting
func (f *Fetcher) BreakerState() gobreaker.State {
	return f.breaker.State()
}

func (f *Fetcher) download(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("GET %s: unexpected status %d", f.url, resp.StatusCode)
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode assortment: %w", err)
	}
	return products, nil
}
