package catalog

import (
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	cataloghttp "github.com/tair/alcohol-tracker/internal/catalog/delivery/http"
	"github.com/tair/alcohol-tracker/internal/catalog/domain"
	"github.com/tair/alcohol-tracker/internal/catalog/fetcher"
	"github.com/tair/alcohol-tracker/internal/catalog/service"
)

// Settings is the slice of process configuration the catalog needs
type Settings struct {
	URL          string
	TTL          time.Duration
	FetchTimeout time.Duration
}

// Catalog bundles the pieces the server and the event consumer use
type Catalog struct {
	Fetcher *fetcher.Fetcher
	Lookup  *service.Lookup
	Handler *cataloghttp.CatalogHandler
}

// ProvideFetcher provides the remote fetcher backed by store
func ProvideFetcher(s Settings, store domain.SnapshotStore, reg prometheus.Registerer) *fetcher.Fetcher {
	cfg := fetcher.DefaultConfig(s.URL)
	if s.FetchTimeout > 0 {
		cfg.Timeout = s.FetchTimeout
	}
	return fetcher.New(cfg, store, reg)
}

// ProvideLookup provides the lookup service over the fetcher
func ProvideLookup(f *fetcher.Fetcher, notifier domain.RefreshNotifier, s Settings, reg prometheus.Registerer) *service.Lookup {
	return service.NewLookup(f, notifier, s.TTL, reg)
}

// Wire sets
var ServiceSet = wire.NewSet(
	ProvideFetcher,
	ProvideLookup,
)

var HandlerSet = wire.NewSet(
	cataloghttp.NewCatalogHandler,
	wire.Bind(new(cataloghttp.Catalog), new(*service.Lookup)),
)
