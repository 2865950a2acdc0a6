//go:build wireinject
// +build wireinject

package catalog

import (
	"net/http"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/alcohol-tracker/internal/catalog/domain"
	"github.com/tair/alcohol-tracker/pkg/auth"
)

// InitializeCatalog wires fetcher, lookup service and HTTP handler
func InitializeCatalog(s Settings, store domain.SnapshotStore, notifier domain.RefreshNotifier, tokens *auth.TokenManager, searchLimit func(http.Handler) http.Handler, reg prometheus.Registerer) (*Catalog, error) {
	wire.Build(
		ServiceSet,
		HandlerSet,
		wire.Struct(new(Catalog), "*"),
	)
	return nil, nil
}
