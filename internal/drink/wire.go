//go:build wireinject
// +build wireinject

package drink

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tair/alcohol-tracker/internal/drink/delivery/http"
	"github.com/tair/alcohol-tracker/internal/drink/domain"
	"github.com/tair/alcohol-tracker/pkg/auth"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher domain.EntryPublisher, tokens *auth.TokenManager, reg prometheus.Registerer) (*http.DrinkHandler, error) {
	wire.Build(
		RepositorySet,
		HandlerSet,
	)
	return nil, nil
}
