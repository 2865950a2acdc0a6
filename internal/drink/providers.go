package drink

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/alcohol-tracker/internal/drink/delivery/http"
	"github.com/tair/alcohol-tracker/internal/drink/domain"
	"github.com/tair/alcohol-tracker/internal/drink/repository"
)

// ProvideDrinkRepository provides the traced drink repository
func ProvideDrinkRepository(db *gorm.DB) domain.DrinkRepository {
	return repository.NewTracingDrinkRepository(repository.NewGormDrinkRepository(db))
}

// ProvideEntryRepository provides the traced entry repository
func ProvideEntryRepository(db *gorm.DB) domain.EntryRepository {
	return repository.NewTracingEntryRepository(repository.NewGormEntryRepository(db))
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideDrinkRepository,
	ProvideEntryRepository,
)

var HandlerSet = wire.NewSet(
	http.NewCommands,
	http.NewQueries,
	http.NewDrinkHandler,
)
