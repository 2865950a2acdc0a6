package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
	"github.com/tair/alcohol-tracker/pkg/logger"
)

// DefaultDrinks are inserted into an empty drinks table
func DefaultDrinks() []domain.Drink {
	return []domain.Drink{
		*domain.NewDrink("Stor stark", domain.TypeBeer, 50, 5.2),
		*domain.NewDrink("Liten stark", domain.TypeBeer, 33, 5.2),
		*domain.NewDrink("Vin (glas)", domain.TypeWine, 15, 12),
		*domain.NewDrink("Vin (flaska)", domain.TypeWine, 75, 12),
		*domain.NewDrink("Vodka (shot)", domain.TypeSpirit, 4, 40),
		*domain.NewDrink("Whisky (shot)", domain.TypeSpirit, 4, 40),
	}
}

// Seed inserts DefaultDrinks when no drinks exist and reports how many were added
func Seed(ctx context.Context, db *gorm.DB) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.Drink{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count drinks: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	drinks := DefaultDrinks()
	if err := db.WithContext(ctx).Create(&drinks).Error; err != nil {
		return 0, fmt.Errorf("failed to seed drinks: %w", err)
	}

	logger.Logger.Info().Int("drinks", len(drinks)).Msg("Seeded default drinks")
	return len(drinks), nil
}
