package service

import (
	"github.com/shopspring/decimal"

	"github.com/tair/alcohol-tracker/internal/catalog/domain"
)

func computeStats(snap *domain.Snapshot) domain.Stats {
	stats := domain.Stats{Categories: map[string]int{}}
	if snap == nil {
		return stats
	}

	stats.TotalProducts = len(snap.Products)
	stats.LastUpdated = snap.Timestamp

	sum := decimal.Zero
	priced := 0
	for _, p := range snap.Products {
		stats.Categories[p.CategoryLevel1]++

		if p.Price <= 0 {
			continue
		}
		if priced == 0 || p.Price < stats.PriceRange.Min {
			stats.PriceRange.Min = p.Price
		}
		if p.Price > stats.PriceRange.Max {
			stats.PriceRange.Max = p.Price
		}
		sum = sum.Add(decimal.NewFromFloat(p.Price))
		priced++
	}

	if priced > 0 {
		stats.PriceRange.Average = sum.Div(decimal.NewFromInt(int64(priced))).RoundBank(2).InexactFloat64()
	}
	return stats
}
