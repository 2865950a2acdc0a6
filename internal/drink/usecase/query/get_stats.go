package query

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
)

const dateLayout = "2006-01-02"

// EntryStats summarises the whole entry log
type EntryStats struct {
	TotalDrinks   int     `json:"totalDrinks"`
	TotalUnits    float64 `json:"totalUnits"`
	TotalDays     int     `json:"totalDays"`
	AveragePerDay float64 `json:"averagePerDay"`
}

// GetEntryStatsHandler handles get entry stats query
type GetEntryStatsHandler struct {
	repo domain.EntryRepository
}

// NewGetEntryStatsHandler creates a new get entry stats handler
func NewGetEntryStatsHandler(repo domain.EntryRepository) *GetEntryStatsHandler {
	return &GetEntryStatsHandler{repo: repo}
}

// Handle executes the get entry stats query
func (h *GetEntryStatsHandler) Handle(ctx context.Context) (*EntryStats, error) {
	entries, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get drink entries: %w", err)
	}
	return computeEntryStats(entries), nil
}

func computeEntryStats(entries []domain.DrinkEntry) *EntryStats {
	total := decimal.Zero
	days := make(map[string]struct{})
	for _, e := range entries {
		total = total.Add(decimal.NewFromFloat(e.Drink.StandardUnits))
		days[e.Timestamp.UTC().Format(dateLayout)] = struct{}{}
	}

	stats := &EntryStats{
		TotalDrinks: len(entries),
		TotalDays:   len(days),
	}
	stats.TotalUnits, _ = total.RoundBank(2).Float64()
	if stats.TotalDays > 0 {
		stats.AveragePerDay, _ = total.Div(decimal.NewFromInt(int64(stats.TotalDays))).RoundBank(2).Float64()
	}
	return stats
}
