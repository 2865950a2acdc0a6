package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
)

// Period selects the bucket size for GetPeriodStats
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod accepts day, week or month
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q (expected day, week or month)", domain.ErrInvalidPeriod, s)
	}
}

// DailyStats holds the entries of one UTC date
type DailyStats struct {
	Date        string              `json:"date"`
	TotalUnits  float64             `json:"totalUnits"`
	TotalDrinks int                 `json:"totalDrinks"`
	Drinks      []domain.DrinkEntry `json:"drinks"`
}

// WeeklyStats holds the days of a week starting on Sunday
type WeeklyStats struct {
	WeekStart   string       `json:"weekStart"`
	WeekEnd     string       `json:"weekEnd"`
	TotalUnits  float64      `json:"totalUnits"`
	TotalDrinks int          `json:"totalDrinks"`
	DailyStats  []DailyStats `json:"dailyStats"`
}

// MonthlyStats holds the weeks whose start falls in Month (YYYY-MM)
type MonthlyStats struct {
	Month       string        `json:"month"`
	TotalUnits  float64       `json:"totalUnits"`
	TotalDrinks int           `json:"totalDrinks"`
	WeeklyStats []WeeklyStats `json:"weeklyStats"`
}

// GetPeriodStatsQuery represents the query for bucketed statistics
type GetPeriodStatsQuery struct {
	Period Period
}

// GetPeriodStatsHandler handles period stats query
type GetPeriodStatsHandler struct {
	repo domain.EntryRepository
}

// NewGetPeriodStatsHandler creates a new period stats handler
func NewGetPeriodStatsHandler(repo domain.EntryRepository) *GetPeriodStatsHandler {
	return &GetPeriodStatsHandler{repo: repo}
}

// Handle returns []DailyStats, []WeeklyStats or []MonthlyStats depending on
// the period, newest bucket first
func (h *GetPeriodStatsHandler) Handle(ctx context.Context, q GetPeriodStatsQuery) (interface{}, error) {
	if _, err := ParsePeriod(string(q.Period)); err != nil {
		return nil, err
	}

	entries, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get drink entries: %w", err)
	}

	switch q.Period {
	case PeriodDay:
		return GroupByDate(entries), nil
	case PeriodWeek:
		return GroupByWeek(entries), nil
	default:
		return GroupByMonth(entries), nil
	}
}

// GroupByDate buckets entries by UTC date
func GroupByDate(entries []domain.DrinkEntry) []DailyStats {
	units := map[string]decimal.Decimal{}
	byDate := map[string]*DailyStats{}
	for _, e := range entries {
		date := e.Timestamp.UTC().Format(dateLayout)
		d, ok := byDate[date]
		if !ok {
			d = &DailyStats{Date: date, Drinks: []domain.DrinkEntry{}}
			byDate[date] = d
		}
		units[date] = units[date].Add(decimal.NewFromFloat(e.Drink.StandardUnits))
		d.TotalDrinks++
		d.Drinks = append(d.Drinks, e)
	}

	out := make([]DailyStats, 0, len(byDate))
	for date, d := range byDate {
		d.TotalUnits, _ = units[date].RoundBank(2).Float64()
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// weekStart returns the Sunday on or before date
func weekStart(date string) time.Time {
	t, _ := time.Parse(dateLayout, date)
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// GroupByWeek buckets daily stats into Sunday to Saturday weeks
func GroupByWeek(entries []domain.DrinkEntry) []WeeklyStats {
	units := map[string]decimal.Decimal{}
	byWeek := map[string]*WeeklyStats{}
	for _, d := range GroupByDate(entries) {
		start := weekStart(d.Date)
		key := start.Format(dateLayout)
		w, ok := byWeek[key]
		if !ok {
			w = &WeeklyStats{
				WeekStart:  key,
				WeekEnd:    start.AddDate(0, 0, 6).Format(dateLayout),
				DailyStats: []DailyStats{},
			}
			byWeek[key] = w
		}
		units[key] = units[key].Add(decimal.NewFromFloat(d.TotalUnits))
		w.TotalDrinks += d.TotalDrinks
		w.DailyStats = append(w.DailyStats, d)
	}

	out := make([]WeeklyStats, 0, len(byWeek))
	for key, w := range byWeek {
		w.TotalUnits, _ = units[key].RoundBank(2).Float64()
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart > out[j].WeekStart })
	return out
}

// GroupByMonth buckets weeks by the month their start date falls in
func GroupByMonth(entries []domain.DrinkEntry) []MonthlyStats {
	units := map[string]decimal.Decimal{}
	byMonth := map[string]*MonthlyStats{}
	for _, w := range GroupByWeek(entries) {
		key := w.WeekStart[:7]
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyStats{Month: key, WeeklyStats: []WeeklyStats{}}
			byMonth[key] = m
		}
		units[key] = units[key].Add(decimal.NewFromFloat(w.TotalUnits))
		m.TotalDrinks += w.TotalDrinks
		m.WeeklyStats = append(m.WeeklyStats, w)
	}

	out := make([]MonthlyStats, 0, len(byMonth))
	for key, m := range byMonth {
		m.TotalUnits, _ = units[key].RoundBank(2).Float64()
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out
}
