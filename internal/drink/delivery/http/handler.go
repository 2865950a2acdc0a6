package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
	"github.com/tair/alcohol-tracker/internal/drink/usecase/command"
	"github.com/tair/alcohol-tracker/internal/drink/usecase/query"
	"github.com/tair/alcohol-tracker/pkg/auth"
	"github.com/tair/alcohol-tracker/pkg/logger"
	"github.com/tair/alcohol-tracker/pkg/metrics"
	"github.com/tair/alcohol-tracker/pkg/response"
)

// Commands groups the write side handlers
type Commands struct {
	CreateDrink      *command.CreateDrinkHandler
	DeleteDrink      *command.DeleteDrinkHandler
	CreateEntry      *command.CreateEntryHandler
	UpdateEntry      *command.UpdateEntryHandler
	DeleteEntry      *command.DeleteEntryHandler
	DeleteAllEntries *command.DeleteAllEntriesHandler
}

// Queries groups the read side handlers
type Queries struct {
	GetDrink    *query.GetDrinkHandler
	ListDrinks  *query.ListDrinksHandler
	GetEntry    *query.GetEntryHandler
	ListEntries *query.ListEntriesHandler
	EntryStats  *query.GetEntryStatsHandler
	PeriodStats *query.GetPeriodStatsHandler
}

// NewCommands builds the command handlers over the given repositories
func NewCommands(drinks domain.DrinkRepository, entries domain.EntryRepository, publisher domain.EntryPublisher) Commands {
	return Commands{
		CreateDrink:      command.NewCreateDrinkHandler(drinks),
		DeleteDrink:      command.NewDeleteDrinkHandler(drinks),
		CreateEntry:      command.NewCreateEntryHandler(entries, drinks, publisher),
		UpdateEntry:      command.NewUpdateEntryHandler(entries, drinks),
		DeleteEntry:      command.NewDeleteEntryHandler(entries),
		DeleteAllEntries: command.NewDeleteAllEntriesHandler(entries),
	}
}

// NewQueries builds the query handlers over the given repositories
func NewQueries(drinks domain.DrinkRepository, entries domain.EntryRepository) Queries {
	return Queries{
		GetDrink:    query.NewGetDrinkHandler(drinks),
		ListDrinks:  query.NewListDrinksHandler(drinks),
		GetEntry:    query.NewGetEntryHandler(entries),
		ListEntries: query.NewListEntriesHandler(entries),
		EntryStats:  query.NewGetEntryStatsHandler(entries),
		PeriodStats: query.NewGetPeriodStatsHandler(entries),
	}
}

// DrinkHandler handles HTTP requests for drinks and drink entries using CQRS pattern
type DrinkHandler struct {
	commands Commands
	queries  Queries

	drinks  domain.DrinkRepository
	entries domain.EntryRepository
	tokens  *auth.TokenManager

	metrics      *metrics.HTTPMetrics
	totalDrinks  prometheus.Gauge
	totalEntries prometheus.Gauge
}

// NewDrinkHandler creates the handler and registers its collectors with reg
// when reg is not nil
func NewDrinkHandler(commands Commands, queries Queries, drinks domain.DrinkRepository, entries domain.EntryRepository, tokens *auth.TokenManager, reg prometheus.Registerer) *DrinkHandler {
	totalDrinks := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "drink_service_total_drinks",
		Help: "Total number of drinks in the system",
	})
	totalEntries := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "drink_service_total_entries",
		Help: "Total number of logged drink entries",
	})
	if reg != nil {
		reg.MustRegister(totalDrinks, totalEntries)
	}

	return &DrinkHandler{
		commands:     commands,
		queries:      queries,
		drinks:       drinks,
		entries:      entries,
		tokens:       tokens,
		metrics:      metrics.NewHTTPMetrics(reg, "drink_service"),
		totalDrinks:  totalDrinks,
		totalEntries: totalEntries,
	}
}

func (h *DrinkHandler) RegisterRoutes(router *mux.Router) {
	// Drinks
	router.HandleFunc("/api/drinks", h.metrics.Wrap("/api/drinks", h.ListDrinks)).Methods("GET")
	router.HandleFunc("/api/drinks", h.metrics.Wrap("/api/drinks", h.CreateDrink)).Methods("POST")
	router.HandleFunc("/api/drinks/{id:[0-9]+}", h.metrics.Wrap("/api/drinks/{id}", h.GetDrink)).Methods("GET")
	router.HandleFunc("/api/drinks/{id:[0-9]+}", h.metrics.Wrap("/api/drinks/{id}", h.DeleteDrink)).Methods("DELETE")

	// Entries
	router.HandleFunc("/api/drinkentries", h.metrics.Wrap("/api/drinkentries", h.ListEntries)).Methods("GET")
	router.HandleFunc("/api/drinkentries", h.metrics.Wrap("/api/drinkentries", h.CreateEntry)).Methods("POST")
	router.HandleFunc("/api/drinkentries/statistics", h.metrics.Wrap("/api/drinkentries/statistics", h.GetStatistics)).Methods("GET")
	router.HandleFunc("/api/drinkentries/statistics/{period}", h.metrics.Wrap("/api/drinkentries/statistics/{period}", h.GetPeriodStatistics)).Methods("GET")
	router.HandleFunc("/api/drinkentries/{id:[0-9]+}", h.metrics.Wrap("/api/drinkentries/{id}", h.GetEntry)).Methods("GET")
	router.HandleFunc("/api/drinkentries/{id:[0-9]+}", h.metrics.Wrap("/api/drinkentries/{id}", h.UpdateEntry)).Methods("PUT")
	router.HandleFunc("/api/drinkentries/{id:[0-9]+}", h.metrics.Wrap("/api/drinkentries/{id}", h.DeleteEntry)).Methods("DELETE")

	// Admin routes
	router.HandleFunc("/api/drinkentries", h.metrics.Wrap("/api/drinkentries", auth.AdminMiddleware(h.tokens)(h.DeleteAllEntries))).Methods("DELETE")
}

// RefreshGauges recounts drinks and entries
func (h *DrinkHandler) RefreshGauges(ctx context.Context) {
	if n, err := h.drinks.Count(ctx); err == nil {
		h.totalDrinks.Set(float64(n))
	}
	if n, err := h.entries.Count(ctx); err == nil {
		h.totalEntries.Set(float64(n))
	}
}

type drinkRequest struct {
	Name              string  `json:"name"`
	Type              string  `json:"type"`
	Volume            float64 `json:"volume"`
	AlcoholPercentage float64 `json:"alcoholPercentage"`
}

func (r *drinkRequest) command() *command.CreateDrinkCommand {
	if r == nil {
		return nil
	}
	return &command.CreateDrinkCommand{
		Name:              r.Name,
		Type:              r.Type,
		Volume:            r.Volume,
		AlcoholPercentage: r.AlcoholPercentage,
	}
}

type entryRequest struct {
	DrinkID   *uint         `json:"drinkId"`
	Timestamp time.Time     `json:"timestamp"`
	Notes     *string       `json:"notes"`
	Drink     *drinkRequest `json:"drink"`
}

// respondError maps domain errors to status codes
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Fail(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, domain.ErrInvalidPeriod):
		response.Fail(w, http.StatusBadRequest, "Invalid period. Use: day, week, or month")
	case errors.Is(err, domain.ErrDrinkNotFound):
		response.Fail(w, http.StatusNotFound, "Drink not found")
	case errors.Is(err, domain.ErrEntryNotFound):
		response.Fail(w, http.StatusNotFound, "Drink entry not found")
	default:
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg(fallback)
		response.Fail(w, http.StatusInternalServerError, fallback)
	}
}

func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ListDrinks handles GET /api/drinks
func (h *DrinkHandler) ListDrinks(w http.ResponseWriter, r *http.Request) {
	drinks, err := h.queries.ListDrinks.Handle(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to list drinks")
		return
	}
	response.OK(w, drinks)
}

// GetDrink handles GET /api/drinks/{id}
func (h *DrinkHandler) GetDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.Fail(w, http.StatusBadRequest, "Invalid drink ID")
		return
	}

	drink, err := h.queries.GetDrink.Handle(r.Context(), query.GetDrinkQuery{ID: id})
	if err != nil {
		respondError(w, r, err, "Failed to get drink")
		return
	}
	response.OK(w, drink)
}

// CreateDrink handles POST /api/drinks
func (h *DrinkHandler) CreateDrink(w http.ResponseWriter, r *http.Request) {
	var req drinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	drink, err := h.commands.CreateDrink.Handle(r.Context(), *req.command())
	if err != nil {
		respondError(w, r, err, "Failed to create drink")
		return
	}

	h.RefreshGauges(r.Context())
	response.JSON(w, http.StatusCreated, response.Response{
		Success: true,
		Message: "Drink created successfully",
		Data:    drink,
	})
}

// DeleteDrink handles DELETE /api/drinks/{id}
func (h *DrinkHandler) DeleteDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.Fail(w, http.StatusBadRequest, "Invalid drink ID")
		return
	}

	if err := h.commands.DeleteDrink.Handle(r.Context(), command.DeleteDrinkCommand{ID: id}); err != nil {
		respondError(w, r, err, "Failed to delete drink")
		return
	}

	h.RefreshGauges(r.Context())
	response.JSON(w, http.StatusOK, response.Response{
		Success: true,
		Message: "Drink deleted successfully",
	})
}

// ListEntries handles GET /api/drinkentries
func (h *DrinkHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.queries.ListEntries.Handle(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to list drink entries")
		return
	}
	response.OK(w, entries)
}

// GetEntry handles GET /api/drinkentries/{id}
func (h *DrinkHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.Fail(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	entry, err := h.queries.GetEntry.Handle(r.Context(), query.GetEntryQuery{ID: id})
	if err != nil {
		respondError(w, r, err, "Failed to get drink entry")
		return
	}
	response.OK(w, entry)
}

// CreateEntry handles POST /api/drinkentries
func (h *DrinkHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.commands.CreateEntry.Handle(r.Context(), command.CreateEntryCommand{
		DrinkID:   req.DrinkID,
		Drink:     req.Drink.command(),
		Timestamp: req.Timestamp,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(w, r, err, "Failed to create drink entry")
		return
	}

	h.RefreshGauges(r.Context())
	response.JSON(w, http.StatusCreated, response.Response{
		Success: true,
		Message: "Drink entry created successfully",
		Data:    entry,
	})
}

// UpdateEntry handles PUT /api/drinkentries/{id}
func (h *DrinkHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.Fail(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.commands.UpdateEntry.Handle(r.Context(), command.UpdateEntryCommand{
		ID:        id,
		DrinkID:   req.DrinkID,
		Drink:     req.Drink.command(),
		Timestamp: req.Timestamp,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(w, r, err, "Failed to update drink entry")
		return
	}

	h.RefreshGauges(r.Context())
	response.JSON(w, http.StatusOK, response.Response{
		Success: true,
		Message: "Drink entry updated successfully",
		Data:    entry,
	})
}

// DeleteEntry handles DELETE /api/drinkentries/{id}
func (h *DrinkHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		response.Fail(w, http.StatusBadRequest, "Invalid entry ID")
		return
	}

	if err := h.commands.DeleteEntry.Handle(r.Context(), command.DeleteEntryCommand{ID: id}); err != nil {
		respondError(w, r, err, "Failed to delete drink entry")
		return
	}

	h.RefreshGauges(r.Context())
	response.JSON(w, http.StatusOK, response.Response{
		Success: true,
		Message: "Drink entry deleted successfully",
	})
}

// DeleteAllEntries handles DELETE /api/drinkentries
func (h *DrinkHandler) DeleteAllEntries(w http.ResponseWriter, r *http.Request) {
	n, err := h.commands.DeleteAllEntries.Handle(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to delete drink entries")
		return
	}

	h.RefreshGauges(r.Context())
	response.JSON(w, http.StatusOK, response.Response{
		Success: true,
		Message: "All drink entries deleted",
		Data:    map[string]int64{"deleted": n},
	})
}

// GetStatistics handles GET /api/drinkentries/statistics
func (h *DrinkHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queries.EntryStats.Handle(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to get statistics")
		return
	}
	response.OK(w, stats)
}

// GetPeriodStatistics handles GET /api/drinkentries/statistics/{period}
func (h *DrinkHandler) GetPeriodStatistics(w http.ResponseWriter, r *http.Request) {
	period, err := query.ParsePeriod(mux.Vars(r)["period"])
	if err != nil {
		respondError(w, r, err, "Failed to get statistics")
		return
	}

	stats, err := h.queries.PeriodStats.Handle(r.Context(), query.GetPeriodStatsQuery{Period: period})
	if err != nil {
		respondError(w, r, err, "Failed to get statistics")
		return
	}
	response.OK(w, stats)
}
