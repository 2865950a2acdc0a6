package query

import (
	"context"
	"fmt"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
)

// GetEntryQuery represents the query to get a drink entry by ID
type GetEntryQuery struct {
	ID uint
}

// GetEntryHandler handles get entry query
type GetEntryHandler struct {
	repo domain.EntryRepository
}

// NewGetEntryHandler creates a new get entry handler
func NewGetEntryHandler(repo domain.EntryRepository) *GetEntryHandler {
	return &GetEntryHandler{repo: repo}
}

// Handle executes the get entry query
func (h *GetEntryHandler) Handle(ctx context.Context, q GetEntryQuery) (*domain.DrinkEntry, error) {
	return h.repo.FindByID(ctx, q.ID)
}

// ListEntriesHandler handles list entries query
type ListEntriesHandler struct {
	repo domain.EntryRepository
}

// NewListEntriesHandler creates a new list entries handler
func NewListEntriesHandler(repo domain.EntryRepository) *ListEntriesHandler {
	return &ListEntriesHandler{repo: repo}
}

// Handle returns all entries newest first
func (h *ListEntriesHandler) Handle(ctx context.Context) ([]domain.DrinkEntry, error) {
	entries, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drink entries: %w", err)
	}
	if entries == nil {
		entries = []domain.DrinkEntry{}
	}
	return entries, nil
}
