package query

import (
	"context"
	"fmt"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
)

// GetDrinkQuery represents the query to get a drink by ID
type GetDrinkQuery struct {
	ID uint
}

// GetDrinkHandler handles get drink query
type GetDrinkHandler struct {
	repo domain.DrinkRepository
}

// NewGetDrinkHandler creates a new get drink handler
func NewGetDrinkHandler(repo domain.DrinkRepository) *GetDrinkHandler {
	return &GetDrinkHandler{repo: repo}
}

// Handle executes the get drink query
func (h *GetDrinkHandler) Handle(ctx context.Context, q GetDrinkQuery) (*domain.Drink, error) {
	return h.repo.FindByID(ctx, q.ID)
}

// ListDrinksHandler handles list drinks query
type ListDrinksHandler struct {
	repo domain.DrinkRepository
}

// NewListDrinksHandler creates a new list drinks handler
func NewListDrinksHandler(repo domain.DrinkRepository) *ListDrinksHandler {
	return &ListDrinksHandler{repo: repo}
}

// Handle returns every drink, never nil
func (h *ListDrinksHandler) Handle(ctx context.Context) ([]domain.Drink, error) {
	drinks, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drinks: %w", err)
	}
	if drinks == nil {
		drinks = []domain.Drink{}
	}
	return drinks, nil
}
