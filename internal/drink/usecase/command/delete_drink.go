package command

import (
	"context"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
)

// DeleteDrinkCommand deletes a drink together with all of its entries
type DeleteDrinkCommand struct {
	ID uint
}

// DeleteDrinkHandler handles drink deletion command
type DeleteDrinkHandler struct {
	repo domain.DrinkRepository
}

// NewDeleteDrinkHandler creates a new delete drink handler
func NewDeleteDrinkHandler(repo domain.DrinkRepository) *DeleteDrinkHandler {
	return &DeleteDrinkHandler{repo: repo}
}

// Handle executes the delete drink command
func (h *DeleteDrinkHandler) Handle(ctx context.Context, cmd DeleteDrinkCommand) error {
	return h.repo.Delete(ctx, cmd.ID)
}
