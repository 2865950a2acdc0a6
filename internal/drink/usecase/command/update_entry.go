package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
)

// UpdateEntryCommand replaces the drink, timestamp and notes of an entry
type UpdateEntryCommand struct {
	ID        uint
	DrinkID   *uint
	Drink     *CreateDrinkCommand
	Timestamp time.Time
	Notes     *string
}

// UpdateEntryHandler handles drink entry update command
type UpdateEntryHandler struct {
	entries domain.EntryRepository
	drinks  domain.DrinkRepository
}

// NewUpdateEntryHandler creates a new update entry handler
func NewUpdateEntryHandler(entries domain.EntryRepository, drinks domain.DrinkRepository) *UpdateEntryHandler {
	return &UpdateEntryHandler{entries: entries, drinks: drinks}
}

// Handle executes the update entry command
func (h *UpdateEntryHandler) Handle(ctx context.Context, cmd UpdateEntryCommand) (*domain.DrinkEntry, error) {
	if _, err := h.entries.FindByID(ctx, cmd.ID); err != nil {
		return nil, err
	}

	entry, err := buildEntry(ctx, h.drinks, CreateEntryCommand{
		DrinkID:   cmd.DrinkID,
		Drink:     cmd.Drink,
		Timestamp: cmd.Timestamp,
		Notes:     cmd.Notes,
	})
	if err != nil {
		return nil, err
	}
	entry.ID = cmd.ID

	if err := h.entries.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update drink entry: %w", err)
	}

	return h.entries.FindByID(ctx, cmd.ID)
}
