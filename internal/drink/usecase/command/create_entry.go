package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
	"github.com/tair/alcohol-tracker/pkg/logger"
)

// CreateEntryCommand logs a drink. Exactly one of DrinkID or Drink is used;
// DrinkID wins when both are set.
type CreateEntryCommand struct {
	DrinkID   *uint
	Drink     *CreateDrinkCommand `validate:"-"`
	Timestamp time.Time           `validate:"required"`
	Notes     *string             `validate:"omitempty,max=500"`
}

// CreateEntryHandler handles drink entry creation command
type CreateEntryHandler struct {
	entries   domain.EntryRepository
	drinks    domain.DrinkRepository
	publisher domain.EntryPublisher
}

// NewCreateEntryHandler creates a new create entry handler. publisher may be nil.
func NewCreateEntryHandler(entries domain.EntryRepository, drinks domain.DrinkRepository, publisher domain.EntryPublisher) *CreateEntryHandler {
	return &CreateEntryHandler{entries: entries, drinks: drinks, publisher: publisher}
}

// Handle executes the create entry command
func (h *CreateEntryHandler) Handle(ctx context.Context, cmd CreateEntryCommand) (*domain.DrinkEntry, error) {
	entry, err := buildEntry(ctx, h.drinks, cmd)
	if err != nil {
		return nil, err
	}

	if err := h.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create drink entry: %w", err)
	}

	created, err := h.entries.FindByID(ctx, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load drink entry: %w", err)
	}

	if h.publisher != nil {
		if err := h.publisher.EntryLogged(ctx, created); err != nil {
			logger.Warn(ctx).Err(err).Uint("entry_id", created.ID).Msg("Failed to publish entry logged event")
		}
	}

	return created, nil
}

// buildEntry validates cmd and resolves the drink an entry points at
func buildEntry(ctx context.Context, drinks domain.DrinkRepository, cmd CreateEntryCommand) (*domain.DrinkEntry, error) {
	if cmd.DrinkID == nil && cmd.Drink == nil {
		return nil, domain.Invalid("Either DrinkId or Drink data must be provided")
	}
	if err := check(cmd); err != nil {
		return nil, err
	}

	entry := &domain.DrinkEntry{
		Timestamp: cmd.Timestamp.UTC(),
		Notes:     trimNotes(cmd.Notes),
	}

	if cmd.DrinkID != nil {
		drink, err := drinks.FindByID(ctx, *cmd.DrinkID)
		if errors.Is(err, domain.ErrDrinkNotFound) {
			return nil, domain.Invalid("Drink with ID %d not found", *cmd.DrinkID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load drink: %w", err)
		}
		entry.DrinkID = drink.ID
		entry.Drink = *drink
		return entry, nil
	}

	inline := cmd.Drink.normalized()
	if err := check(inline); err != nil {
		return nil, err
	}
	entry.Drink = *inline.drink()
	return entry, nil
}

func trimNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	s := strings.TrimSpace(*notes)
	if s == "" {
		return nil
	}
	return &s
}
