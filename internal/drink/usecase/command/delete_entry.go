package command

import (
	"context"
	"fmt"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
	"github.com/tair/alcohol-tracker/pkg/logger"
)

// DeleteEntryCommand deletes one entry
type DeleteEntryCommand struct {
	ID uint
}

// DeleteEntryHandler handles drink entry deletion command
type DeleteEntryHandler struct {
	repo domain.EntryRepository
}

// NewDeleteEntryHandler creates a new delete entry handler
func NewDeleteEntryHandler(repo domain.EntryRepository) *DeleteEntryHandler {
	return &DeleteEntryHandler{repo: repo}
}

// Handle executes the delete entry command
func (h *DeleteEntryHandler) Handle(ctx context.Context, cmd DeleteEntryCommand) error {
	return h.repo.Delete(ctx, cmd.ID)
}

// DeleteAllEntriesHandler wipes the entry log; drinks are kept
type DeleteAllEntriesHandler struct {
	repo domain.EntryRepository
}

// NewDeleteAllEntriesHandler creates a new delete all entries handler
func NewDeleteAllEntriesHandler(repo domain.EntryRepository) *DeleteAllEntriesHandler {
	return &DeleteAllEntriesHandler{repo: repo}
}

// Handle deletes every entry and returns how many were removed
func (h *DeleteAllEntriesHandler) Handle(ctx context.Context) (int64, error) {
	n, err := h.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete drink entries: %w", err)
	}

	logger.Info(ctx).Int64("deleted", n).Msg("Deleted all drink entries")
	return n, nil
}
