package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
)

// CreateDrinkCommand represents the command to create a new drink
type CreateDrinkCommand struct {
	Name              string  `validate:"required,max=100"`
	Type              string  `validate:"required,max=20,oneof=beer wine spirit cocktail other"`
	Volume            float64 `validate:"min=0.1,max=1000"`
	AlcoholPercentage float64 `validate:"min=0.1,max=100"`
}

func (cmd CreateDrinkCommand) normalized() CreateDrinkCommand {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Type = strings.ToLower(strings.TrimSpace(cmd.Type))
	return cmd
}

func (cmd CreateDrinkCommand) drink() *domain.Drink {
	return domain.NewDrink(cmd.Name, cmd.Type, cmd.Volume, cmd.AlcoholPercentage)
}

// CreateDrinkHandler handles drink creation command
type CreateDrinkHandler struct {
	repo domain.DrinkRepository
}

// NewCreateDrinkHandler creates a new create drink handler
func NewCreateDrinkHandler(repo domain.DrinkRepository) *CreateDrinkHandler {
	return &CreateDrinkHandler{repo: repo}
}

// Handle executes the create drink command
func (h *CreateDrinkHandler) Handle(ctx context.Context, cmd CreateDrinkCommand) (*domain.Drink, error) {
	cmd = cmd.normalized()
	if err := check(cmd); err != nil {
		return nil, err
	}

	drink := cmd.drink()
	if err := h.repo.Create(ctx, drink); err != nil {
		return nil, fmt.Errorf("failed to create drink: %w", err)
	}

	return drink, nil
}
