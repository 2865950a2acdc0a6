package command

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
	"github.com/tair/alcohol-tracker/internal/drink/repository"
	"github.com/tair/alcohol-tracker/pkg/database"
)

type recordingPublisher struct {
	entries []domain.DrinkEntry
	err     error
}

func (p *recordingPublisher) EntryLogged(_ context.Context, entry *domain.DrinkEntry) error {
	p.entries = append(p.entries, *entry)
	return p.err
}

type fixture struct {
	drinks  domain.DrinkRepository
	entries domain.EntryRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := database.NewGormConnection(database.Config{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	_, err = repository.Seed(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return fixture{
		drinks:  repository.NewGormDrinkRepository(db),
		entries: repository.NewGormEntryRepository(db),
	}
}

func uintPtr(v uint) *uint    { return &v }
func strPtr(s string) *string { return &s }

func validationMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return ""
}

var when = time.Date(2024, 6, 1, 21, 30, 0, 0, time.UTC)

func TestCreateDrink(t *testing.T) {
	f := newFixture(t)
	h := NewCreateDrinkHandler(f.drinks)

	drink, err := h.Handle(context.Background(), CreateDrinkCommand{
		Name: "  Stout ", Type: "Beer", Volume: 44, AlcoholPercentage: 4.2,
	})
	require.NoError(t, err)
	assert.NotZero(t, drink.ID)
	assert.Equal(t, "Stout", drink.Name)
	assert.Equal(t, domain.TypeBeer, drink.Type)
	assert.Equal(t, domain.StandardUnits(44, 4.2), drink.StandardUnits)
}

func TestCreateDrink_Validation(t *testing.T) {
	f := newFixture(t)
	h := NewCreateDrinkHandler(f.drinks)

	valid := CreateDrinkCommand{Name: "Lager", Type: "beer", Volume: 50, AlcoholPercentage: 5}
	tests := []struct {
		name   string
		mutate func(*CreateDrinkCommand)
		want   string
	}{
		{"missing name", func(c *CreateDrinkCommand) { c.Name = " " }, "Name is required"},
		{"long name", func(c *CreateDrinkCommand) { c.Name = strings.Repeat("x", 101) }, "Name must be at most 100 characters"},
		{"unknown type", func(c *CreateDrinkCommand) { c.Type = "mead" }, "Type must be one of"},
		{"zero volume", func(c *CreateDrinkCommand) { c.Volume = 0 }, "Volume must be at least 0.1"},
		{"huge volume", func(c *CreateDrinkCommand) { c.Volume = 1001 }, "Volume must be at most 1000"},
		{"abv over 100", func(c *CreateDrinkCommand) { c.AlcoholPercentage = 101 }, "AlcoholPercentage must be at most 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := valid
			tt.mutate(&cmd)
			_, err := h.Handle(context.Background(), cmd)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, validationMessage(err), tt.want)
		})
	}
}

func TestDeleteDrink(t *testing.T) {
	f := newFixture(t)
	h := NewDeleteDrinkHandler(f.drinks)

	require.NoError(t, h.Handle(context.Background(), DeleteDrinkCommand{ID: 1}))
	assert.ErrorIs(t, h.Handle(context.Background(), DeleteDrinkCommand{ID: 1}), domain.ErrDrinkNotFound)
}

func TestCreateEntry_ExistingDrink(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{}
	h := NewCreateEntryHandler(f.entries, f.drinks, pub)

	entry, err := h.Handle(context.Background(), CreateEntryCommand{
		DrinkID: uintPtr(1), Timestamp: when, Notes: strPtr(" after work "),
	})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.Equal(t, "Stor stark", entry.Drink.Name)
	assert.Equal(t, "after work", *entry.Notes)

	require.Len(t, pub.entries, 1)
	assert.Equal(t, entry.ID, pub.entries[0].ID)
	assert.Equal(t, 1.71, pub.entries[0].Drink.StandardUnits)
}

func TestCreateEntry_InlineDrink(t *testing.T) {
	f := newFixture(t)
	h := NewCreateEntryHandler(f.entries, f.drinks, nil)

	entry, err := h.Handle(context.Background(), CreateEntryCommand{
		Drink:     &CreateDrinkCommand{Name: "Negroni", Type: "cocktail", Volume: 9, AlcoholPercentage: 24},
		Timestamp: when,
	})
	require.NoError(t, err)
	assert.Equal(t, "Negroni", entry.Drink.Name)
	assert.Greater(t, entry.DrinkID, uint(6))
	assert.Nil(t, entry.Notes)

	count, err := f.drinks.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestCreateEntry_Errors(t *testing.T) {
	f := newFixture(t)
	h := NewCreateEntryHandler(f.entries, f.drinks, nil)

	_, err := h.Handle(context.Background(), CreateEntryCommand{Timestamp: when})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Either DrinkId or Drink data must be provided", validationMessage(err))

	_, err = h.Handle(context.Background(), CreateEntryCommand{DrinkID: uintPtr(42), Timestamp: when})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Drink with ID 42 not found", validationMessage(err))

	_, err = h.Handle(context.Background(), CreateEntryCommand{DrinkID: uintPtr(1)})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, validationMessage(err), "Timestamp is required")

	_, err = h.Handle(context.Background(), CreateEntryCommand{DrinkID: uintPtr(1), Timestamp: when, Notes: strPtr(strings.Repeat("n", 501))})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.Handle(context.Background(), CreateEntryCommand{
		Drink: &CreateDrinkCommand{Name: "Bad", Type: "beer"}, Timestamp: when,
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	count, err := f.entries.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateEntry_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	pub := &recordingPublisher{err: errors.New("broker down")}
	h := NewCreateEntryHandler(f.entries, f.drinks, pub)

	entry, err := h.Handle(context.Background(), CreateEntryCommand{DrinkID: uintPtr(2), Timestamp: when})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.Len(t, pub.entries, 1)
}

func TestUpdateEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := NewCreateEntryHandler(f.entries, f.drinks, nil).Handle(ctx, CreateEntryCommand{DrinkID: uintPtr(1), Timestamp: when})
	require.NoError(t, err)

	h := NewUpdateEntryHandler(f.entries, f.drinks)
	later := when.Add(time.Hour)
	updated, err := h.Handle(ctx, UpdateEntryCommand{ID: created.ID, DrinkID: uintPtr(5), Timestamp: later, Notes: strPtr("switched")})
	require.NoError(t, err)
	assert.Equal(t, "Vodka (shot)", updated.Drink.Name)
	assert.True(t, later.Equal(updated.Timestamp))
	assert.Equal(t, "switched", *updated.Notes)

	_, err = h.Handle(ctx, UpdateEntryCommand{ID: 999, DrinkID: uintPtr(1), Timestamp: later})
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	_, err = h.Handle(ctx, UpdateEntryCommand{ID: created.ID, Timestamp: later})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	create := NewCreateEntryHandler(f.entries, f.drinks, nil)
	for i := 0; i < 3; i++ {
		_, err := create.Handle(ctx, CreateEntryCommand{DrinkID: uintPtr(1), Timestamp: when})
		require.NoError(t, err)
	}

	del := NewDeleteEntryHandler(f.entries)
	require.NoError(t, del.Handle(ctx, DeleteEntryCommand{ID: 1}))
	assert.ErrorIs(t, del.Handle(ctx, DeleteEntryCommand{ID: 1}), domain.ErrEntryNotFound)

	n, err := NewDeleteAllEntriesHandler(f.entries).Handle(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	drinks, err := f.drinks.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), drinks)
}
