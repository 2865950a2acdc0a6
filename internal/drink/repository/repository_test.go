package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
	"github.com/tair/alcohol-tracker/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGormConnection(database.Config{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func strPtr(s string) *string { return &s }

func TestSeed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	n, err := Seed(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	// second run leaves the table alone
	n, err = Seed(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, n)

	drinks, err := NewGormDrinkRepository(db).FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, drinks, 6)

	units := map[string]float64{}
	for _, d := range drinks {
		units[d.Name] = d.StandardUnits
	}
	assert.Equal(t, map[string]float64{
		"Stor stark":    1.71,
		"Liten stark":   1.13,
		"Vin (glas)":    1.18,
		"Vin (flaska)":  5.92,
		"Vodka (shot)":  1.05,
		"Whisky (shot)": 1.05,
	}, units)
}

func TestDrinkRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewTracingDrinkRepository(NewGormDrinkRepository(db))

	drink := domain.NewDrink("IPA", domain.TypeBeer, 33, 6.5)
	require.NoError(t, repo.Create(ctx, drink))
	require.NotZero(t, drink.ID)

	found, err := repo.FindByID(ctx, drink.ID)
	require.NoError(t, err)
	assert.Equal(t, "IPA", found.Name)
	assert.Equal(t, drink.StandardUnits, found.StandardUnits)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, drink.ID))
	_, err = repo.FindByID(ctx, drink.ID)
	assert.ErrorIs(t, err, domain.ErrDrinkNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, drink.ID), domain.ErrDrinkNotFound)
}

func TestEntryRepository_CreateWithInlineDrink(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewTracingEntryRepository(NewGormEntryRepository(db))

	ts := time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC)
	entry := &domain.DrinkEntry{
		Drink:     *domain.NewDrink("Cider", domain.TypeOther, 33, 4.5),
		Timestamp: ts,
		Notes:     strPtr("pub"),
	}
	require.NoError(t, repo.Create(ctx, entry))
	require.NotZero(t, entry.ID)
	require.NotZero(t, entry.DrinkID)

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cider", found.Drink.Name)
	assert.True(t, ts.Equal(found.Timestamp))
	require.NotNil(t, found.Notes)
	assert.Equal(t, "pub", *found.Notes)
}

func TestEntryRepository_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, err := Seed(ctx, db)
	require.NoError(t, err)
	repo := NewGormEntryRepository(db)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, offset := range []time.Duration{0, 2 * time.Hour, time.Hour} {
		require.NoError(t, repo.Create(ctx, &domain.DrinkEntry{DrinkID: uint(i + 1), Timestamp: base.Add(offset)}))
	}

	entries, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Timestamp.Equal(base.Add(2*time.Hour)))
	assert.True(t, entries[1].Timestamp.Equal(base.Add(time.Hour)))
	assert.True(t, entries[2].Timestamp.Equal(base))
	for _, e := range entries {
		assert.NotEmpty(t, e.Drink.Name, "drink should be preloaded")
	}
}

func TestEntryRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, err := Seed(ctx, db)
	require.NoError(t, err)
	repo := NewGormEntryRepository(db)

	entry := &domain.DrinkEntry{DrinkID: 1, Timestamp: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.Create(ctx, entry))

	later := entry.Timestamp.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, &domain.DrinkEntry{ID: entry.ID, DrinkID: 3, Timestamp: later, Notes: strPtr("wine instead")}))

	found, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(3), found.DrinkID)
	assert.Equal(t, "Vin (glas)", found.Drink.Name)
	assert.True(t, later.Equal(found.Timestamp))

	err = repo.Update(ctx, &domain.DrinkEntry{ID: 999, DrinkID: 1, Timestamp: later})
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)

	require.NoError(t, repo.Delete(ctx, entry.ID))
	assert.ErrorIs(t, repo.Delete(ctx, entry.ID), domain.ErrEntryNotFound)
	_, err = repo.FindByID(ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestEntryRepository_DeleteAll(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	_, err := Seed(ctx, db)
	require.NoError(t, err)
	repo := NewGormEntryRepository(db)

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Create(ctx, &domain.DrinkEntry{DrinkID: 1, Timestamp: time.Now().UTC()}))
	}

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeletingDrinkCascadesToEntries(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	drinks := NewGormDrinkRepository(db)
	entries := NewGormEntryRepository(db)

	drink := domain.NewDrink("Lager", domain.TypeBeer, 50, 5)
	require.NoError(t, drinks.Create(ctx, drink))
	require.NoError(t, entries.Create(ctx, &domain.DrinkEntry{DrinkID: drink.ID, Timestamp: time.Now().UTC()}))

	require.NoError(t, drinks.Delete(ctx, drink.ID))

	count, err := entries.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
