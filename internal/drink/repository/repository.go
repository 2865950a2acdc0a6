package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
)

// AutoMigrate creates or updates the drink tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Drink{}, &domain.DrinkEntry{})
}

type GormDrinkRepository struct {
	db *gorm.DB
}

func NewGormDrinkRepository(db *gorm.DB) *GormDrinkRepository {
	return &GormDrinkRepository{db: db}
}

func (r *GormDrinkRepository) Create(ctx context.Context, drink *domain.Drink) error {
	return r.db.WithContext(ctx).Create(drink).Error
}

func (r *GormDrinkRepository) FindByID(ctx context.Context, id uint) (*domain.Drink, error) {
	var drink domain.Drink
	err := r.db.WithContext(ctx).First(&drink, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrDrinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &drink, nil
}

func (r *GormDrinkRepository) FindAll(ctx context.Context) ([]domain.Drink, error) {
	var drinks []domain.Drink
	err := r.db.WithContext(ctx).Order("id").Find(&drinks).Error
	return drinks, err
}

func (r *GormDrinkRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Drink{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrDrinkNotFound
	}
	return nil
}

func (r *GormDrinkRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Drink{}).Count(&count).Error
	return count, err
}

type GormEntryRepository struct {
	db *gorm.DB
}

func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

// Create stores the entry. A drink without an ID is inserted first in the
// same transaction.
func (r *GormEntryRepository) Create(ctx context.Context, entry *domain.DrinkEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if entry.DrinkID == 0 {
			if err := tx.Create(&entry.Drink).Error; err != nil {
				return err
			}
			entry.DrinkID = entry.Drink.ID
		}
		return tx.Omit(clause.Associations).Create(entry).Error
	})
}

func (r *GormEntryRepository) FindByID(ctx context.Context, id uint) (*domain.DrinkEntry, error) {
	var entry domain.DrinkEntry
	err := r.db.WithContext(ctx).Preload("Drink").First(&entry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *GormEntryRepository) FindAll(ctx context.Context) ([]domain.DrinkEntry, error) {
	var entries []domain.DrinkEntry
	err := r.db.WithContext(ctx).Preload("Drink").Order("timestamp desc").Order("id desc").Find(&entries).Error
	return entries, err
}

// Update saves timestamp, notes and drink of an existing entry. As with
// Create, a drink without an ID is inserted first.
func (r *GormEntryRepository) Update(ctx context.Context, entry *domain.DrinkEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if entry.DrinkID == 0 {
			if err := tx.Create(&entry.Drink).Error; err != nil {
				return err
			}
			entry.DrinkID = entry.Drink.ID
		}
		res := tx.Model(&domain.DrinkEntry{}).Where("id = ?", entry.ID).Updates(map[string]interface{}{
			"drink_id":  entry.DrinkID,
			"timestamp": entry.Timestamp,
			"notes":     entry.Notes,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrEntryNotFound
		}
		return nil
	})
}

func (r *GormEntryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.DrinkEntry{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *GormEntryRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&domain.DrinkEntry{})
	return res.RowsAffected, res.Error
}

func (r *GormEntryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.DrinkEntry{}).Count(&count).Error
	return count, err
}
