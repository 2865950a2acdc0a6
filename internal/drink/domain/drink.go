package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrDrinkNotFound = errors.New("drink not found")
	ErrEntryNotFound = errors.New("drink entry not found")
	ErrValidation    = errors.New("validation failed")
	ErrInvalidPeriod = errors.New("invalid period")
)

// ValidationError carries a client-facing message and matches ErrValidation
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid returns a ValidationError with a formatted message
func Invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Drink types accepted by the API
const (
	TypeBeer     = "beer"
	TypeWine     = "wine"
	TypeSpirit   = "spirit"
	TypeCocktail = "cocktail"
	TypeOther    = "other"
)

// Drink is a reusable drink definition, either seeded or created from an entry
type Drink struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Name              string    `json:"name" gorm:"size:100;not null"`
	Type              string    `json:"type" gorm:"size:20;not null"`
	Volume            float64   `json:"volume" gorm:"not null"`
	AlcoholPercentage float64   `json:"alcoholPercentage" gorm:"not null"`
	StandardUnits     float64   `json:"standardUnits" gorm:"not null"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (Drink) TableName() string {
	return "drinks"
}

// NewDrink builds a drink with its standard units filled in
func NewDrink(name, drinkType string, volumeCl, abv float64) *Drink {
	return &Drink{
		Name:              name,
		Type:              drinkType,
		Volume:            volumeCl,
		AlcoholPercentage: abv,
		StandardUnits:     StandardUnits(volumeCl, abv),
	}
}

// DrinkEntry records one drink consumed at a point in time
type DrinkEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	DrinkID   uint      `json:"drinkId" gorm:"not null;index"`
	Drink     Drink     `json:"drink" gorm:"foreignKey:DrinkID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
	Notes     *string   `json:"notes,omitempty" gorm:"size:500"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (DrinkEntry) TableName() string {
	return "drink_entries"
}

// DrinkRepository defines the contract for drink data access
type DrinkRepository interface {
	Create(ctx context.Context, drink *Drink) error
	FindByID(ctx context.Context, id uint) (*Drink, error)
	FindAll(ctx context.Context) ([]Drink, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

// EntryRepository defines the contract for drink entry data access.
// Entries are always returned with their drink loaded.
type EntryRepository interface {
	Create(ctx context.Context, entry *DrinkEntry) error
	FindByID(ctx context.Context, id uint) (*DrinkEntry, error)
	FindAll(ctx context.Context) ([]DrinkEntry, error)
	Update(ctx context.Context, entry *DrinkEntry) error
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// EntryPublisher announces logged entries to other services
type EntryPublisher interface {
	EntryLogged(ctx context.Context, entry *DrinkEntry) error
}
