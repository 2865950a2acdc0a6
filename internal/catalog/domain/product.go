package domain

import (
	"context"
	"errors"
	"time"
)

// Source tags every search result produced from the assortment feed
const Source = "systembolaget"

var (
	// ErrSnapshotAbsent is returned by stores with no fresh, non-empty snapshot
	ErrSnapshotAbsent = errors.New("catalog snapshot absent or expired")
	// ErrEmptyCatalog means the remote feed produced no eligible products
	ErrEmptyCatalog = errors.New("remote catalog contained no eligible products")
)

// Image of a product as published by the feed
type Image struct {
	FileType string `json:"fileType,omitempty"`
	ImageURL string `json:"imageUrl"`
	Size     string `json:"size,omitempty"`
}

// TasteClock is a single keyed taste rating
type TasteClock struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

// Product is one record of the external assortment feed
type Product struct {
	ProductID          string `json:"productId"`
	ProductNumber      string `json:"productNumber"`
	ProductNumberShort string `json:"productNumberShort"`

	ProductNameBold     string   `json:"productNameBold"`
	ProductNameThin     string   `json:"productNameThin"`
	ProducerName        string   `json:"producerName"`
	SupplierName        string   `json:"supplierName"`
	Country             string   `json:"country"`
	OriginLevel1        string   `json:"originLevel1,omitempty"`
	OriginLevel2        string   `json:"originLevel2,omitempty"`
	Category            string   `json:"category,omitempty"`
	CategoryLevel1      string   `json:"categoryLevel1"`
	CategoryLevel2      string   `json:"categoryLevel2"`
	CategoryLevel3      string   `json:"categoryLevel3,omitempty"`
	CategoryLevel4      string   `json:"categoryLevel4,omitempty"`
	CustomCategoryTitle string   `json:"customCategoryTitle,omitempty"`
	Grapes              []string `json:"grapes"`

	Assortment      string `json:"assortment,omitempty"`
	AssortmentText  string `json:"assortmentText,omitempty"`
	BottleText      string `json:"bottleText,omitempty"`
	PackagingLevel1 string `json:"packagingLevel1,omitempty"`
	Color           string `json:"color,omitempty"`
	Taste           string `json:"taste,omitempty"`
	Usage           string `json:"usage,omitempty"`
	Vintage         string `json:"vintage,omitempty"`
	Seal            string `json:"seal,omitempty"`
	VolumeText      string `json:"volumeText,omitempty"`
	SellStartTime   string `json:"sellStartTime,omitempty"`

	AlcoholPercentage        float64 `json:"alcoholPercentage"`
	Price                    float64 `json:"price"`
	Volume                   float64 `json:"volume"`
	RecycleFee               float64 `json:"recycleFee"`
	SugarContent             float64 `json:"sugarContent"`
	SugarContentGramPer100ml float64 `json:"sugarContentGramPer100ml"`

	TasteClockBitter    int          `json:"tasteClockBitter"`
	TasteClockBody      int          `json:"tasteClockBody"`
	TasteClockCasque    int          `json:"tasteClockCasque"`
	TasteClockFruitacid int          `json:"tasteClockFruitacid"`
	TasteClockRoughness int          `json:"tasteClockRoughness"`
	TasteClockSmokiness int          `json:"tasteClockSmokiness"`
	TasteClockSweetness int          `json:"tasteClockSweetness"`
	TasteClocks         []TasteClock `json:"tasteClocks,omitempty"`
	TasteSymbols        []string     `json:"tasteSymbols,omitempty"`
	Images              []Image      `json:"images,omitempty"`

	ProductLaunchDate string `json:"productLaunchDate,omitempty"`

	IsCompletelyOutOfStock bool `json:"isCompletelyOutOfStock"`
	IsTemporaryOutOfStock  bool `json:"isTemporaryOutOfStock"`
	IsDiscontinued         bool `json:"isDiscontinued"`
	IsOrganic              bool `json:"isOrganic"`
	IsKosher               bool `json:"isKosher"`
	IsEthical              bool `json:"isEthical"`
	IsNews                 bool `json:"isNews"`
	IsWebLaunch            bool `json:"isWebLaunch"`
	IsSustainableChoice    bool `json:"isSustainableChoice"`
}

// Eligible reports whether the product may be indexed
func (p Product) Eligible() bool {
	return p.AlcoholPercentage > 0 && !p.IsDiscontinued && !p.IsCompletelyOutOfStock
}

// Clone returns a copy that shares no slices with p
func (p Product) Clone() Product {
	p.Grapes = append([]string(nil), p.Grapes...)
	p.TasteClocks = append([]TasteClock(nil), p.TasteClocks...)
	p.TasteSymbols = append([]string(nil), p.TasteSymbols...)
	p.Images = append([]Image(nil), p.Images...)
	return p
}

// FullName is the bold and thin name segments joined by a single space
func (p Product) FullName() string {
	return p.ProductNameBold + " " + p.ProductNameThin
}

// FilterEligible returns a new slice holding only eligible products
func FilterEligible(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Eligible() {
			out = append(out, p)
		}
	}
	return out
}

// Snapshot is the full eligible product list plus the UTC time of the fetch
// that produced it. Snapshots are never modified after construction.
type Snapshot struct {
	Products  []Product `json:"products"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSnapshot(products []Product, fetchedAt time.Time) *Snapshot {
	return &Snapshot{Products: products, Timestamp: fetchedAt.UTC()}
}

// Fresh reports whether the snapshot is non-empty and younger than ttl at now
func (s *Snapshot) Fresh(now time.Time, ttl time.Duration) bool {
	return s != nil && len(s.Products) > 0 && now.Sub(s.Timestamp) < ttl
}

// SearchResult is a transient ranked match
type SearchResult struct {
	Product    Product `json:"product"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// PriceRange summarizes prices above zero
type PriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// Stats describes the currently loaded catalog
type Stats struct {
	TotalProducts int            `json:"totalProducts"`
	Categories    map[string]int `json:"categories"`
	PriceRange    PriceRange     `json:"priceRange"`
	LastUpdated   time.Time      `json:"lastUpdated"`
}

// SnapshotStore persists the last successful snapshot across restarts
type SnapshotStore interface {
	Read(ctx context.Context) (*Snapshot, error)
	Write(ctx context.Context, snapshot *Snapshot) error
}

// RefreshNotifier announces a snapshot fetched from the remote feed
type RefreshNotifier interface {
	CatalogRefreshed(ctx context.Context, productCount int, fetchedAt time.Time) error
}
