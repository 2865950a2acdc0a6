package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/alcohol-tracker/internal/catalog/domain"
)

func TestRank_Scoring(t *testing.T) {
	tests := []struct {
		name    string
		product domain.Product
		query   string
		want    float64
	}{
		{
			name:    "partial name only",
			product: domain.Product{ProductNameBold: "Carlsberg", ProducerName: "Brewery AB", ProductNumber: "1234567"},
			query:   "carlsberg",
			want:    0.5,
		},
		{
			name:    "partial name plus producer",
			product: domain.Product{ProductNameBold: "Carlsberg", ProducerName: "Carlsberg Sverige", ProductNumber: "1234567"},
			query:   "carlsberg",
			want:    0.8,
		},
		{
			name:    "product number",
			product: domain.Product{ProductNameBold: "Carlsberg", ProducerName: "Carlsberg Sverige", ProductNumber: "1234567"},
			query:   "1234567",
			want:    0.8,
		},
		{
			name:    "short number substring",
			product: domain.Product{ProductNameBold: "X", ProductNumber: "9999999", ProductNumberShort: "1234"},
			query:   "23",
			want:    0.8,
		},
		{
			name:    "exact combined name",
			product: domain.Product{ProductNameBold: "Carlsberg", ProductNameThin: "Export"},
			query:   "  CARLSBERG export ",
			want:    1.0,
		},
		{
			name:    "name and number capped",
			product: domain.Product{ProductNameBold: "Lager 1234567", ProductNumber: "1234567"},
			query:   "1234567",
			want:    1.0,
		},
		{
			name:    "category",
			product: domain.Product{ProductNameBold: "X", CategoryLevel1: "Öl", CategoryLevel2: "Ljus lager"},
			query:   "lager",
			want:    0.2,
		},
		{
			name:    "category counted once",
			product: domain.Product{ProductNameBold: "X", CategoryLevel1: "Lager", CategoryLevel2: "Lager", CategoryLevel3: "Lager"},
			query:   "lager",
			want:    0.2,
		},
		{
			name:    "grape counted once",
			product: domain.Product{ProductNameBold: "X", Grapes: []string{"Pinot noir", "Pinot gris"}},
			query:   "pinot",
			want:    0.2,
		},
		{
			name:    "country",
			product: domain.Product{ProductNameBold: "X", Country: "Sverige"},
			query:   "sverige",
			want:    0.1,
		},
		{
			name:    "producer category grape country",
			product: domain.Product{ProductNameBold: "X", ProducerName: "Rioja Alta", CategoryLevel3: "Rioja", Grapes: []string{"Tempranillo rioja"}, Country: "Rioja land"},
			query:   "rioja",
			want:    0.8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := rank([]domain.Product{tt.product}, tt.query, 20)
			require.Len(t, results, 1)
			assert.InDelta(t, tt.want, results[0].Confidence, 1e-9)
			assert.Equal(t, domain.Source, results[0].Source)
		})
	}
}

func TestRank_NameWithEmptyThinIsNeverExact(t *testing.T) {
	results := rank([]domain.Product{{ProductNameBold: "Carlsberg"}}, "carlsberg", 20)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.5, results[0].Confidence, 1e-9)
}

func TestRank_NoMatchExcluded(t *testing.T) {
	products := []domain.Product{
		{ProductNameBold: "Carlsberg"},
		{ProductNameBold: "Absolut", ProductNameThin: "Vodka"},
	}
	results := rank(products, "vodka", 20)
	require.Len(t, results, 1)
	assert.Equal(t, "Absolut", results[0].Product.ProductNameBold)
}

func TestRank_OrderingIsStableAndTruncated(t *testing.T) {
	products := []domain.Product{
		{ProductNumber: "a", ProductNameBold: "Rosé", Country: "Rosé land"},
		{ProductNumber: "b", ProductNameBold: "Rosé"},
		{ProductNumber: "c", ProductNameBold: "Rosé"},
		{ProductNumber: "d", ProductNameBold: "Rosé", ProductNameThin: ""},
	}

	results := rank(products, "rosé", 3)
	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Product.ProductNumber)
	assert.Equal(t, "b", results[1].Product.ProductNumber)
	assert.Equal(t, "c", results[2].Product.ProductNumber)
}

func TestRank_DefaultMaxResults(t *testing.T) {
	products := make([]domain.Product, 30)
	for i := range products {
		products[i] = domain.Product{ProductNameBold: "Lager"}
	}
	assert.Len(t, rank(products, "lager", 0), DefaultMaxResults)
	assert.Len(t, rank(products, "lager", -5), DefaultMaxResults)
	assert.Len(t, rank(products, "lager", 25), 25)
}

func TestRank_ShortQueries(t *testing.T) {
	products := []domain.Product{{ProductNameBold: "a"}}
	for _, q := range []string{"", " ", "a", "  a  ", "ö", "\t\n"} {
		results := rank(products, q, 20)
		assert.NotNil(t, results, q)
		assert.Empty(t, results, q)
	}
	assert.Len(t, rank([]domain.Product{{ProductNameBold: "öl"}}, "öl", 20), 1)
}

func TestFindByIdentifier_FieldPriority(t *testing.T) {
	products := []domain.Product{
		{ProductID: "555", ProductNumber: "1", ProductNameBold: "by id"},
		{ProductNumberShort: "555", ProductNumber: "2", ProductNameBold: "by short"},
		{ProductNumber: "555", ProductNameBold: "by number"},
	}

	p, ok := findByIdentifier(products, "555")
	require.True(t, ok)
	assert.Equal(t, "by number", p.ProductNameBold)

	p, ok = findByIdentifier(products[:2], "555")
	require.True(t, ok)
	assert.Equal(t, "by short", p.ProductNameBold)

	p, ok = findByIdentifier(products[:1], "555")
	require.True(t, ok)
	assert.Equal(t, "by id", p.ProductNameBold)

	_, ok = findByIdentifier(products, "55")
	assert.False(t, ok)
	_, ok = findByIdentifier([]domain.Product{{}}, "")
	assert.False(t, ok)
}

func TestComputeStats(t *testing.T) {
	snap := domain.NewSnapshot([]domain.Product{
		{CategoryLevel1: "Öl", Price: 14.9},
		{CategoryLevel1: "Öl", Price: 0},
		{CategoryLevel1: "Vin", Price: 99.0},
		{CategoryLevel1: "Sprit", Price: 259.0},
	}, fixedNow)

	stats := computeStats(snap)
	assert.Equal(t, 4, stats.TotalProducts)
	assert.Equal(t, map[string]int{"Öl": 2, "Vin": 1, "Sprit": 1}, stats.Categories)
	assert.Equal(t, 14.9, stats.PriceRange.Min)
	assert.Equal(t, 259.0, stats.PriceRange.Max)
	assert.Equal(t, 124.3, stats.PriceRange.Average)
	assert.Equal(t, fixedNow, stats.LastUpdated)

	empty := computeStats(nil)
	assert.Zero(t, empty.TotalProducts)
	assert.NotNil(t, empty.Categories)
	assert.Zero(t, empty.PriceRange.Average)
}
