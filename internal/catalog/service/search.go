package service

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tair/alcohol-tracker/internal/catalog/domain"
)

const (
	DefaultMaxResults = 20
	MinQueryLength    = 2
)

// relevance weights, additive per product
const (
	scoreNameExact   = 10
	scoreNamePartial = 5
	scoreNumber      = 8
	scoreProducer    = 3
	scoreCategory    = 2
	scoreGrape       = 2
	scoreCountry     = 1
)

// a score of confidenceScale or more is a certain match
const confidenceScale = 10.0

// queryTooShort reports whether a trimmed query is below the minimum length
func queryTooShort(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLength
}

func contains(field, term string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), term)
}

// score computes the additive relevance of p for an already lowercased term
func score(p domain.Product, term string) int {
	total := 0

	fullName := strings.ToLower(p.FullName())
	if strings.Contains(fullName, term) {
		if fullName == term {
			total += scoreNameExact
		} else {
			total += scoreNamePartial
		}
	}

	if contains(p.ProductNumber, term) || contains(p.ProductNumberShort, term) {
		total += scoreNumber
	}

	if contains(p.ProducerName, term) {
		total += scoreProducer
	}

	if contains(p.CategoryLevel1, term) || contains(p.CategoryLevel2, term) || contains(p.CategoryLevel3, term) {
		total += scoreCategory
	}

	for _, grape := range p.Grapes {
		if contains(grape, term) {
			total += scoreGrape
			break
		}
	}

	if contains(p.Country, term) {
		total += scoreCountry
	}

	return total
}

func confidence(score int) float64 {
	c := float64(score) / confidenceScale
	if c > 1 {
		return 1
	}
	return c
}

// rank scores every product against query and returns the matches ordered by
// descending confidence. Equal confidences keep catalog order.
func rank(products []domain.Product, query string, maxResults int) []domain.SearchResult {
	results := []domain.SearchResult{}
	if queryTooShort(query) {
		return results
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	term := strings.ToLower(strings.TrimSpace(query))
	for _, p := range products {
		s := score(p, term)
		if s == 0 {
			continue
		}
		results = append(results, domain.SearchResult{
			Product:    p,
			Source:     domain.Source,
			Confidence: confidence(s),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// findByIdentifier matches id exactly against the product number, then the
// short number, then the internal id. Field priority wins over list order.
func findByIdentifier(products []domain.Product, id string) (domain.Product, bool) {
	fields := []func(domain.Product) string{
		func(p domain.Product) string { return p.ProductNumber },
		func(p domain.Product) string { return p.ProductNumberShort },
		func(p domain.Product) string { return p.ProductID },
	}
	for _, field := range fields {
		for _, p := range products {
			if v := field(p); v != "" && v == id {
				return p, true
			}
		}
	}
	return domain.Product{}, false
}
