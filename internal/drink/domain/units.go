package domain

import "github.com/shopspring/decimal"

// Grams of ethanol per standard unit and density of ethanol in g/ml
var (
	gramsPerUnit   = decimal.NewFromInt(12)
	ethanolDensity = decimal.RequireFromString("7.89")
	hundred        = decimal.NewFromInt(100)
)

// StandardUnits converts a volume in centiliters at abv percent into Swedish
// standard units (12 g ethanol), rounded half to even to two decimals.
//
//	units = cl * abv * 7.89 / (12 * 100)
func StandardUnits(volumeCl, abv float64) float64 {
	grams := decimal.NewFromFloat(volumeCl).
		Mul(decimal.NewFromFloat(abv)).
		Mul(ethanolDensity)
	units, _ := grams.Div(gramsPerUnit.Mul(hundred)).RoundBank(2).Float64()
	return units
}

// Round2 rounds half to even to two decimals
func Round2(v float64) float64 {
	r, _ := decimal.NewFromFloat(v).RoundBank(2).Float64()
	return r
}
