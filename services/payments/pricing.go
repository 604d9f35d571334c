package payments

import (
	// External Packages
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Price is what a create request costs, in the smallest currency unit.
type Price struct {
	Base  uint64
	Tax   uint64
	Total uint64
}

// CalculatePrice charges unitPrice per client plus the tax surcharge.
func CalculatePrice(clients int, unitPrice uint64) Price {
	base := uint64(clients) * unitPrice
	tax := CalculateTax(base)
	return Price{Base: base, Tax: tax, Total: base + tax}
}

// CalculateTax returns round(p + p/100) with p = price/100, rounding half away
// from zero. The arithmetic is exact, 550000 gives 5555.
func CalculateTax(price uint64) uint64 {
	p := decimal.NewFromInt(int64(price)).Div(hundred)
	tax := p.Add(p.Div(hundred)).Round(0)
	return uint64(tax.IntPart())
}
