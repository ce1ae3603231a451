package render

import "math"

// Summary holds the computed money lines for a quote. Values are kept at
// full float precision; rounding happens only at formatting time.
type Summary struct {
	Subtotal  float64
	TaxAmount float64
	Total     float64
}

// Totals computes subtotal, tax and total from line items and a percentage
// tax rate. Non-finite or negative rates are treated as zero so a bad
// stored rate degrades to an untaxed quote instead of a corrupt document.
func Totals(items []LineItemView, taxRate float64) Summary {
	var sum Summary
	for _, item := range items {
		sum.Subtotal += item.Quantity * item.UnitCost
	}
	rate := taxRate
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		rate = 0
	}
	sum.TaxAmount = sum.Subtotal * rate / 100
	sum.Total = sum.Subtotal + sum.TaxAmount
	return sum
}
