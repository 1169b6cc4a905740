package models

import "github.com/shopspring/decimal"

var (
	taxRate               = decimal.RequireFromString("0.10")
	freeShippingThreshold = decimal.NewFromInt(100)
	flatShipping          = decimal.NewFromInt(10)
	hundred               = decimal.NewFromInt(100)
)

// Totals holds the full-precision amounts of a cart. Only TotalMinor is rounded.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Shipping   decimal.Decimal `json:"shipping"`
	Total      decimal.Decimal `json:"total"`
	TotalMinor int64           `json:"total_minor"`
}

// CalculateTotals prices cart lines at their products' current price. Lines without a
// loaded product are skipped.
func CalculateTotals(items []CartItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return TotalsForSubtotal(subtotal)
}

// TotalsForSubtotal applies the flat 10% tax and the shipping rule to a subtotal.
func TotalsForSubtotal(subtotal decimal.Decimal) Totals {
	tax := subtotal.Mul(taxRate)
	shipping := flatShipping
	if subtotal.GreaterThanOrEqual(freeShippingThreshold) {
		shipping = decimal.Zero
	}
	total := subtotal.Add(tax).Add(shipping)
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		Shipping:   shipping,
		Total:      total,
		TotalMinor: ToMinorUnits(total),
	}
}

// ToMinorUnits converts a currency amount to cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}
