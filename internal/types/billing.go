package types

import (
	"github.com/shopspring/decimal"
)

// TotalsBreakdown is the canonical financial summary of an invoice, derived
// from its line items, discount, shipping, tax table and payments. It is
// recomputed on every read and never persisted; the stored invoice is always
// the source of truth.
type TotalsBreakdown struct {
	Subtotal        decimal.Decimal            `json:"subtotal"`
	Discount        decimal.Decimal            `json:"discount"`
	TaxableSubtotal decimal.Decimal            `json:"taxable_subtotal"`
	Taxes           map[string]decimal.Decimal `json:"taxes"`
	Shipping        decimal.Decimal            `json:"shipping"`
	Total           decimal.Decimal            `json:"total"`
	Payments        decimal.Decimal            `json:"payments"`
	Balance         decimal.Decimal            `json:"balance"`
}

// TaxTotal returns the sum of all computed tax amounts
func (t *TotalsBreakdown) TaxTotal() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range t.Taxes {
		total = total.Add(amount)
	}
	return total
}
