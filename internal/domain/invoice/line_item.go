package invoice

import (
	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/facturio/facturio/internal/types"
	"github.com/shopspring/decimal"
)

// LineItem represents a single line item in an invoice. Line items are owned
// by exactly one invoice and are replaced wholesale on edit, never mutated in
// place once totals have been computed over them.
type LineItem struct {
	ID          string          `json:"id"`
	InvoiceID   string          `json:"invoice_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	// Taxable is recorded per item but the totals calculation applies every
	// configured tax rate to the whole discounted subtotal regardless of this
	// flag. See service.ComputeTotals.
	Taxable bool `json:"taxable"`
	types.BaseModel
}

// Validate validates the invoice line item
func (li *LineItem) Validate() error {
	if li.Description == "" {
		return ierr.NewError("line item validation failed").
			WithHint("description is required").
			Mark(ierr.ErrValidation)
	}

	if !li.Quantity.IsPositive() {
		return ierr.NewError("line item validation failed").
			WithHint("quantity must be positive").
			Mark(ierr.ErrValidation)
	}

	if li.UnitPrice.IsNegative() {
		return ierr.NewError("line item validation failed").
			WithHint("unit_price must be non negative").
			Mark(ierr.ErrValidation)
	}

	return nil
}
