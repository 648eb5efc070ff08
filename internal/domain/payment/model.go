package payment

import (
	"time"

	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/facturio/facturio/internal/types"
	"github.com/shopspring/decimal"
)

// Payment represents a payment recorded against an invoice. Payments are
// owned by exactly one invoice and are created and deleted independently of
// each other; the invoice totals are re-derived from the full list on every
// read.
type Payment struct {
	ID        string              `json:"id"`
	InvoiceID string              `json:"invoice_id"`
	Amount    decimal.Decimal     `json:"amount"`
	Date      time.Time           `json:"date"`
	Method    types.PaymentMethod `json:"method"`
	Notes     string              `json:"notes,omitempty"`
	types.BaseModel
}

// Validate validates the payment
func (p *Payment) Validate() error {
	if p.InvoiceID == "" {
		return ierr.NewError("payment validation failed").
			WithHint("invoice_id is required").
			Mark(ierr.ErrValidation)
	}

	if !p.Amount.IsPositive() {
		return ierr.NewError("payment validation failed").
			WithHint("amount must be positive").
			Mark(ierr.ErrValidation)
	}

	return p.Method.Validate()
}
