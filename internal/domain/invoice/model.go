package invoice

import (
	"time"

	"github.com/facturio/facturio/internal/domain/payment"
	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/facturio/facturio/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice represents the invoice domain model
type Invoice struct {
	ID          string              `json:"id"`
	ClientID    string              `json:"client_id"`
	Number      string              `json:"number"`
	Currency    string              `json:"currency"`
	IssueDate   time.Time           `json:"issue_date"`
	DueDate     *time.Time          `json:"due_date,omitempty"`
	Status      types.InvoiceStatus `json:"status"`
	DiscountPct *decimal.Decimal    `json:"discount_pct,omitempty"`
	DiscountAmt *decimal.Decimal    `json:"discount_amt,omitempty"`
	ShippingAmt decimal.Decimal     `json:"shipping_amt"`
	TaxConfig   types.TaxConfig     `json:"tax_config,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	LineItems   []*LineItem         `json:"line_items,omitempty"`
	Payments    []*payment.Payment  `json:"payments,omitempty"`
	types.BaseModel
}

// Validate validates the invoice
func (i *Invoice) Validate() error {
	if i.ClientID == "" {
		return ierr.NewError("invoice validation failed").
			WithHint("client_id is required").
			Mark(ierr.ErrValidation)
	}

	if err := i.Status.Validate(); err != nil {
		return err
	}

	if i.DiscountPct != nil {
		if i.DiscountPct.IsNegative() || i.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
			return ierr.NewError("invoice validation failed").
				WithHint("discount_pct must be between 0 and 100").
				Mark(ierr.ErrValidation)
		}
	}

	if i.DiscountAmt != nil && i.DiscountAmt.IsNegative() {
		return ierr.NewError("invoice validation failed").
			WithHint("discount_amt must be non negative").
			Mark(ierr.ErrValidation)
	}

	if i.ShippingAmt.IsNegative() {
		return ierr.NewError("invoice validation failed").
			WithHint("shipping_amt must be non negative").
			Mark(ierr.ErrValidation)
	}

	for _, item := range i.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	return nil
}
