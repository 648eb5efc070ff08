package dto

import (
	"context"
	"time"

	"github.com/facturio/facturio/internal/config"
	"github.com/facturio/facturio/internal/domain/invoice"
	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/facturio/facturio/internal/types"
	"github.com/facturio/facturio/internal/validator"
	"github.com/shopspring/decimal"
)

// CreateInvoiceLineItemRequest represents a single line item in a create or
// update invoice request
type CreateInvoiceLineItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Taxable     *bool           `json:"taxable"`
}

func (r *CreateInvoiceLineItemRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if !r.Quantity.IsPositive() {
		return ierr.NewError("invalid line item").
			WithHint("Quantity must be positive").
			Mark(ierr.ErrValidation)
	}

	if r.UnitPrice.IsNegative() {
		return ierr.NewError("invalid line item").
			WithHint("Unit price must be non negative").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// CreateInvoiceRequest represents a request to create a new invoice
type CreateInvoiceRequest struct {
	ClientID    string                          `json:"client_id" validate:"required"`
	IssueDate   time.Time                       `json:"issue_date" validate:"required"`
	DueDate     *time.Time                      `json:"due_date,omitempty"`
	Status      *types.InvoiceStatus            `json:"status,omitempty"`
	Currency    string                          `json:"currency,omitempty" validate:"omitempty,len=3"`
	DiscountPct *decimal.Decimal                `json:"discount_pct,omitempty"`
	DiscountAmt *decimal.Decimal                `json:"discount_amt,omitempty"`
	ShippingAmt *decimal.Decimal                `json:"shipping_amt,omitempty"`
	TaxConfig   types.TaxConfig                 `json:"tax_config,omitempty"`
	Notes       string                          `json:"notes,omitempty"`
	Items       []*CreateInvoiceLineItemRequest `json:"items" validate:"required,min=1"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.Status != nil {
		if err := r.Status.Validate(); err != nil {
			return err
		}
	}

	if r.DiscountPct != nil {
		if r.DiscountPct.IsNegative() || r.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
			return ierr.NewError("invalid invoice").
				WithHint("Discount percentage must be between 0 and 100").
				Mark(ierr.ErrValidation)
		}
	}

	if r.DiscountAmt != nil && r.DiscountAmt.IsNegative() {
		return ierr.NewError("invalid invoice").
			WithHint("Discount amount must be non negative").
			Mark(ierr.ErrValidation)
	}

	if r.ShippingAmt != nil && r.ShippingAmt.IsNegative() {
		return ierr.NewError("invalid invoice").
			WithHint("Shipping amount must be non negative").
			Mark(ierr.ErrValidation)
	}

	for _, item := range r.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ToInvoice converts the request to a domain invoice, applying the account
// defaults for currency, tax config and status when absent
func (r *CreateInvoiceRequest) ToInvoice(ctx context.Context, cfg *config.Configuration) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		ClientID:    r.ClientID,
		Currency:    r.Currency,
		IssueDate:   r.IssueDate,
		DueDate:     r.DueDate,
		Status:      types.InvoiceStatusDraft,
		DiscountPct: r.DiscountPct,
		DiscountAmt: r.DiscountAmt,
		ShippingAmt: decimal.Zero,
		TaxConfig:   r.TaxConfig,
		Notes:       r.Notes,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}

	if r.Status != nil {
		inv.Status = *r.Status
	}
	if r.ShippingAmt != nil {
		inv.ShippingAmt = *r.ShippingAmt
	}
	if inv.Currency == "" {
		inv.Currency = cfg.Invoicing.DefaultCurrency
	}
	if len(inv.TaxConfig) == 0 {
		taxConfig := make(types.TaxConfig, len(cfg.Invoicing.DefaultTaxes))
		for label, rate := range cfg.Invoicing.DefaultTaxes {
			taxConfig[label] = rate
		}
		inv.TaxConfig = taxConfig
	}

	inv.LineItems = make([]*invoice.LineItem, len(r.Items))
	for i, item := range r.Items {
		inv.LineItems[i] = item.toLineItem(ctx, inv.ID)
	}

	return inv
}

func (r *CreateInvoiceLineItemRequest) toLineItem(ctx context.Context, invoiceID string) *invoice.LineItem {
	taxable := true
	if r.Taxable != nil {
		taxable = *r.Taxable
	}
	return &invoice.LineItem{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
		InvoiceID:   invoiceID,
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Taxable:     taxable,
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
}

// UpdateInvoiceRequest represents a request to update an invoice. Nil fields
// keep the stored value; a non-nil Items slice replaces the line items
// wholesale.
type UpdateInvoiceRequest struct {
	ClientID    *string                         `json:"client_id,omitempty"`
	IssueDate   *time.Time                      `json:"issue_date,omitempty"`
	DueDate     *time.Time                      `json:"due_date,omitempty"`
	Status      *types.InvoiceStatus            `json:"status,omitempty"`
	Currency    *string                         `json:"currency,omitempty"`
	DiscountPct *decimal.Decimal                `json:"discount_pct,omitempty"`
	DiscountAmt *decimal.Decimal                `json:"discount_amt,omitempty"`
	ShippingAmt *decimal.Decimal                `json:"shipping_amt,omitempty"`
	TaxConfig   types.TaxConfig                 `json:"tax_config,omitempty"`
	Notes       *string                         `json:"notes,omitempty"`
	Items       []*CreateInvoiceLineItemRequest `json:"items,omitempty"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	if r.Status != nil {
		if err := r.Status.Validate(); err != nil {
			return err
		}
	}

	if r.DiscountPct != nil {
		if r.DiscountPct.IsNegative() || r.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
			return ierr.NewError("invalid invoice").
				WithHint("Discount percentage must be between 0 and 100").
				Mark(ierr.ErrValidation)
		}
	}

	if r.DiscountAmt != nil && r.DiscountAmt.IsNegative() {
		return ierr.NewError("invalid invoice").
			WithHint("Discount amount must be non negative").
			Mark(ierr.ErrValidation)
	}

	if r.ShippingAmt != nil && r.ShippingAmt.IsNegative() {
		return ierr.NewError("invalid invoice").
			WithHint("Shipping amount must be non negative").
			Mark(ierr.ErrValidation)
	}

	for _, item := range r.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// InvoiceResponse represents an invoice together with its freshly derived
// totals breakdown
type InvoiceResponse struct {
	*invoice.Invoice
	Totals *types.TotalsBreakdown `json:"totals"`
}
