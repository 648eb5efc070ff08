package dto

import (
	"context"
	"time"

	"github.com/facturio/facturio/internal/domain/payment"
	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/facturio/facturio/internal/types"
	"github.com/facturio/facturio/internal/validator"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest represents a request to record a payment against an
// invoice
type CreatePaymentRequest struct {
	Date   time.Time           `json:"date" validate:"required"`
	Amount decimal.Decimal     `json:"amount"`
	Method types.PaymentMethod `json:"method" validate:"required"`
	Notes  string              `json:"notes,omitempty"`
}

func (r *CreatePaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if !r.Amount.IsPositive() {
		return ierr.NewError("invalid payment").
			WithHint("Amount must be positive").
			Mark(ierr.ErrValidation)
	}

	return r.Method.Validate()
}

// ToPayment converts the request to a domain payment owned by the invoice
func (r *CreatePaymentRequest) ToPayment(ctx context.Context, invoiceID string) *payment.Payment {
	return &payment.Payment{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		InvoiceID: invoiceID,
		Amount:    r.Amount,
		Date:      r.Date,
		Method:    r.Method,
		Notes:     r.Notes,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}
