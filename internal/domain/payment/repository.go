package payment

import (
	"context"
)

// Repository defines the interface for payment persistence operations
type Repository interface {
	// Create records a new payment against an invoice
	Create(ctx context.Context, payment *Payment) error

	// Get retrieves a payment by ID
	Get(ctx context.Context, id string) (*Payment, error)

	// Delete removes a payment
	Delete(ctx context.Context, id string) error

	// ListByInvoice retrieves all payments for an invoice ordered by date
	ListByInvoice(ctx context.Context, invoiceID string) ([]*Payment, error)
}
