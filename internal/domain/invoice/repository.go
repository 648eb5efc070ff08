package invoice

import (
	"context"

	"github.com/facturio/facturio/internal/types"
)

// Repository defines the interface for invoice persistence operations.
//
// Implementations must enforce a uniqueness constraint on (account_id, number)
// and surface a conflict as ierr.ErrAlreadyExists: the sequence allocator only
// produces a likely next number and relies on the store to reject duplicates
// under concurrent creation.
type Repository interface {
	// Create creates a new invoice together with its line items
	Create(ctx context.Context, invoice *Invoice) error

	// Get retrieves an invoice by ID with its line items and payments
	Get(ctx context.Context, id string) (*Invoice, error)

	// Update updates an existing invoice, replacing its line items wholesale
	Update(ctx context.Context, invoice *Invoice) error

	// UpdateStatus persists a corrected lifecycle status. Writing the same
	// value repeatedly is harmless, which is what makes the stale-status
	// write-through safe without locking.
	UpdateStatus(ctx context.Context, id string, status types.InvoiceStatus) error

	// Delete removes an invoice and its owned line items and payments
	Delete(ctx context.Context, id string) error

	// List retrieves invoices based on filter criteria, most recently issued first
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)

	// MostRecentNumberWithPrefix returns the number of the most recently
	// created invoice for the account whose number starts with prefix, or ""
	// when none exists.
	MostRecentNumberWithPrefix(ctx context.Context, accountID, prefix string) (string, error)
}
