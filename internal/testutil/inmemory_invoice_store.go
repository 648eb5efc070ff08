package testutil

import (
	"context"
	"strings"

	"github.com/facturio/facturio/internal/domain/invoice"
	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/facturio/facturio/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository, including the
// uniqueness constraint on (account_id, number) that the sequence allocator
// depends on.
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
	payments *InMemoryPaymentStore
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store. The payment
// store is used to attach each invoice's payments on reads, the way the SQL
// implementation joins them.
func NewInMemoryInvoiceStore(payments *InMemoryPaymentStore) *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
		payments:      payments,
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}

	out := *inv
	if inv.LineItems != nil {
		out.LineItems = make([]*invoice.LineItem, len(inv.LineItems))
		for i, item := range inv.LineItems {
			itemCopy := *item
			out.LineItems[i] = &itemCopy
		}
	}
	out.Payments = nil
	return &out
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return ierr.NewError("invoice cannot be nil").Mark(ierr.ErrValidation)
	}

	for _, existing := range s.InMemoryStore.List(ctx, nil, nil) {
		if existing.AccountID == inv.AccountID && existing.Number == inv.Number {
			return ierr.NewError("invoice number already exists").
				WithReportableDetails(map[string]any{"number": inv.Number}).
				Mark(ierr.ErrAlreadyExists)
		}
	}

	if err := s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("invoice not found").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrNotFound)
	}

	out := copyInvoice(inv)
	out.Payments, _ = s.payments.ListByInvoice(ctx, id)
	return out, nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if err := s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv)); err != nil {
		return ierr.NewError("invoice not found").
			WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryInvoiceStore) UpdateStatus(ctx context.Context, id string, status types.InvoiceStatus) error {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return ierr.NewError("invoice not found").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrNotFound)
	}

	updated := copyInvoice(inv)
	updated.Status = status
	return s.InMemoryStore.Update(ctx, id, updated)
}

func (s *InMemoryInvoiceStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("invoice not found").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrNotFound)
	}
	s.payments.DeleteByInvoice(ctx, id)
	return nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	invoices := s.InMemoryStore.List(ctx,
		func(ctx context.Context, inv *invoice.Invoice) bool {
			if inv.AccountID != types.GetAccountID(ctx) {
				return false
			}
			if filter == nil {
				return true
			}
			if filter.ClientID != nil && inv.ClientID != *filter.ClientID {
				return false
			}
			if filter.Status != nil && inv.Status != *filter.Status {
				return false
			}
			if filter.IssueDateFrom != nil && inv.IssueDate.Before(*filter.IssueDateFrom) {
				return false
			}
			if filter.IssueDateTo != nil && inv.IssueDate.After(*filter.IssueDateTo) {
				return false
			}
			return true
		},
		func(i, j *invoice.Invoice) bool {
			return i.IssueDate.After(j.IssueDate)
		},
	)

	result := make([]*invoice.Invoice, len(invoices))
	for i, inv := range invoices {
		out := copyInvoice(inv)
		out.Payments, _ = s.payments.ListByInvoice(ctx, inv.ID)
		result[i] = out
	}
	return result, nil
}

func (s *InMemoryInvoiceStore) MostRecentNumberWithPrefix(ctx context.Context, accountID, prefix string) (string, error) {
	var latest *invoice.Invoice
	for _, inv := range s.InMemoryStore.List(ctx, nil, nil) {
		if inv.AccountID != accountID || !strings.HasPrefix(inv.Number, prefix) {
			continue
		}
		if latest == nil || inv.CreatedAt.After(latest.CreatedAt) ||
			(inv.CreatedAt.Equal(latest.CreatedAt) && inv.Number > latest.Number) {
			latest = inv
		}
	}
	if latest == nil {
		return "", nil
	}
	return latest.Number, nil
}
