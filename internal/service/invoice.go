package service

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/facturio/facturio/internal/api/dto"
	"github.com/facturio/facturio/internal/domain/invoice"
	"github.com/facturio/facturio/internal/domain/payment"
	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/facturio/facturio/internal/types"
)

// InvoiceService orchestrates invoice CRUD around the billing engine: every
// read recomputes the totals and re-derives the status, persisting the
// corrected status only when it differs from the stored one.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter *types.InvoiceFilter) ([]*dto.InvoiceResponse, error)
	UpdateInvoice(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
	AddPayment(ctx context.Context, invoiceID string, req *dto.CreatePaymentRequest) (*payment.Payment, error)
	RemovePayment(ctx context.Context, paymentID string) error
}

type invoiceService struct {
	ServiceParams
	billing  BillingService
	sequence SequenceService
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams: params,
		billing:       NewBillingService(params),
		sequence:      NewSequenceService(params),
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.ClientRepo.Get(ctx, req.ClientID); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Client not found").
			WithReportableDetails(map[string]any{"client_id": req.ClientID}).
			Mark(ierr.ErrNotFound)
	}

	inv := req.ToInvoice(ctx, s.Config)
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	// The allocator is advisory: a concurrent creation can compute the same
	// number and lose the race at the store's uniqueness constraint. Re-run
	// allocation on conflict, bounded by config; everything else is terminal.
	allocate := func() error {
		number, err := s.sequence.NextInvoiceNumber(ctx, s.Config.Invoicing.NumberPrefix)
		if err != nil {
			return backoff.Permanent(err)
		}
		inv.Number = number

		if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
			if ierr.IsAlreadyExists(err) {
				s.Logger.Warnw("invoice number conflict, reallocating",
					"invoice_id", inv.ID,
					"number", number)
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	retries := uint64(s.Config.Invoicing.MaxNumberRetries)
	if err := backoff.Retry(allocate, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries), ctx)); err != nil {
		return nil, err
	}

	s.Logger.Infow("created invoice",
		"invoice_id", inv.ID,
		"number", inv.Number,
		"client_id", inv.ClientID)

	return s.toResponse(ctx, inv)
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, inv)
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter *types.InvoiceFilter) ([]*dto.InvoiceResponse, error) {
	invoices, err := s.InvoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp, err := s.toResponse(ctx, inv)
		if err != nil {
			return nil, err
		}
		responses[i] = resp
	}
	return responses, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req *dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClientID != nil {
		if _, err := s.ClientRepo.Get(ctx, *req.ClientID); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Client not found").
				WithReportableDetails(map[string]any{"client_id": *req.ClientID}).
				Mark(ierr.ErrNotFound)
		}
		inv.ClientID = *req.ClientID
	}
	if req.IssueDate != nil {
		inv.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate
	}
	if req.Status != nil {
		inv.Status = *req.Status
	}
	if req.Currency != nil {
		inv.Currency = *req.Currency
	}
	if req.DiscountPct != nil {
		inv.DiscountPct = req.DiscountPct
	}
	if req.DiscountAmt != nil {
		inv.DiscountAmt = req.DiscountAmt
	}
	if req.ShippingAmt != nil {
		inv.ShippingAmt = *req.ShippingAmt
	}
	if len(req.TaxConfig) > 0 {
		inv.TaxConfig = req.TaxConfig
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}

	// Line items are never edited in place; a provided list replaces the old
	// one wholesale.
	if req.Items != nil {
		items := make([]*invoice.LineItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = &invoice.LineItem{
				ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
				InvoiceID:   inv.ID,
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				Taxable:     item.Taxable == nil || *item.Taxable,
				BaseModel:   types.GetDefaultBaseModel(ctx),
			}
		}
		inv.LineItems = items
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	inv.UpdatedAt = time.Now().UTC()
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, inv)
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	if _, err := s.InvoiceRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.InvoiceRepo.Delete(ctx, id)
}

func (s *invoiceService) AddPayment(ctx context.Context, invoiceID string, req *dto.CreatePaymentRequest) (*payment.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.InvoiceRepo.Get(ctx, invoiceID); err != nil {
		return nil, err
	}

	p := req.ToPayment(ctx, invoiceID)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.PaymentRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("recorded payment",
		"payment_id", p.ID,
		"invoice_id", invoiceID,
		"amount", p.Amount)

	if err := s.refreshStatus(ctx, invoiceID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *invoiceService) RemovePayment(ctx context.Context, paymentID string) error {
	p, err := s.PaymentRepo.Get(ctx, paymentID)
	if err != nil {
		return err
	}

	if err := s.PaymentRepo.Delete(ctx, paymentID); err != nil {
		return err
	}

	return s.refreshStatus(ctx, p.InvoiceID)
}

// toResponse derives the totals and status for an invoice and writes the
// status back when the stored value is stale. Re-deriving is idempotent, so
// concurrent corrective writes of the same value are harmless.
func (s *invoiceService) toResponse(ctx context.Context, inv *invoice.Invoice) (*dto.InvoiceResponse, error) {
	totals := s.billing.ComputeTotals(inv)
	resolved := s.billing.ResolveStatus(totals, inv.DueDate, inv.Status, time.Now().UTC())
	if resolved != inv.Status {
		if err := s.InvoiceRepo.UpdateStatus(ctx, inv.ID, resolved); err != nil {
			return nil, err
		}
		s.Logger.Debugw("corrected stale invoice status",
			"invoice_id", inv.ID,
			"stored", inv.Status,
			"resolved", resolved)
		inv.Status = resolved
	}

	return &dto.InvoiceResponse{
		Invoice: inv,
		Totals:  totals,
	}, nil
}

func (s *invoiceService) refreshStatus(ctx context.Context, invoiceID string) error {
	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return err
	}
	_, err = s.toResponse(ctx, inv)
	return err
}
