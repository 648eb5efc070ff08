package types

import (
	"time"

	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus represents the lifecycle state of an invoice.
//
// Draft and Sent are caller-set markers for invoices with no payments and no
// overdue due date; Partially Paid, Paid and Overdue are derived from the
// invoice totals and due date on every read. The stored value is advisory and
// is corrected by re-derivation, never by event transitions.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "Draft"
	InvoiceStatusSent          InvoiceStatus = "Sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "Partially Paid"
	InvoiceStatusPaid          InvoiceStatus = "Paid"
	InvoiceStatusOverdue       InvoiceStatus = "Overdue"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

const (
	// InvoiceNumberPadWidth is the minimum digit width of the numeric suffix of
	// generated invoice numbers. Sequences beyond this width are kept in full,
	// never truncated.
	InvoiceNumberPadWidth = 4
)

// InvoiceFilter represents the filter options for listing invoices
type InvoiceFilter struct {
	ClientID      *string        `form:"client_id"`
	Status        *InvoiceStatus `form:"status"`
	IssueDateFrom *time.Time     `form:"from"`
	IssueDateTo   *time.Time     `form:"to"`
}
