package service

import (
	"time"

	"github.com/facturio/facturio/internal/domain/invoice"
	"github.com/facturio/facturio/internal/types"
	"github.com/shopspring/decimal"
)

// BillingService computes invoice totals and derives the lifecycle status.
// Both operations are pure: they perform no I/O, never fail on well-typed
// input, and return bit-identical results for identical inputs.
type BillingService interface {
	// ComputeTotals derives the canonical totals breakdown from the invoice's
	// line items, discount, shipping, tax config and payments.
	ComputeTotals(inv *invoice.Invoice) *types.TotalsBreakdown

	// ResolveStatus derives the authoritative lifecycle status from a totals
	// breakdown, the optional due date and the previously stored status. The
	// clock is passed in so callers and tests control "now". Persisting the
	// result when it differs from the stored value is the caller's job.
	ResolveStatus(totals *types.TotalsBreakdown, dueDate *time.Time, current types.InvoiceStatus, now time.Time) types.InvoiceStatus
}

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{ServiceParams: params}
}

// ComputeTotals runs entirely on integer cent amounts and converts back to
// decimal currency only in the returned breakdown. Rounding is half away from
// zero throughout (decimal.Round).
//
// Fixed policy: every configured tax rate applies to the whole discounted
// subtotal. The per-item taxable flag is stored but not consulted, matching
// how invoices have always been totalled; changing it would re-total historic
// invoices that carry non-taxable items.
func (s *billingService) ComputeTotals(inv *invoice.Invoice) *types.TotalsBreakdown {
	// Each line rounds to cents independently before the integer sum. A single
	// rounding of the grand sum gives different totals, so keep it per item.
	var subtotalCents int64
	for _, item := range inv.LineItems {
		subtotalCents += types.ToCents(item.Quantity.Mul(item.UnitPrice))
	}

	// Absolute discount wins over percentage; they are never combined.
	var discountCents int64
	switch {
	case inv.DiscountAmt != nil:
		discountCents = types.ToCents(*inv.DiscountAmt)
	case inv.DiscountPct != nil:
		discountCents = decimal.NewFromInt(subtotalCents).
			Mul(*inv.DiscountPct).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	}

	// No floor at zero: a discount larger than the subtotal yields a negative
	// taxable base and flows through to the total as-is.
	taxableCents := subtotalCents - discountCents

	rates := types.NormalizeTaxConfig(inv.TaxConfig)
	taxes := make(map[string]decimal.Decimal, len(rates))
	var taxTotalCents int64
	for label, rate := range rates {
		taxCents := decimal.NewFromInt(taxableCents).Mul(rate).Round(0).IntPart()
		taxes[label] = types.FromCents(taxCents)
		taxTotalCents += taxCents
	}

	shippingCents := types.ToCents(inv.ShippingAmt)
	totalCents := taxableCents + taxTotalCents + shippingCents

	var paymentsCents int64
	for _, p := range inv.Payments {
		paymentsCents += types.ToCents(p.Amount)
	}

	// Balance may be negative on overpayment; it is never clamped.
	balanceCents := totalCents - paymentsCents

	return &types.TotalsBreakdown{
		Subtotal:        types.FromCents(subtotalCents),
		Discount:        types.FromCents(discountCents),
		TaxableSubtotal: types.FromCents(taxableCents),
		Taxes:           taxes,
		Shipping:        types.FromCents(shippingCents),
		Total:           types.FromCents(totalCents),
		Payments:        types.FromCents(paymentsCents),
		Balance:         types.FromCents(balanceCents),
	}
}

// ResolveStatus re-evaluates the status from scratch, first match wins. It
// only ever escalates toward Paid, Partially Paid or Overdue; Draft and Sent
// survive solely as the fall-through of the stored value.
func (s *billingService) ResolveStatus(totals *types.TotalsBreakdown, dueDate *time.Time, current types.InvoiceStatus, now time.Time) types.InvoiceStatus {
	switch {
	case totals.Balance.LessThanOrEqual(decimal.Zero):
		return types.InvoiceStatusPaid
	case totals.Payments.GreaterThan(decimal.Zero):
		return types.InvoiceStatusPartiallyPaid
	case dueDate != nil && dueDate.Before(now):
		return types.InvoiceStatusOverdue
	default:
		if current == "" {
			return types.InvoiceStatusDraft
		}
		return current
	}
}
