package service

import (
	"math"
	"testing"
	"time"

	"github.com/facturio/facturio/internal/domain/invoice"
	"github.com/facturio/facturio/internal/domain/payment"
	"github.com/facturio/facturio/internal/testutil"
	"github.com/facturio/facturio/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service BillingService
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewBillingService(ServiceParams{
		Logger: s.GetLogger(),
		Config: s.GetConfig(),
	})
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func lineItem(description, quantity, unitPrice string, taxable bool) *invoice.LineItem {
	return &invoice.LineItem{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_LINE_ITEM),
		Description: description,
		Quantity:    dec(quantity),
		UnitPrice:   dec(unitPrice),
		Taxable:     taxable,
	}
}

func pay(amount string) *payment.Payment {
	return &payment.Payment{
		ID:     types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		Amount: dec(amount),
		Date:   time.Now().UTC(),
		Method: types.PaymentMethodCash,
	}
}

func (s *BillingServiceSuite) TestComputeTotalsReferenceCase() {
	inv := &invoice.Invoice{
		LineItems: []*invoice.LineItem{
			lineItem("Consulting", "2", "200.00", true),
			lineItem("Materials", "1", "50.00", false),
		},
		TaxConfig: types.TaxConfig{
			"GST": 0.05,
			"QST": 0.09975,
		},
	}

	totals := s.service.ComputeTotals(inv)

	s.True(totals.Subtotal.Equal(dec("450.00")), "subtotal = %s", totals.Subtotal)
	s.True(totals.Discount.IsZero())
	// uniform tax base: the non-taxable item is still part of the base
	s.True(totals.TaxableSubtotal.Equal(dec("450.00")))
	s.True(totals.Taxes["GST"].Equal(dec("22.50")), "GST = %s", totals.Taxes["GST"])
	s.True(totals.Taxes["QST"].Equal(dec("44.89")), "QST = %s", totals.Taxes["QST"])
	s.True(totals.Total.Equal(dec("517.39")), "total = %s", totals.Total)
	s.True(totals.Payments.IsZero())
	s.True(totals.Balance.Equal(dec("517.39")))
}

func (s *BillingServiceSuite) TestComputeTotalsDeterminism() {
	inv := &invoice.Invoice{
		LineItems: []*invoice.LineItem{
			lineItem("Hosting", "3", "33.33", true),
			lineItem("Support", "1.5", "99.99", true),
		},
		DiscountPct: decPtr("7.5"),
		ShippingAmt: dec("12.50"),
		TaxConfig:   types.TaxConfig{"GST": 0.05},
		Payments:    []*payment.Payment{pay("25.00")},
	}

	first := s.service.ComputeTotals(inv)
	for i := 0; i < 10; i++ {
		again := s.service.ComputeTotals(inv)
		s.Equal(first.Total.String(), again.Total.String())
		s.Equal(first.Balance.String(), again.Balance.String())
		s.Equal(first.Taxes["GST"].String(), again.Taxes["GST"].String())
	}
}

func (s *BillingServiceSuite) TestPerItemRounding() {
	// each line rounds to a cent on its own before summing; a single rounding
	// of the grand sum would give 0.01 here
	inv := &invoice.Invoice{
		LineItems: []*invoice.LineItem{
			lineItem("Fraction A", "1", "0.005", true),
			lineItem("Fraction B", "1", "0.005", true),
		},
	}

	totals := s.service.ComputeTotals(inv)
	s.True(totals.Subtotal.Equal(dec("0.02")), "subtotal = %s", totals.Subtotal)
}

func (s *BillingServiceSuite) TestDiscountPrecedence() {
	inv := &invoice.Invoice{
		LineItems: []*invoice.LineItem{
			lineItem("Design", "1", "250.00", true),
		},
		DiscountAmt: decPtr("10"),
		DiscountPct: decPtr("50"),
	}

	totals := s.service.ComputeTotals(inv)
	s.True(totals.Discount.Equal(dec("10.00")), "discount = %s", totals.Discount)
	s.True(totals.TaxableSubtotal.Equal(dec("240.00")))
}

func (s *BillingServiceSuite) TestDiscountPercent() {
	inv := &invoice.Invoice{
		LineItems: []*invoice.LineItem{
			lineItem("Design", "1", "33.33", true),
		},
		DiscountPct: decPtr("7.5"),
	}

	totals := s.service.ComputeTotals(inv)
	// 3333 cents * 7.5% = 249.975 cents, rounded half away from zero
	s.True(totals.Discount.Equal(dec("2.50")), "discount = %s", totals.Discount)
}

func (s *BillingServiceSuite) TestNegativeTaxableSubtotalPassThrough() {
	inv := &invoice.Invoice{
		LineItems: []*invoice.LineItem{
			lineItem("Small job", "1", "50.00", true),
		},
		DiscountAmt: decPtr("100.00"),
		TaxConfig:   types.TaxConfig{"GST": 0.05},
	}

	totals := s.service.ComputeTotals(inv)
	s.True(totals.TaxableSubtotal.Equal(dec("-50.00")))
	s.True(totals.Taxes["GST"].Equal(dec("-2.50")))
	s.True(totals.Total.Equal(dec("-52.50")))
}

func (s *BillingServiceSuite) TestShippingIncludedAfterTax() {
	inv := &invoice.Invoice{
		LineItems: []*invoice.LineItem{
			lineItem("Widget", "2", "10.00", true),
		},
		ShippingAmt: dec("5.00"),
		TaxConfig:   types.TaxConfig{"GST": 0.05},
	}

	totals := s.service.ComputeTotals(inv)
	// shipping is added after tax, not taxed itself
	s.True(totals.Taxes["GST"].Equal(dec("1.00")))
	s.True(totals.Total.Equal(dec("26.00")), "total = %s", totals.Total)
}

func (s *BillingServiceSuite) TestPaymentAggregationOrderIndependent() {
	items := []*invoice.LineItem{lineItem("Work", "1", "1000.00", true)}

	forward := &invoice.Invoice{
		LineItems: items,
		Payments:  []*payment.Payment{pay("100.10"), pay("200.20"), pay("0.03")},
	}
	reversed := &invoice.Invoice{
		LineItems: items,
		Payments:  []*payment.Payment{pay("0.03"), pay("200.20"), pay("100.10")},
	}

	a := s.service.ComputeTotals(forward)
	b := s.service.ComputeTotals(reversed)
	s.True(a.Payments.Equal(dec("300.33")))
	s.True(a.Payments.Equal(b.Payments))
	s.True(a.Balance.Equal(b.Balance))
}

func (s *BillingServiceSuite) TestOverpaymentBalanceNotClamped() {
	inv := &invoice.Invoice{
		LineItems: []*invoice.LineItem{lineItem("Work", "1", "100.00", true)},
		Payments:  []*payment.Payment{pay("150.00")},
	}

	totals := s.service.ComputeTotals(inv)
	s.True(totals.Balance.Equal(dec("-50.00")))
}

func (s *BillingServiceSuite) TestNonNumericTaxEntriesDropped() {
	inv := &invoice.Invoice{
		LineItems: []*invoice.LineItem{lineItem("Work", "1", "100.00", true)},
		TaxConfig: types.TaxConfig{
			"GST":    0.05,
			"BROKEN": "not a number",
			"NAN":    math.NaN(),
			"INF":    math.Inf(1),
		},
	}

	totals := s.service.ComputeTotals(inv)
	s.Len(totals.Taxes, 1)
	s.True(totals.Taxes["GST"].Equal(dec("5.00")))
	s.True(totals.Total.Equal(dec("105.00")))
}

func (s *BillingServiceSuite) TestResolveStatusEscalation() {
	now := s.GetNow()
	paidTotals := &types.TotalsBreakdown{
		Payments: dec("100.00"),
		Balance:  decimal.Zero,
	}

	for _, stored := range []types.InvoiceStatus{
		types.InvoiceStatusDraft,
		types.InvoiceStatusSent,
		types.InvoiceStatusOverdue,
		types.InvoiceStatusPartiallyPaid,
	} {
		s.Equal(types.InvoiceStatusPaid, s.service.ResolveStatus(paidTotals, nil, stored, now))
	}

	partialTotals := &types.TotalsBreakdown{
		Payments: dec("50.00"),
		Balance:  dec("50.00"),
	}
	s.Equal(types.InvoiceStatusPartiallyPaid, s.service.ResolveStatus(partialTotals, nil, types.InvoiceStatusSent, now))

	pastDue := now.Add(-24 * time.Hour)
	unpaidTotals := &types.TotalsBreakdown{
		Payments: decimal.Zero,
		Balance:  dec("100.00"),
	}
	s.Equal(types.InvoiceStatusOverdue, s.service.ResolveStatus(unpaidTotals, &pastDue, types.InvoiceStatusSent, now))
	s.Equal(types.InvoiceStatusOverdue, s.service.ResolveStatus(unpaidTotals, &pastDue, types.InvoiceStatusDraft, now))
}

func (s *BillingServiceSuite) TestResolveStatusStability() {
	now := s.GetNow()
	unpaidTotals := &types.TotalsBreakdown{
		Payments: decimal.Zero,
		Balance:  dec("100.00"),
	}

	futureDue := now.Add(24 * time.Hour)
	s.Equal(types.InvoiceStatusSent, s.service.ResolveStatus(unpaidTotals, &futureDue, types.InvoiceStatusSent, now))
	s.Equal(types.InvoiceStatusDraft, s.service.ResolveStatus(unpaidTotals, nil, types.InvoiceStatusDraft, now))

	// a due date equal to now is not overdue; the comparison is strict
	s.Equal(types.InvoiceStatusSent, s.service.ResolveStatus(unpaidTotals, &now, types.InvoiceStatusSent, now))

	// no stored status defaults to Draft
	s.Equal(types.InvoiceStatusDraft, s.service.ResolveStatus(unpaidTotals, nil, "", now))
}

func (s *BillingServiceSuite) TestResolveStatusIdempotent() {
	now := s.GetNow()
	pastDue := now.Add(-time.Hour)
	totals := &types.TotalsBreakdown{
		Payments: decimal.Zero,
		Balance:  dec("10.00"),
	}

	first := s.service.ResolveStatus(totals, &pastDue, types.InvoiceStatusSent, now)
	second := s.service.ResolveStatus(totals, &pastDue, first, now)
	third := s.service.ResolveStatus(totals, &pastDue, second, now)
	s.Equal(types.InvoiceStatusOverdue, first)
	s.Equal(first, second)
	s.Equal(second, third)
}

func decPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}
