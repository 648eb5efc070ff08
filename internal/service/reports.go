package service

import (
	"context"
	"time"

	"github.com/facturio/facturio/internal/api/dto"
	"github.com/facturio/facturio/internal/types"
	"github.com/shopspring/decimal"
)

// ReportsService derives period summaries over invoices. Rows are recomputed
// fresh from the stored invoices on every call; nothing here is persisted.
type ReportsService interface {
	// Summary returns one row per invoice issued in [from, to] plus the
	// aggregate over those rows. Either bound may be nil.
	Summary(ctx context.Context, from, to *time.Time) (*dto.ReportSummaryResponse, error)
}

type reportsService struct {
	ServiceParams
	billing BillingService
}

func NewReportsService(params ServiceParams) ReportsService {
	return &reportsService{
		ServiceParams: params,
		billing:       NewBillingService(params),
	}
}

func (s *reportsService) Summary(ctx context.Context, from, to *time.Time) (*dto.ReportSummaryResponse, error) {
	invoices, err := s.InvoiceRepo.List(ctx, &types.InvoiceFilter{
		IssueDateFrom: from,
		IssueDateTo:   to,
	})
	if err != nil {
		return nil, err
	}

	summary := &dto.ReportSummary{
		Subtotal:  decimal.Zero,
		Discount:  decimal.Zero,
		Shipping:  decimal.Zero,
		Taxes:     make(map[string]decimal.Decimal),
		Total:     decimal.Zero,
		Payments:  decimal.Zero,
		Balance:   decimal.Zero,
		TaxTotal:  decimal.Zero,
		NetIncome: decimal.Zero,
	}

	clientNames := make(map[string]string)
	rows := make([]*dto.ReportRow, 0, len(invoices))
	for _, inv := range invoices {
		totals := s.billing.ComputeTotals(inv)

		name, ok := clientNames[inv.ClientID]
		if !ok {
			if c, err := s.ClientRepo.Get(ctx, inv.ClientID); err == nil {
				name = c.Name
			}
			clientNames[inv.ClientID] = name
		}

		rows = append(rows, &dto.ReportRow{
			Date:     inv.IssueDate,
			Number:   inv.Number,
			Client:   name,
			Subtotal: totals.Subtotal,
			Discount: totals.Discount,
			Taxes:    totals.Taxes,
			Shipping: totals.Shipping,
			Total:    totals.Total,
			Payments: totals.Payments,
			Balance:  totals.Balance,
		})

		summary.Subtotal = summary.Subtotal.Add(totals.Subtotal)
		summary.Discount = summary.Discount.Add(totals.Discount)
		summary.Shipping = summary.Shipping.Add(totals.Shipping)
		for label, amount := range totals.Taxes {
			summary.Taxes[label] = summary.Taxes[label].Add(amount)
		}
		summary.Total = summary.Total.Add(totals.Total)
		summary.Payments = summary.Payments.Add(totals.Payments)
		summary.Balance = summary.Balance.Add(totals.Balance)
	}

	for _, amount := range summary.Taxes {
		summary.TaxTotal = summary.TaxTotal.Add(amount)
	}
	summary.NetIncome = summary.Total.Sub(summary.TaxTotal)

	return &dto.ReportSummaryResponse{
		Rows:    rows,
		Summary: summary,
	}, nil
}
