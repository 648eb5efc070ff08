package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow is one invoice in a reporting period with its freshly derived
// totals
type ReportRow struct {
	Date     time.Time                  `json:"date"`
	Number   string                     `json:"number"`
	Client   string                     `json:"client"`
	Subtotal decimal.Decimal            `json:"subtotal"`
	Discount decimal.Decimal            `json:"discount"`
	Taxes    map[string]decimal.Decimal `json:"taxes"`
	Shipping decimal.Decimal            `json:"shipping"`
	Total    decimal.Decimal            `json:"total"`
	Payments decimal.Decimal            `json:"payments"`
	Balance  decimal.Decimal            `json:"balance"`
}

// ReportSummary aggregates the rows of a reporting period. NetIncome is the
// aggregate total minus the aggregate tax, i.e. revenue excluding collected
// taxes.
type ReportSummary struct {
	Subtotal  decimal.Decimal            `json:"subtotal"`
	Discount  decimal.Decimal            `json:"discount"`
	Shipping  decimal.Decimal            `json:"shipping"`
	Taxes     map[string]decimal.Decimal `json:"taxes"`
	Total     decimal.Decimal            `json:"total"`
	Payments  decimal.Decimal            `json:"payments"`
	Balance   decimal.Decimal            `json:"balance"`
	TaxTotal  decimal.Decimal            `json:"tax_total"`
	NetIncome decimal.Decimal            `json:"net_income"`
}

// ReportSummaryResponse is the full summary report for a date range
type ReportSummaryResponse struct {
	Rows    []*ReportRow   `json:"rows"`
	Summary *ReportSummary `json:"summary"`
}
