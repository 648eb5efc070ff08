package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/facturio/facturio/internal/domain/invoice"
	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/facturio/facturio/internal/logger"
	"github.com/facturio/facturio/internal/types"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// pqUniqueViolation is the postgres error code for a unique constraint
// violation. The invoices table carries a unique index on (account_id, number)
// which is what actually guarantees invoice number uniqueness; the sequence
// allocator only proposes a likely next value.
const pqUniqueViolation = "23505"

type invoiceRow struct {
	ID          string              `db:"id"`
	AccountID   string              `db:"account_id"`
	ClientID    string              `db:"client_id"`
	Number      string              `db:"number"`
	Currency    string              `db:"currency"`
	IssueDate   time.Time           `db:"issue_date"`
	DueDate     *time.Time          `db:"due_date"`
	Status      string              `db:"status"`
	DiscountPct decimal.NullDecimal `db:"discount_pct"`
	DiscountAmt decimal.NullDecimal `db:"discount_amt"`
	ShippingAmt decimal.Decimal     `db:"shipping_amt"`
	TaxConfig   []byte              `db:"tax_config"`
	Notes       string              `db:"notes"`
	CreatedAt   time.Time           `db:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at"`
}

type lineItemRow struct {
	ID          string          `db:"id"`
	InvoiceID   string          `db:"invoice_id"`
	AccountID   string          `db:"account_id"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Taxable     bool            `db:"taxable"`
	Position    int             `db:"position"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// InvoiceRepository implements invoice.Repository on postgres
type InvoiceRepository struct {
	db       *sqlx.DB
	payments *PaymentRepository
	logger   *logger.Logger
}

func NewInvoiceRepository(db *sqlx.DB, payments *PaymentRepository, logger *logger.Logger) *InvoiceRepository {
	return &InvoiceRepository{db: db, payments: payments, logger: logger}
}

func toInvoiceRow(inv *invoice.Invoice) (*invoiceRow, error) {
	taxConfig, err := json.Marshal(inv.TaxConfig)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to serialize tax config").
			Mark(ierr.ErrValidation)
	}

	row := &invoiceRow{
		ID:          inv.ID,
		AccountID:   inv.AccountID,
		ClientID:    inv.ClientID,
		Number:      inv.Number,
		Currency:    inv.Currency,
		IssueDate:   inv.IssueDate,
		DueDate:     inv.DueDate,
		Status:      inv.Status.String(),
		ShippingAmt: inv.ShippingAmt,
		TaxConfig:   taxConfig,
		Notes:       inv.Notes,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
	if inv.DiscountPct != nil {
		row.DiscountPct = decimal.NullDecimal{Decimal: *inv.DiscountPct, Valid: true}
	}
	if inv.DiscountAmt != nil {
		row.DiscountAmt = decimal.NullDecimal{Decimal: *inv.DiscountAmt, Valid: true}
	}
	return row, nil
}

func (r *invoiceRow) toDomain() *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:          r.ID,
		ClientID:    r.ClientID,
		Number:      r.Number,
		Currency:    r.Currency,
		IssueDate:   r.IssueDate,
		DueDate:     r.DueDate,
		Status:      types.InvoiceStatus(r.Status),
		ShippingAmt: r.ShippingAmt,
		Notes:       r.Notes,
		BaseModel: types.BaseModel{
			AccountID: r.AccountID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
	}
	if r.DiscountPct.Valid {
		d := r.DiscountPct.Decimal
		inv.DiscountPct = &d
	}
	if r.DiscountAmt.Valid {
		d := r.DiscountAmt.Decimal
		inv.DiscountAmt = &d
	}
	if len(r.TaxConfig) > 0 {
		_ = json.Unmarshal(r.TaxConfig, &inv.TaxConfig)
	}
	return inv
}

func (r *lineItemRow) toDomain() *invoice.LineItem {
	return &invoice.LineItem{
		ID:          r.ID,
		InvoiceID:   r.InvoiceID,
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Taxable:     r.Taxable,
		BaseModel: types.BaseModel{
			AccountID: r.AccountID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
	}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	row, err := toInvoiceRow(inv)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapDBError(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO invoices (
			id, account_id, client_id, number, currency, issue_date, due_date,
			status, discount_pct, discount_amt, shipping_amt, tax_config, notes,
			created_at, updated_at
		) VALUES (
			:id, :account_id, :client_id, :number, :currency, :issue_date, :due_date,
			:status, :discount_pct, :discount_amt, :shipping_amt, :tax_config, :notes,
			:created_at, :updated_at
		)`, row); err != nil {
		return wrapDBError(err, "failed to insert invoice")
	}

	if err := insertLineItems(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return wrapDBError(err, "failed to commit invoice")
	}
	return nil
}

func insertLineItems(ctx context.Context, tx *sqlx.Tx, inv *invoice.Invoice) error {
	for i, item := range inv.LineItems {
		row := &lineItemRow{
			ID:          item.ID,
			InvoiceID:   inv.ID,
			AccountID:   item.AccountID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Taxable:     item.Taxable,
			Position:    i,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		}
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO invoice_line_items (
				id, invoice_id, account_id, description, quantity, unit_price,
				taxable, position, created_at, updated_at
			) VALUES (
				:id, :invoice_id, :account_id, :description, :quantity, :unit_price,
				:taxable, :position, :created_at, :updated_at
			)`, row); err != nil {
			return wrapDBError(err, "failed to insert line item")
		}
	}
	return nil
}

func (r *InvoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	var row invoiceRow
	err := r.db.GetContext(ctx, &row, `
		SELECT * FROM invoices WHERE id = $1 AND account_id = $2`,
		id, types.GetAccountID(ctx))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("invoice not found").
				WithReportableDetails(map[string]any{"invoice_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "failed to get invoice")
	}

	inv := row.toDomain()
	if err := r.loadLineItems(ctx, inv); err != nil {
		return nil, err
	}
	payments, err := r.payments.ListByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Payments = payments
	return inv, nil
}

func (r *InvoiceRepository) loadLineItems(ctx context.Context, inv *invoice.Invoice) error {
	var rows []lineItemRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM invoice_line_items WHERE invoice_id = $1 ORDER BY position`,
		inv.ID)
	if err != nil {
		return wrapDBError(err, "failed to load line items")
	}

	inv.LineItems = make([]*invoice.LineItem, len(rows))
	for i := range rows {
		inv.LineItems[i] = rows[i].toDomain()
	}
	return nil
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	row, err := toInvoiceRow(inv)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapDBError(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.NamedExecContext(ctx, `
		UPDATE invoices SET
			client_id = :client_id, currency = :currency, issue_date = :issue_date,
			due_date = :due_date, status = :status, discount_pct = :discount_pct,
			discount_amt = :discount_amt, shipping_amt = :shipping_amt,
			tax_config = :tax_config, notes = :notes, updated_at = :updated_at
		WHERE id = :id AND account_id = :account_id`, row)
	if err != nil {
		return wrapDBError(err, "failed to update invoice")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("invoice not found").
			WithReportableDetails(map[string]any{"invoice_id": inv.ID}).
			Mark(ierr.ErrNotFound)
	}

	// Replace line items wholesale; they are never mutated in place.
	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_line_items WHERE invoice_id = $1`, inv.ID); err != nil {
		return wrapDBError(err, "failed to delete line items")
	}
	if err := insertLineItems(ctx, tx, inv); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return wrapDBError(err, "failed to commit invoice update")
	}
	return nil
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id string, status types.InvoiceStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3 AND account_id = $4`,
		status.String(), time.Now().UTC(), id, types.GetAccountID(ctx))
	if err != nil {
		return wrapDBError(err, "failed to update invoice status")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("invoice not found").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	// line items and payments cascade via their foreign keys
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM invoices WHERE id = $1 AND account_id = $2`,
		id, types.GetAccountID(ctx))
	if err != nil {
		return wrapDBError(err, "failed to delete invoice")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("invoice not found").
			WithReportableDetails(map[string]any{"invoice_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *InvoiceRepository) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	query := `SELECT * FROM invoices WHERE account_id = $1`
	args := []any{types.GetAccountID(ctx)}

	if filter != nil {
		if filter.ClientID != nil {
			args = append(args, *filter.ClientID)
			query += fmt.Sprintf(` AND client_id = $%d`, len(args))
		}
		if filter.Status != nil {
			args = append(args, filter.Status.String())
			query += fmt.Sprintf(` AND status = $%d`, len(args))
		}
		if filter.IssueDateFrom != nil {
			args = append(args, *filter.IssueDateFrom)
			query += fmt.Sprintf(` AND issue_date >= $%d`, len(args))
		}
		if filter.IssueDateTo != nil {
			args = append(args, *filter.IssueDateTo)
			query += fmt.Sprintf(` AND issue_date <= $%d`, len(args))
		}
	}
	query += ` ORDER BY issue_date DESC`

	var rows []invoiceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapDBError(err, "failed to list invoices")
	}

	invoices := make([]*invoice.Invoice, len(rows))
	for i := range rows {
		inv := rows[i].toDomain()
		if err := r.loadLineItems(ctx, inv); err != nil {
			return nil, err
		}
		payments, err := r.payments.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Payments = payments
		invoices[i] = inv
	}
	return invoices, nil
}

// likeEscaper protects LIKE metacharacters in a configured number prefix so
// a prefix like "INV_" matches literally instead of as a wildcard.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *InvoiceRepository) MostRecentNumberWithPrefix(ctx context.Context, accountID, prefix string) (string, error) {
	var number string
	err := r.db.GetContext(ctx, &number, `
		SELECT number FROM invoices
		WHERE account_id = $1 AND number LIKE $2 ESCAPE '\'
		ORDER BY created_at DESC
		LIMIT 1`, accountID, likeEscaper.Replace(prefix)+"%")
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", wrapDBError(err, "failed to find most recent invoice number")
	}
	return number, nil
}

func wrapDBError(err error, hint string) error {
	var pqErr *pq.Error
	if ierr.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ierr.WithError(err).
			WithHint(hint).
			Mark(ierr.ErrAlreadyExists)
	}
	return ierr.WithError(err).
		WithHint(hint).
		Mark(ierr.ErrDatabase)
}
