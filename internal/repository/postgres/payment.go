package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/facturio/facturio/internal/domain/payment"
	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/facturio/facturio/internal/logger"
	"github.com/facturio/facturio/internal/types"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type paymentRow struct {
	ID        string          `db:"id"`
	InvoiceID string          `db:"invoice_id"`
	AccountID string          `db:"account_id"`
	Amount    decimal.Decimal `db:"amount"`
	Date      time.Time       `db:"date"`
	Method    string          `db:"method"`
	Notes     string          `db:"notes"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (r *paymentRow) toDomain() *payment.Payment {
	return &payment.Payment{
		ID:        r.ID,
		InvoiceID: r.InvoiceID,
		Amount:    r.Amount,
		Date:      r.Date,
		Method:    types.PaymentMethod(r.Method),
		Notes:     r.Notes,
		BaseModel: types.BaseModel{
			AccountID: r.AccountID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
	}
}

// PaymentRepository implements payment.Repository on postgres
type PaymentRepository struct {
	db     *sqlx.DB
	logger *logger.Logger
}

func NewPaymentRepository(db *sqlx.DB, logger *logger.Logger) *PaymentRepository {
	return &PaymentRepository{db: db, logger: logger}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	row := &paymentRow{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		AccountID: p.AccountID,
		Amount:    p.Amount,
		Date:      p.Date,
		Method:    p.Method.String(),
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, `
		INSERT INTO payments (
			id, invoice_id, account_id, amount, date, method, notes,
			created_at, updated_at
		) VALUES (
			:id, :invoice_id, :account_id, :amount, :date, :method, :notes,
			:created_at, :updated_at
		)`, row); err != nil {
		return wrapDBError(err, "failed to insert payment")
	}
	return nil
}

func (r *PaymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	var row paymentRow
	err := r.db.GetContext(ctx, &row, `
		SELECT * FROM payments WHERE id = $1 AND account_id = $2`,
		id, types.GetAccountID(ctx))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("payment not found").
				WithReportableDetails(map[string]any{"payment_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "failed to get payment")
	}
	return row.toDomain(), nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM payments WHERE id = $1 AND account_id = $2`,
		id, types.GetAccountID(ctx))
	if err != nil {
		return wrapDBError(err, "failed to delete payment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("payment not found").
			WithReportableDetails(map[string]any{"payment_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *PaymentRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]*payment.Payment, error) {
	var rows []paymentRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM payments WHERE invoice_id = $1 ORDER BY date`, invoiceID)
	if err != nil {
		return nil, wrapDBError(err, "failed to list payments")
	}

	payments := make([]*payment.Payment, len(rows))
	for i := range rows {
		payments[i] = rows[i].toDomain()
	}
	return payments, nil
}
