package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/facturio/facturio/internal/domain/client"
	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/facturio/facturio/internal/logger"
	"github.com/facturio/facturio/internal/types"
	"github.com/jmoiron/sqlx"
)

type clientRow struct {
	ID        string    `db:"id"`
	AccountID string    `db:"account_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Address   string    `db:"address"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *clientRow) toDomain() *client.Client {
	return &client.Client{
		ID:      r.ID,
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		BaseModel: types.BaseModel{
			AccountID: r.AccountID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		},
	}
}

func toClientRow(c *client.Client) *clientRow {
	return &clientRow{
		ID:        c.ID,
		AccountID: c.AccountID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ClientRepository implements client.Repository on postgres
type ClientRepository struct {
	db     *sqlx.DB
	logger *logger.Logger
}

func NewClientRepository(db *sqlx.DB, logger *logger.Logger) *ClientRepository {
	return &ClientRepository{db: db, logger: logger}
}

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	if _, err := r.db.NamedExecContext(ctx, `
		INSERT INTO clients (
			id, account_id, name, email, phone, address, created_at, updated_at
		) VALUES (
			:id, :account_id, :name, :email, :phone, :address, :created_at, :updated_at
		)`, toClientRow(c)); err != nil {
		return wrapDBError(err, "failed to insert client")
	}
	return nil
}

func (r *ClientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	var row clientRow
	err := r.db.GetContext(ctx, &row, `
		SELECT * FROM clients WHERE id = $1 AND account_id = $2`,
		id, types.GetAccountID(ctx))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ierr.NewError("client not found").
				WithReportableDetails(map[string]any{"client_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, wrapDBError(err, "failed to get client")
	}
	return row.toDomain(), nil
}

func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE clients SET
			name = :name, email = :email, phone = :phone, address = :address,
			updated_at = :updated_at
		WHERE id = :id AND account_id = :account_id`, toClientRow(c))
	if err != nil {
		return wrapDBError(err, "failed to update client")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("client not found").
			WithReportableDetails(map[string]any{"client_id": c.ID}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM clients WHERE id = $1 AND account_id = $2`,
		id, types.GetAccountID(ctx))
	if err != nil {
		return wrapDBError(err, "failed to delete client")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("client not found").
			WithReportableDetails(map[string]any{"client_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*client.Client, error) {
	var rows []clientRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT * FROM clients WHERE account_id = $1 ORDER BY name`,
		types.GetAccountID(ctx))
	if err != nil {
		return nil, wrapDBError(err, "failed to list clients")
	}

	clients := make([]*client.Client, len(rows))
	for i := range rows {
		clients[i] = rows[i].toDomain()
	}
	return clients, nil
}
