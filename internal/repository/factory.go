package repository

import (
	"github.com/facturio/facturio/internal/domain/client"
	"github.com/facturio/facturio/internal/domain/invoice"
	"github.com/facturio/facturio/internal/domain/payment"
	"github.com/facturio/facturio/internal/logger"
	pg "github.com/facturio/facturio/internal/repository/postgres"
	"github.com/jmoiron/sqlx"
)

// Repositories bundles the persistence implementations behind the domain
// interfaces
type Repositories struct {
	Invoice invoice.Repository
	Payment payment.Repository
	Client  client.Repository
}

// NewRepositories wires the postgres implementations
func NewRepositories(db *sqlx.DB, log *logger.Logger) *Repositories {
	payments := pg.NewPaymentRepository(db, log)
	return &Repositories{
		Payment: payments,
		Invoice: pg.NewInvoiceRepository(db, payments, log),
		Client:  pg.NewClientRepository(db, log),
	}
}
