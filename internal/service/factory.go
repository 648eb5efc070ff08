package service

import (
	"github.com/facturio/facturio/internal/config"
	"github.com/facturio/facturio/internal/domain/client"
	"github.com/facturio/facturio/internal/domain/invoice"
	"github.com/facturio/facturio/internal/domain/payment"
	"github.com/facturio/facturio/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	InvoiceRepo invoice.Repository
	PaymentRepo payment.Repository
	ClientRepo  client.Repository
}
