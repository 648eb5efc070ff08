package service

import (
	"context"
	"testing"
	"time"

	"github.com/facturio/facturio/internal/domain/invoice"
	"github.com/facturio/facturio/internal/testutil"
	"github.com/facturio/facturio/internal/types"
	"github.com/stretchr/testify/suite"
)

type SequenceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SequenceService
}

func TestSequenceService(t *testing.T) {
	suite.Run(t, new(SequenceServiceSuite))
}

func (s *SequenceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewSequenceService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		InvoiceRepo: s.GetStores().InvoiceRepo,
	})
}

func (s *SequenceServiceSuite) seedInvoice(ctx context.Context, number string, createdAt time.Time) {
	inv := &invoice.Invoice{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		Number:    number,
		Currency:  "CAD",
		IssueDate: createdAt,
		Status:    types.InvoiceStatusDraft,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	inv.CreatedAt = createdAt
	s.NoError(s.GetStores().InvoiceRepo.Create(ctx, inv))
}

func (s *SequenceServiceSuite) TestFirstAllocation() {
	number, err := s.service.NextInvoiceNumber(s.GetContext(), "INV-")
	s.NoError(err)
	s.Equal("INV-0001", number)
}

func (s *SequenceServiceSuite) TestIncrementsMostRecent() {
	ctx := s.GetContext()
	s.seedInvoice(ctx, "INV-0009", s.GetNow())

	number, err := s.service.NextInvoiceNumber(ctx, "INV-")
	s.NoError(err)
	s.Equal("INV-0010", number)
}

func (s *SequenceServiceSuite) TestFollowsCreationOrderNotNumericOrder() {
	ctx := s.GetContext()
	s.seedInvoice(ctx, "INV-0012", s.GetNow().Add(-time.Hour))
	s.seedInvoice(ctx, "INV-0007", s.GetNow())

	// the most recently created invoice drives the sequence, even when an
	// older invoice carries a higher number
	number, err := s.service.NextInvoiceNumber(ctx, "INV-")
	s.NoError(err)
	s.Equal("INV-0008", number)
}

func (s *SequenceServiceSuite) TestUnparseableSuffixRestartsAtOne() {
	ctx := s.GetContext()
	s.seedInvoice(ctx, "INV-LEGACY", s.GetNow())

	number, err := s.service.NextInvoiceNumber(ctx, "INV-")
	s.NoError(err)
	s.Equal("INV-0001", number)
}

func (s *SequenceServiceSuite) TestLongSuffixNotTruncated() {
	ctx := s.GetContext()
	s.seedInvoice(ctx, "INV-12345", s.GetNow())

	number, err := s.service.NextInvoiceNumber(ctx, "INV-")
	s.NoError(err)
	s.Equal("INV-12346", number)
}

func (s *SequenceServiceSuite) TestPrefixesAreIndependent() {
	ctx := s.GetContext()
	s.seedInvoice(ctx, "INV-0042", s.GetNow())

	number, err := s.service.NextInvoiceNumber(ctx, "QUOTE-")
	s.NoError(err)
	s.Equal("QUOTE-0001", number)
}

func (s *SequenceServiceSuite) TestAccountsAreIsolated() {
	otherCtx := context.WithValue(context.Background(), types.CtxAccountID, "acct_other")
	s.seedInvoice(otherCtx, "INV-0099", s.GetNow())

	number, err := s.service.NextInvoiceNumber(s.GetContext(), "INV-")
	s.NoError(err)
	s.Equal("INV-0001", number)
}
