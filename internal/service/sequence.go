package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/facturio/facturio/internal/types"
)

// SequenceService produces the next human-readable invoice number for an
// account. The value is advisory: two concurrent creations can read the same
// most-recent number and compute the same next one. Uniqueness is enforced by
// the store's constraint on (account_id, number); callers retry allocation on
// a conflict. This service never retries internally.
type SequenceService interface {
	NextInvoiceNumber(ctx context.Context, prefix string) (string, error)
}

type sequenceService struct {
	ServiceParams
}

func NewSequenceService(params ServiceParams) SequenceService {
	return &sequenceService{ServiceParams: params}
}

func (s *sequenceService) NextInvoiceNumber(ctx context.Context, prefix string) (string, error) {
	latest, err := s.InvoiceRepo.MostRecentNumberWithPrefix(ctx, types.GetAccountID(ctx), prefix)
	if err != nil {
		return "", err
	}

	// Absent or unparseable suffixes count as 0, so the first allocation for a
	// prefix (or a prefix with legacy free-form numbers) yields {prefix}0001.
	var current int64
	if latest != "" {
		suffix := strings.TrimPrefix(latest, prefix)
		if n, err := strconv.ParseInt(suffix, 10, 64); err == nil {
			current = n
		}
	}

	// Padded to at least four digits; longer sequences are kept in full.
	return fmt.Sprintf("%s%0*d", prefix, types.InvoiceNumberPadWidth, current+1), nil
}
