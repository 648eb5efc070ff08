package testutil

import (
	"context"

	"github.com/facturio/facturio/internal/types"
)

// SetupContext returns a context carrying the default test account and a
// fresh request ID
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxAccountID, types.DefaultAccountID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}
