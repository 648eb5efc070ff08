package testutil

import (
	"context"

	"github.com/facturio/facturio/internal/domain/client"
	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/facturio/facturio/internal/types"
)

// InMemoryClientStore implements client.Repository
type InMemoryClientStore struct {
	*InMemoryStore[*client.Client]
}

// NewInMemoryClientStore creates a new in-memory client store
func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{
		InMemoryStore: NewInMemoryStore[*client.Client](),
	}
}

func copyClient(c *client.Client) *client.Client {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

func (s *InMemoryClientStore) Create(ctx context.Context, c *client.Client) error {
	if c == nil {
		return ierr.NewError("client cannot be nil").Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, c.ID, copyClient(c)); err != nil {
		return ierr.WithError(err).Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryClientStore) Get(ctx context.Context, id string) (*client.Client, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("client not found").
			WithReportableDetails(map[string]any{"client_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return copyClient(c), nil
}

func (s *InMemoryClientStore) Update(ctx context.Context, c *client.Client) error {
	if err := s.InMemoryStore.Update(ctx, c.ID, copyClient(c)); err != nil {
		return ierr.NewError("client not found").
			WithReportableDetails(map[string]any{"client_id": c.ID}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryClientStore) Delete(ctx context.Context, id string) error {
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return ierr.NewError("client not found").
			WithReportableDetails(map[string]any{"client_id": id}).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryClientStore) List(ctx context.Context) ([]*client.Client, error) {
	clients := s.InMemoryStore.List(ctx,
		func(ctx context.Context, c *client.Client) bool {
			return c.AccountID == types.GetAccountID(ctx)
		},
		func(i, j *client.Client) bool {
			return i.Name < j.Name
		},
	)

	result := make([]*client.Client, len(clients))
	for i, c := range clients {
		result[i] = copyClient(c)
	}
	return result, nil
}
