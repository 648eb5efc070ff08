package service

import (
	"context"
	"time"

	"github.com/facturio/facturio/internal/api/dto"
	"github.com/facturio/facturio/internal/domain/client"
)

// ClientService manages the clients invoices are issued against
type ClientService interface {
	CreateClient(ctx context.Context, req *dto.CreateClientRequest) (*client.Client, error)
	GetClient(ctx context.Context, id string) (*client.Client, error)
	ListClients(ctx context.Context) ([]*client.Client, error)
	UpdateClient(ctx context.Context, id string, req *dto.UpdateClientRequest) (*client.Client, error)
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	ServiceParams
}

func NewClientService(params ServiceParams) ClientService {
	return &clientService{ServiceParams: params}
}

func (s *clientService) CreateClient(ctx context.Context, req *dto.CreateClientRequest) (*client.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := req.ToClient(ctx)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.ClientRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("created client", "client_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (*client.Client, error) {
	return s.ClientRepo.Get(ctx, id)
}

func (s *clientService) ListClients(ctx context.Context) ([]*client.Client, error) {
	return s.ClientRepo.List(ctx)
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req *dto.UpdateClientRequest) (*client.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.ClientRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Address != nil {
		c.Address = *req.Address
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.UpdatedAt = time.Now().UTC()
	if err := s.ClientRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	if _, err := s.ClientRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.ClientRepo.Delete(ctx, id)
}
