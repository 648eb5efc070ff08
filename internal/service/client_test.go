package service

import (
	"strings"
	"testing"

	"github.com/facturio/facturio/internal/api/dto"
	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/facturio/facturio/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ClientServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ClientService
}

func TestClientService(t *testing.T) {
	suite.Run(t, new(ClientServiceSuite))
}

func (s *ClientServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewClientService(ServiceParams{
		Logger:     s.GetLogger(),
		Config:     s.GetConfig(),
		ClientRepo: s.GetStores().ClientRepo,
	})
}

func (s *ClientServiceSuite) TestCreateClient() {
	c, err := s.service.CreateClient(s.GetContext(), &dto.CreateClientRequest{
		Name:    "Acme Corp",
		Email:   "billing@acme.test",
		Phone:   "514-555-0100",
		Address: "1 Main St",
	})
	s.NoError(err)

	s.True(strings.HasPrefix(c.ID, "client_"))
	s.Equal("Acme Corp", c.Name)
	s.Equal("billing@acme.test", c.Email)
	s.Equal("514-555-0100", c.Phone)
	s.Equal("1 Main St", c.Address)
	s.NotEmpty(c.AccountID)

	stored, err := s.GetStores().ClientRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(c.Name, stored.Name)
}

func (s *ClientServiceSuite) TestCreateClientRequiresName() {
	_, err := s.service.CreateClient(s.GetContext(), &dto.CreateClientRequest{
		Email: "billing@acme.test",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ClientServiceSuite) TestCreateClientRejectsBadEmail() {
	_, err := s.service.CreateClient(s.GetContext(), &dto.CreateClientRequest{
		Name:  "Acme Corp",
		Email: "not-an-email",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ClientServiceSuite) TestGetClientNotFound() {
	_, err := s.service.GetClient(s.GetContext(), "client_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ClientServiceSuite) TestUpdateClientMergesFields() {
	c, err := s.service.CreateClient(s.GetContext(), &dto.CreateClientRequest{
		Name:  "Acme Corp",
		Email: "billing@acme.test",
		Phone: "514-555-0100",
	})
	s.NoError(err)

	email := "accounts@acme.test"
	got, err := s.service.UpdateClient(s.GetContext(), c.ID, &dto.UpdateClientRequest{
		Email: &email,
	})
	s.NoError(err)

	// untouched fields survive the merge
	s.Equal("Acme Corp", got.Name)
	s.Equal("accounts@acme.test", got.Email)
	s.Equal("514-555-0100", got.Phone)

	stored, err := s.GetStores().ClientRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal("accounts@acme.test", stored.Email)
}

func (s *ClientServiceSuite) TestUpdateClientRejectsEmptyName() {
	c, err := s.service.CreateClient(s.GetContext(), &dto.CreateClientRequest{
		Name: "Acme Corp",
	})
	s.NoError(err)

	empty := ""
	_, err = s.service.UpdateClient(s.GetContext(), c.ID, &dto.UpdateClientRequest{
		Name: &empty,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ClientServiceSuite) TestUpdateClientNotFound() {
	name := "Nobody"
	_, err := s.service.UpdateClient(s.GetContext(), "client_missing", &dto.UpdateClientRequest{
		Name: &name,
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ClientServiceSuite) TestDeleteClient() {
	c, err := s.service.CreateClient(s.GetContext(), &dto.CreateClientRequest{
		Name: "Acme Corp",
	})
	s.NoError(err)

	s.NoError(s.service.DeleteClient(s.GetContext(), c.ID))

	_, err = s.service.GetClient(s.GetContext(), c.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	s.Error(s.service.DeleteClient(s.GetContext(), c.ID))
}

func (s *ClientServiceSuite) TestListClientsSortedByName() {
	for _, name := range []string{"Zenith Ltd", "Acme Corp", "Mid Inc"} {
		_, err := s.service.CreateClient(s.GetContext(), &dto.CreateClientRequest{Name: name})
		s.NoError(err)
	}

	clients, err := s.service.ListClients(s.GetContext())
	s.NoError(err)
	s.Len(clients, 3)
	s.Equal("Acme Corp", clients[0].Name)
	s.Equal("Mid Inc", clients[1].Name)
	s.Equal("Zenith Ltd", clients[2].Name)
}
