package dto

import (
	"context"

	"github.com/facturio/facturio/internal/domain/client"
	"github.com/facturio/facturio/internal/types"
	"github.com/facturio/facturio/internal/validator"
)

// CreateClientRequest represents a request to create a new client
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func (r *CreateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToClient converts the request to a domain client
func (r *CreateClientRequest) ToClient(ctx context.Context) *client.Client {
	return &client.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

// UpdateClientRequest represents a request to update a client. Nil fields
// keep the stored value.
type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (r *UpdateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}
