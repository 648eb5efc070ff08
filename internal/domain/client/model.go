package client

import (
	ierr "github.com/facturio/facturio/internal/errors"
	"github.com/facturio/facturio/internal/types"
)

// Client represents a billable client of an account
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	types.BaseModel
}

// Validate validates the client
func (c *Client) Validate() error {
	if c.Name == "" {
		return ierr.NewError("client validation failed").
			WithHint("name is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}
