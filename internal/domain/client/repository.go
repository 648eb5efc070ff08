package client

import (
	"context"
)

// Repository defines the interface for client persistence operations
type Repository interface {
	// Create creates a new client
	Create(ctx context.Context, client *Client) error

	// Get retrieves a client by ID
	Get(ctx context.Context, id string) (*Client, error)

	// Update updates an existing client
	Update(ctx context.Context, client *Client) error

	// Delete removes a client
	Delete(ctx context.Context, id string) error

	// List retrieves all clients for the account ordered by name
	List(ctx context.Context) ([]*Client, error)
}
