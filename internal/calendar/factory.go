package calendar

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// HTTPClientSource resolves a user into an authenticated HTTP client.
// Implemented by google.ClientSource.
type HTTPClientSource interface {
	HTTPClientForUser(ctx context.Context, userID uuid.UUID) (*http.Client, error)
}

// Factory builds per-user Calendar clients. Each call resolves the user's
// credential afresh; nothing is cached.
type Factory struct {
	clients HTTPClientSource
}

// NewFactory returns a Factory resolving credentials through clients.
func NewFactory(clients HTTPClientSource) *Factory {
	return &Factory{clients: clients}
}

// ClientForUser returns a Calendar client authenticated as the given user.
func (f *Factory) ClientForUser(ctx context.Context, userID uuid.UUID) (*Client, error) {
	httpClient, err := f.clients.HTTPClientForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, httpClient)
}
