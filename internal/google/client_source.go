package google

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/bookwise/calsync/internal/store"
)

// ClientSource builds authenticated HTTP clients for users from their stored
// credentials. There is no caching: every resolution reloads the credential
// from storage and constructs a fresh client.
type ClientSource struct {
	conf  *oauth2.Config
	store *store.Store
}

// NewClientSource returns a ClientSource backed by the given store.
func NewClientSource(conf *oauth2.Config, st *store.Store) *ClientSource {
	return &ClientSource{conf: conf, store: st}
}

// HTTPClientForUser resolves the user's stored credential into an
// authenticated HTTP client. Token rotations performed by the oauth2
// transport are written back to the credential record before the rotated
// token is used. Returns store.ErrCredentialNotFound when the user has no
// credential record.
func (s *ClientSource) HTTPClientForUser(ctx context.Context, userID uuid.UUID) (*http.Client, error) {
	user, err := s.store.UserWithCredential(ctx, userID)
	if err != nil {
		return nil, err
	}

	stored := &oauth2.Token{
		AccessToken:  user.Credential.AccessToken,
		RefreshToken: user.Credential.RefreshToken,
		TokenType:    user.Credential.TokenType,
		Expiry:       user.Credential.Expiry,
	}

	src := s.conf.TokenSource(ctx, stored)
	persisting := NewPersistingTokenSource(ctx, src, stored, func(ctx context.Context, token *oauth2.Token) error {
		return s.store.SaveCredentialTokens(ctx, userID, token)
	})

	return oauth2.NewClient(ctx, persisting), nil
}
